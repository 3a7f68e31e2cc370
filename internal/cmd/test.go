package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync/atomic"

	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/arcnav/browser"
	"github.com/nguyengg/arcnav/internal"
	"github.com/nguyengg/arcnav/internal/executor"
)

type Test struct {
	Parallel int `short:"P" long:"parallel" description:"the number of archives to test concurrently; 0 to test one at a time" default:"0"`
	Args     struct {
		Archives []flags.Filename `positional-arg-name:"archive" description:"the archives to test" required:"yes"`
	} `positional-args:"yes"`
}

func (c *Test) Execute(args []string) error {
	if err := checkArgs(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	if err := loadConfig(ctx); err != nil {
		return err
	}

	svc := newArchiver()
	ex := executor.NewCallerRunOnRejectExecutor(c.Parallel)

	var ok, corrupted, failed atomic.Int32
	n := len(c.Args.Archives)
	for i, file := range c.Args.Archives {
		if ctx.Err() != nil {
			break
		}

		name := string(file)
		logger := internal.NewLogger(i, n, name)

		ex.Execute(func() {
			coord, err := open(ctx, svc, logger, name)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.Printf("open archive error: %v", err)
					failed.Add(1)
				}
				return
			}
			defer coord.Close()

			switch res := coord.Test(ctx).Wait(); {
			case res.Kind == browser.StatusCancelled:
			case res.Err != nil:
				logger.Printf("test error: %v", res.Err)
				failed.Add(1)
			case res.OK:
				logger.Printf("ok")
				ok.Add(1)
			default:
				logger.Printf("archive is corrupted")
				corrupted.Add(1)
			}
		})
	}

	_ = ex.Close()

	log.Printf("%d/%d archives ok, %d corrupted, %d failed", ok.Load(), n, corrupted.Load(), failed.Load())
	return testError(int(corrupted.Load()), int(failed.Load()))
}

// testError returns a non-nil error if any archive is corrupted or could not be tested.
func testError(corrupted, failed int) error {
	switch {
	case corrupted != 0 && failed != 0:
		return fmt.Errorf("found %d corrupted archives and %d archives that could not be tested", corrupted, failed)
	case corrupted != 0:
		return fmt.Errorf("found %d corrupted archives", corrupted)
	case failed != 0:
		return fmt.Errorf("%d archives could not be tested", failed)
	default:
		return nil
	}
}

package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/arcnav/browser"
	"github.com/nguyengg/arcnav/internal"
)

type Add struct {
	Args struct {
		Archive flags.Filename   `positional-arg-name:"archive" description:"the ZIP archive to add to" required:"yes"`
		Files   []flags.Filename `positional-arg-name:"file" description:"the local files or directories to add to the root of the archive" required:"yes"`
	} `positional-args:"yes"`
}

func (c *Add) Execute(args []string) error {
	if err := checkArgs(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	if err := loadConfig(ctx); err != nil {
		return err
	}

	name := string(c.Args.Archive)
	logger := internal.NewLogger(0, 1, name)

	coord, err := open(ctx, newArchiver(), logger, name)
	if err != nil {
		return fmt.Errorf("open archive error: %w", err)
	}
	defer coord.Close()

	before := coord.Aggregate()

	switch res := run(coord, coord.AddFiles(ctx, toStrings(c.Args.Files)), "adding"); res.Kind {
	case browser.StatusCancelled:
		logger.Printf("interrupted; archive is unchanged")
		return nil
	case browser.StatusFailed:
		if browser.Classify(res.Err) == browser.UnsupportedOperation {
			return fmt.Errorf("%s archives do not support adding files", coord.Snapshot().Capabilities.Format)
		}

		return fmt.Errorf("add error: %w", res.Err)
	}

	after := coord.Aggregate()
	log.Printf("archive now has %d files (was %d)", after.FileCount, before.FileCount)
	return nil
}

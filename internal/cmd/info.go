package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/arcnav/internal"
)

type Info struct {
	Args struct {
		Archives []flags.Filename `positional-arg-name:"archive" description:"the archives to inspect" required:"yes"`
	} `positional-args:"yes"`
}

func (c *Info) Execute(args []string) error {
	if err := checkArgs(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	if err := loadConfig(ctx); err != nil {
		return err
	}

	svc := newArchiver()

	success := 0
	n := len(c.Args.Archives)
	for i, file := range c.Args.Archives {
		name := string(file)
		logger := internal.NewLogger(i, n, name)

		coord, err := open(ctx, svc, logger, name)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}

			logger.Printf("open archive error: %v", err)
			continue
		}

		snap, agg := coord.Snapshot(), coord.Aggregate()
		_ = coord.Close()

		ratio := "n/a"
		if agg.TotalSize > 0 && agg.TotalCompressedSize > 0 {
			ratio = fmt.Sprintf("%.1f%%", float64(agg.TotalCompressedSize)/float64(agg.TotalSize)*100)
		}

		fmt.Printf("%s\n", name)
		fmt.Printf("\tformat:           %s\n", snap.Capabilities.Format)
		fmt.Printf("\tsupports add:     %t\n", snap.Capabilities.Add)
		fmt.Printf("\tsupports delete:  %t\n", snap.Capabilities.Delete)
		fmt.Printf("\tfiles:            %s\n", humanize.Comma(int64(agg.FileCount)))
		fmt.Printf("\tfolders:          %s\n", humanize.Comma(int64(agg.FolderCount)))
		fmt.Printf("\ttotal size:       %s\n", humanize.IBytes(uint64(agg.TotalSize)))
		fmt.Printf("\tcompressed size:  %s\n", humanize.IBytes(uint64(agg.TotalCompressedSize)))
		fmt.Printf("\tratio:            %s\n", ratio)
		success++
	}

	log.Printf("successfully inspected %d/%d archives", success, n)
	return nil
}

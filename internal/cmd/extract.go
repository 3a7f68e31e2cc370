package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/arcnav/archive"
	"github.com/nguyengg/arcnav/browser"
	"github.com/nguyengg/arcnav/internal"
	"github.com/nguyengg/arcnav/internal/config"
)

type Extract struct {
	Dir         string `short:"C" long:"dir" description:"the destination directory; by default, a new directory named after the archive is created unless all entries share the same top-level directory"`
	NoOverwrite bool   `long:"no-overwrite" description:"skip files that already exist at the destination"`
	NoExpand    bool   `long:"no-expand" description:"only extract entries whose paths match exactly; by default, a directory path also extracts all of its descendants"`
	Args        struct {
		Archive flags.Filename `positional-arg-name:"archive" description:"the archive to extract" required:"yes"`
		Paths   []string       `positional-arg-name:"path" description:"the archive paths to extract; all entries by default"`
	} `positional-args:"yes"`
}

func (c *Extract) Execute(args []string) error {
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

	svc := newArchiver(func(opts *archive.Options) {
		opts.NoOverwrite = opts.NoOverwrite || c.NoOverwrite
		opts.NoExpandDirectories = c.NoExpand
	})

	coord, err := open(ctx, svc, logger, name)
	if err != nil {
		return fmt.Errorf("open archive error: %w", err)
	}
	defer coord.Close()

	dir, err := c.destination(name, coord.Snapshot())
	if err != nil {
		return err
	}

	var task *browser.Task
	if len(c.Args.Paths) == 0 {
		task = coord.ExtractAll(ctx, dir)
	} else {
		task = coord.ExtractPaths(ctx, c.Args.Paths, dir)
	}

	switch res := run(coord, task, "extracting"); res.Kind {
	case browser.StatusCancelled:
		logger.Printf("interrupted; partially extracted files are kept in %s", dir)
		return nil
	case browser.StatusFailed:
		return fmt.Errorf("extract error: %w", res.Err)
	}

	logger.Printf(`extracted to "%s"`, dir)
	return nil
}

// destination returns the directory to extract to.
//
// If neither the flag nor the config specifies one, entries that share the same top-level directory are extracted to
// the working directory; otherwise a new directory named after the archive is created.
func (c *Extract) destination(name string, snap *browser.Snapshot) (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	if dir := config.ForExtract().Dir; dir != "" {
		return dir, nil
	}
	if len(c.Args.Paths) == 0 && internal.FindRootDir(snap.Entries) != "" {
		return ".", nil
	}

	stem, _ := archive.StemAndExt(filepath.Base(name))
	return internal.MkExclDir(stem)
}

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/arcnav/browser"
	"github.com/nguyengg/arcnav/internal"
)

type Remove struct {
	Force bool `short:"f" long:"force" description:"delete without prompting for confirmation"`
	Args  struct {
		Archive flags.Filename `positional-arg-name:"archive" description:"the archive to remove entries from" required:"yes"`
		Paths   []string       `positional-arg-name:"path" description:"the archive paths to remove; directories are removed with all of their descendants" required:"yes"`
	} `positional-args:"yes"`
}

func (c *Remove) Execute(args []string) error {
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

	if !c.Force {
		switch ok, err := confirm(os.Stdin, fmt.Sprintf(`Confirm deletion of %d path(s) from "%s"`, len(c.Args.Paths), name)); {
		case err != nil:
			return err
		case !ok:
			logger.Printf("deletion aborted")
			return nil
		}
	}

	coord, err := open(ctx, newArchiver(), logger, name)
	if err != nil {
		return fmt.Errorf("open archive error: %w", err)
	}
	defer coord.Close()

	before := coord.Aggregate()

	switch res := coord.DeleteEntries(ctx, c.Args.Paths).Wait(); res.Kind {
	case browser.StatusCancelled:
		logger.Printf("interrupted; archive is unchanged")
		return nil
	case browser.StatusFailed:
		if browser.Classify(res.Err) == browser.UnsupportedOperation {
			return fmt.Errorf("%s archives do not support deleting entries", coord.Snapshot().Capabilities.Format)
		}

		return fmt.Errorf("remove error: %w", res.Err)
	}

	after := coord.Aggregate()
	log.Printf("removed %d files and %d folders", before.FileCount-after.FileCount, before.FolderCount-after.FolderCount)
	return nil
}

// confirm prompts for a yes/no answer. Only "y" or "yes" (case-insensitive) confirms.
func confirm(r io.Reader, prompt string) (bool, error) {
	fmt.Printf("%s [y/N]: ", prompt)

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read prompt error: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/arcnav/browser"
	"github.com/nguyengg/arcnav/internal"
)

type List struct {
	Args struct {
		Archive flags.Filename `positional-arg-name:"archive" description:"the archive to list" required:"yes"`
		Dir     string         `positional-arg-name:"dir" description:"the directory in the archive to list; the root by default"`
	} `positional-args:"yes"`
}

func (c *List) Execute(args []string) error {
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

	if c.Args.Dir != "" && !coord.NavigateTo(c.Args.Dir) {
		logger.Printf(`directory "%s" not found; listing root instead`, c.Args.Dir)
	}

	printNodes(os.Stdout, coord.Dir(), coord.Nodes())
	return nil
}

// printNodes writes one line per node: kind, size, compressed size, ratio, modification time, and name.
func printNodes(w io.Writer, dir string, nodes []browser.Node) {
	if dir == "" {
		dir = "/"
	}
	_, _ = fmt.Fprintf(w, "%s:\n", dir)

	for _, n := range nodes {
		kind, size, packed, ratio, modified := "-", "", "", "", ""

		switch {
		case n.IsDir:
			kind = "d"
		default:
			size = humanize.IBytes(uint64(n.Size))
			if n.CompressedSize > 0 {
				packed = humanize.IBytes(uint64(n.CompressedSize))
			}
			if n.CompressionRatio > 0 {
				ratio = fmt.Sprintf("%.0f%%", n.CompressionRatio*100)
			}
		}

		if !n.LastModified.IsZero() {
			modified = n.LastModified.Local().Format("2006-01-02 15:04")
		}

		name := n.Name
		if n.IsDir && !n.IsParentLink {
			name += "/"
		}

		_, _ = fmt.Fprintf(w, "%s %10s %10s %5s %16s  %s\n", kind, size, packed, ratio, modified, name)
	}
}

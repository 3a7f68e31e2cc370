package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/arcnav/archive"
	"github.com/nguyengg/arcnav/browser"
	"github.com/nguyengg/arcnav/internal"
	"github.com/nguyengg/arcnav/internal/config"
)

type Arcnav struct {
	Verbose bool `short:"v" long:"verbose" description:"log the start and end of every operation to stderr"`

	List    List    `command:"list" alias:"ls" description:"list the contents of a directory in an archive"`
	Info    Info    `command:"info" description:"show the format and statistics of archives"`
	Extract Extract `command:"extract" alias:"x" description:"extract all or some entries of an archive"`
	Add     Add     `command:"add" description:"add local files and directories to an archive"`
	Remove  Remove  `command:"remove" alias:"rm" description:"remove entries from an archive"`
	Test    Test    `command:"test" alias:"t" description:"verify the integrity of archives"`
}

// verbose is set from Arcnav.Verbose before any command is executed.
var verbose bool

// NewParser creates the parser for all arcnav commands.
func NewParser() *flags.Parser {
	opts := &Arcnav{}

	p := flags.NewParser(opts, flags.Default)
	p.Name = "arcnav"

	p.CommandHandler = func(command flags.Commander, args []string) error {
		verbose = opts.Verbose
		return command.Execute(args)
	}

	return p
}

// loadConfig loads the .arcnav file, logging where it was found.
func loadConfig(ctx context.Context) error {
	name, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config error: %w", err)
	}

	if name != "" && verbose {
		log.Printf(`using config "%s"`, name)
	}

	return nil
}

// newArchiver creates an archive.Archiver using the settings from config.
func newArchiver(optFns ...func(*archive.Options)) *archive.Archiver {
	return archive.New(append([]func(*archive.Options){func(opts *archive.Options) {
		opts.NoOverwrite = config.ForExtract().NoOverwrite
		opts.CompressionLevel = config.ForZip().Level
	}}, optFns...)...)
}

// open creates a browser.Coordinator and loads the given archive.
//
// The Coordinator must be closed by caller.
func open(ctx context.Context, svc archive.Service, logger *log.Logger, name string) (*browser.Coordinator, error) {
	c := browser.New(svc, func(opts *browser.Options) {
		opts.ProgressInterval = config.ForProgress().Interval
		if verbose {
			opts.Logger = logger
		} else {
			opts.Logger = log.New(io.Discard, "", 0)
		}
	})

	if res := c.Load(ctx, name).Wait(); res.Err != nil {
		_ = c.Close()
		return nil, res.Err
	}

	return c, nil
}

// run waits for the given task while rendering its progress.
func run(c *browser.Coordinator, task *browser.Task, description string) browser.Result {
	bar := internal.DefaultPercent(description)

	unsubscribe := c.Subscribe(func(ev browser.Event) {
		if ev.Kind != browser.OperationProgress || ev.Status.Generation != task.Generation() {
			return
		}

		bar.Describe(description + " " + internal.TruncateRightWithSuffix(ev.Status.CurrentEntry, 30, "..."))
		_ = bar.Set(int(ev.Status.Percentage))
	})

	res := task.Wait()
	unsubscribe()

	if res.Kind == browser.StatusCompleted {
		_ = bar.Finish()
	} else {
		_ = bar.Exit()
	}

	return res
}

// checkArgs rejects unknown positional arguments.
func checkArgs(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	return nil
}

// toStrings converts flags.Filename to string.
func toStrings(files []flags.Filename) []string {
	s := make([]string, len(files))
	for i, f := range files {
		s[i] = string(f)
	}

	return s
}

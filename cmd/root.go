// Package cmd implements the CLI command structure for task-cli.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/task-cli/internal/config"
	"github.com/nibzard/task-cli/internal/logging"
	"github.com/nibzard/task-cli/internal/service"
	"github.com/nibzard/task-cli/internal/store"
)

// Version is set via ldflags at build time.
var Version = "dev"

var errExtraArgs = errors.New("extra arguments provided")

// app carries what every subcommand needs.
type app struct {
	cfg     *config.Config
	loaded  *config.ConfigWithSources
	logger  *log.Logger
	store   *store.Store
	svc     *service.Service
	flags   *flag.FlagSet
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
	inShell bool
}

// Run executes the task-cli CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdin, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("task-cli", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {
		printUsage(fs, errOut)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")

	loaded, err := config.LoadWithSources(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}

	a := newApp(loaded, in, out, errOut)
	a.flags = fs
	if *help {
		printUsage(fs, out)
		return nil
	}
	if *showVersion {
		return a.versionCommand(nil)
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		printUsage(fs, errOut)
		return fmt.Errorf("no command given")
	}
	return a.dispatch(ctx, remaining[0], remaining[1:])
}

func newApp(loaded *config.ConfigWithSources, in io.Reader, out, errOut io.Writer) *app {
	cfg := loaded.Config
	logger := logging.FromConfig(errOut, cfg)
	st := store.New(store.Options{
		Dir:                cfg.StorageDir,
		Logger:             logger,
		TolerateReadErrors: cfg.TolerateReadErrors,
	})
	return &app{
		cfg:    cfg,
		loaded: loaded,
		logger: logger,
		store:  st,
		svc:    service.New(st),
		in:     in,
		out:    out,
		errOut: errOut,
	}
}

// dispatch runs one subcommand. The shell uses it for every line.
func (a *app) dispatch(ctx context.Context, name string, args []string) error {
	switch strings.ToLower(name) {
	case "add":
		return a.addCommand(args)
	case "get":
		return a.getCommand(args)
	case "list", "ls":
		return a.listCommand(args)
	case "update":
		return a.updateCommand(args)
	case "delete", "rm":
		return a.deleteCommand(args)
	case "mark-todo":
		return a.markCommand(args, markTodo)
	case "mark-in-progress":
		return a.markCommand(args, markInProgress)
	case "mark-done":
		return a.markCommand(args, markDone)
	case "greeting":
		return a.greetingCommand(args)
	case "shell":
		if a.inShell {
			return fmt.Errorf("already in the shell")
		}
		return a.shellCommand(ctx, args)
	case "tui":
		return a.tuiCommand(ctx, args)
	case "doctor":
		return a.doctorCommand(args)
	case "config":
		return a.configCommand(args)
	case "version", "--version":
		return a.versionCommand(args)
	case "help", "--help", "-h":
		if a.inShell {
			printShellHelp(a.out)
			return nil
		}
		printUsage(a.flags, a.out)
		return nil
	default:
		if !a.inShell {
			printUsage(a.flags, a.errOut)
		}
		return fmt.Errorf("unknown command: %s", name)
	}
}

// versionCommand prints version information.
func (a *app) versionCommand(args []string) error {
	if len(args) > 0 {
		return errExtraArgs
	}
	fmt.Fprintf(a.out, "task-cli version %s\n", Version)
	return nil
}

func (a *app) greetingCommand(args []string) error {
	if len(args) > 0 {
		return errExtraArgs
	}
	fmt.Fprintln(a.out, "Hello, Welcome to Task Cli!")
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "task-cli - Track tasks in a local JSON file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  task-cli [global options] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	writeCommandList(w)
	fmt.Fprintln(w, "  shell                        Start an interactive session")
	fmt.Fprintln(w, "  tui                          Launch terminal UI")
	fmt.Fprintln(w, "  doctor [-v]                  Validate the task file and show config")
	fmt.Fprintln(w, "  config [-toml]               Print the effective configuration")
	fmt.Fprintln(w, "  version                      Show version information")
	fmt.Fprintln(w, "  help                         Show this help message")
	fmt.Fprintln(w)
	if fs == nil {
		return
	}
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

// writeCommandList prints the task commands shared by the CLI and the shell.
func writeCommandList(w io.Writer) {
	fmt.Fprintln(w, `  add <description>            Add a new task          Example: add "Buy milk"`)
	fmt.Fprintln(w, `  get <id>                     Show a task             Example: get 2`)
	fmt.Fprintln(w, `  list [status]                List tasks              Example: list in-progress`)
	fmt.Fprintln(w, `                               status: all, todo, in-progress, done`)
	fmt.Fprintln(w, `  update <id> <description>    Update a description    Example: update 2 "Buy eggs"`)
	fmt.Fprintln(w, `  delete <id>                  Delete a task           Example: delete 2`)
	fmt.Fprintln(w, `  mark-todo <id>               Mark a task as todo`)
	fmt.Fprintln(w, `  mark-in-progress <id>        Mark a task as in progress`)
	fmt.Fprintln(w, `  mark-done <id>               Mark a task as done`)
	fmt.Fprintln(w, `  greeting                     Print a greeting`)
}

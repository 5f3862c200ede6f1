package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nibzard/task-cli/internal/store"
	"github.com/nibzard/task-cli/internal/ui"
)

// doctorCommand checks the storage directory, config and task file validity.
func (a *app) doctorCommand(args []string) error {
	flags := flag.NewFlagSet("task-cli doctor", flag.ContinueOnError)
	flags.SetOutput(a.errOut)
	verbose := flags.Bool("v", false, "Verbose output")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() > 0 {
		return errExtraArgs
	}

	w := a.out
	fmt.Fprintln(w, "Task CLI Doctor")
	fmt.Fprintln(w, "===============")
	fmt.Fprintln(w)

	allOK := true

	// Config files
	fmt.Fprintln(w, "Config:")
	if len(a.loaded.Files) == 0 {
		fmt.Fprintln(w, "  ✅ No config files (using defaults)")
	}
	for _, path := range a.loaded.Files {
		fmt.Fprintf(w, "  ✅ %s\n", path)
	}
	if *verbose {
		writeSources(w, a.loaded, "  ")
	}
	fmt.Fprintln(w)

	// Storage directory
	dir := a.store.Dir()
	fmt.Fprintf(w, "Storage directory: %s\n", dir)
	if info, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(w, "  ⚠️  Not found (will be created on first write)")
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is not a directory")
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	// Task file
	path := a.store.Path()
	fmt.Fprintf(w, "Task file: %s\n", path)
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		allOK = false
	} else {
		result := store.Validate(path, store.ValidationOptions{SchemaPath: a.cfg.SchemaFile})
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  ⚠️  %s\n", warning)
		}
		if result.Valid {
			fmt.Fprintln(w, "  ✅ Valid")
		} else {
			fmt.Fprintln(w, "  ❌ Validation failed:")
			for _, e := range result.Errors {
				fmt.Fprintf(w, "     - %v\n", e)
			}
			allOK = false
		}
		fmt.Fprintf(w, "  Tasks: %d\n", result.Tasks)
		if *verbose && result.Valid {
			a.writeTaskSummary()
		}
	}
	fmt.Fprintln(w)

	// Schema
	if a.cfg.SchemaFile == "" {
		fmt.Fprintln(w, "Schema: embedded")
	} else {
		fmt.Fprintf(w, "Schema file: %s\n", a.cfg.SchemaFile)
		if _, err := os.Stat(a.cfg.SchemaFile); err != nil {
			fmt.Fprintf(w, "  ⚠️  %v (minimal checks used)\n", err)
		} else {
			fmt.Fprintln(w, "  ✅ OK")
		}
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. Task CLI may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

func (a *app) writeTaskSummary() {
	tasks, err := a.svc.List()
	if err != nil {
		fmt.Fprintf(a.out, "  ❌ Load error: %v\n", err)
		return
	}
	for _, t := range tasks {
		fmt.Fprintf(a.out, "    - [%s] %d: %s\n", t.Status.Label(), t.ID, t.Description)
	}
}

// tuiCommand launches the TUI.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return errExtraArgs
	}
	return ui.RunTUI(ctx, a.svc,
		ui.WithTimeFormat(a.cfg.TimeFormat),
		ui.WithTasksPath(filepath.Clean(a.store.Path())),
	)
}

package cmd

import (
	"flag"
	"fmt"
	"io"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/task-cli/internal/config"
)

// configCommand prints the effective configuration. With -toml it prints
// a task-cli.toml document instead of the source listing.
func (a *app) configCommand(args []string) error {
	fs := flag.NewFlagSet("task-cli config", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	asTOML := fs.Bool("toml", false, "Print as a task-cli.toml document")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return errExtraArgs
	}

	if *asTOML {
		if err := toml.NewEncoder(a.out).Encode(a.cfg); err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		return nil
	}

	fmt.Fprintf(a.out, "Working directory: %s\n", a.cfg.WorkDir)
	fmt.Fprintf(a.out, "Task file: %s\n", a.cfg.TasksPath())
	fmt.Fprintln(a.out)
	writeSources(a.out, a.loaded, "")
	return nil
}

// writeSources lists every config value with the layer it came from.
func writeSources(w io.Writer, loaded *config.ConfigWithSources, indent string) {
	values := configValues(loaded.Config)
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		source := loaded.Sources[key]
		if source == "" {
			source = config.SourceDefault
		}
		fmt.Fprintf(w, "%s%-22s %-40s (%s)\n", indent, key, values[key], source)
	}
}

func configValues(cfg *config.Config) map[string]string {
	schema := cfg.SchemaFile
	if schema == "" {
		schema = "(embedded)"
	}
	return map[string]string{
		"storage_dir":          cfg.StorageDir,
		"schema_file":          schema,
		"tolerate_read_errors": fmt.Sprint(cfg.TolerateReadErrors),
		"time_format":          fmt.Sprintf("%q", cfg.TimeFormat),
		"log_level":            cfg.LogLevel,
		"log_format":           cfg.LogFormat,
		"log_timestamps":       fmt.Sprint(cfg.LogTimestamps),
		"log_caller":           fmt.Sprint(cfg.LogCaller),
	}
}

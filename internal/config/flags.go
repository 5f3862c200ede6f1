package config

import (
	"flag"
	"strings"
)

// flagFields maps CLI flag names to config field names.
var flagFields = map[string]string{
	"dir":                  "storage_dir",
	"schema":               "schema_file",
	"log-level":            "log_level",
	"log-format":           "log_format",
	"log-timestamps":       "log_timestamps",
	"log-caller":           "log_caller",
	"time-format":          "time_format",
	"tolerate-read-errors": "tolerate_read_errors",
}

// RegisterFlags defines the config flags on fs, using the current values of
// cfg as defaults.
func RegisterFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.StorageDir, "dir", cfg.StorageDir, "Storage directory holding tasks.json")
	fs.StringVar(&cfg.SchemaFile, "schema", cfg.SchemaFile, "Path to a JSON schema for doctor (default embedded)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text, json, logfmt")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in log output")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller location in log output")
	fs.StringVar(&cfg.TimeFormat, "time-format", cfg.TimeFormat, "Go time layout used to display timestamps")
	fs.BoolVar(&cfg.TolerateReadErrors, "tolerate-read-errors", cfg.TolerateReadErrors, "Treat an unreadable task file as empty")
}

// parseFlags defines and parses CLI flags. If sources is non-nil, every flag
// set explicitly on the command line is attributed to SourceFlag.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("task-cli", flag.ContinueOnError)
	}
	RegisterFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}

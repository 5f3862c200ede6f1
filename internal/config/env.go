package config

import (
	"os"
	"strings"
)

// Environment variable names.
const (
	EnvStorageDir         = "TASK_CLI_STORAGE_DIR"
	EnvSchema             = "TASK_CLI_SCHEMA"
	EnvLogLevel           = "TASK_CLI_LOG_LEVEL"
	EnvLogFormat          = "TASK_CLI_LOG_FORMAT"
	EnvLogTimestamps      = "TASK_CLI_LOG_TIMESTAMPS"
	EnvLogCaller          = "TASK_CLI_LOG_CALLER"
	EnvTimeFormat         = "TASK_CLI_TIME_FORMAT"
	EnvTolerateReadErrors = "TASK_CLI_TOLERATE_READ_ERRORS"
)

// loadFromEnv overrides config from environment variables.
// Empty variables are ignored. If sources is non-nil, it tracks the source
// of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv(EnvStorageDir); v != "" {
		cfg.StorageDir = v
		set("storage_dir")
	}
	if v := os.Getenv(EnvSchema); v != "" {
		cfg.SchemaFile = v
		set("schema_file")
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
		set("log_level")
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = strings.ToLower(v)
		set("log_format")
	}
	if v := os.Getenv(EnvLogTimestamps); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		set("log_timestamps")
	}
	if v := os.Getenv(EnvLogCaller); v != "" {
		cfg.LogCaller = boolFromString(v)
		set("log_caller")
	}
	if v := os.Getenv(EnvTimeFormat); v != "" {
		cfg.TimeFormat = v
		set("time_format")
	}
	if v := os.Getenv(EnvTolerateReadErrors); v != "" {
		cfg.TolerateReadErrors = boolFromString(v)
		set("tolerate_read_errors")
	}
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

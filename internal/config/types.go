package config

import (
	"os"

	"github.com/nibzard/task-cli/internal/taskdir"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultStorageDir = "~/" + taskdir.Dir
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "text"
	DefaultTimeFormat = "01/02/2006 03:04:05 PM"
)

// Config holds the full configuration for task-cli.
type Config struct {
	// Paths
	StorageDir string `toml:"storage_dir"`
	SchemaFile string `toml:"schema_file"` // empty uses the embedded schema

	// Storage behavior
	TolerateReadErrors bool `toml:"tolerate_read_errors"`

	// Output
	TimeFormat string `toml:"time_format"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Working directory (computed)
	WorkDir string `toml:"-"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"storage_dir",
		"schema_file",
		"tolerate_read_errors",
		"time_format",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.StorageDir = DefaultStorageDir
	cfg.SchemaFile = ""
	cfg.TolerateReadErrors = false
	cfg.TimeFormat = DefaultTimeFormat
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
	cfg.LogCaller = false
}

// Default returns a config with default values and the current working directory.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	if wd, err := os.Getwd(); err == nil {
		cfg.WorkDir = wd
	}
	return cfg
}

// TasksPath returns the path of the task file inside the storage directory.
func (c *Config) TasksPath() string {
	return taskdir.TasksPath(c.StorageDir)
}

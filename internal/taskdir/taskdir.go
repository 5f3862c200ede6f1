// Package taskdir provides constants and utilities for the task-cli storage directory.
package taskdir

import "path/filepath"

const (
	// Dir is the name of the default storage directory under the user's home.
	Dir = ".task-cli"

	// TasksFile is the name of the task collection file inside the storage directory.
	TasksFile = "tasks.json"

	// ConfigFile is the config file name, both in the storage directory and
	// in a project directory.
	ConfigFile = "task-cli.toml"

	// HiddenConfigFile is the alternative project-level config file name.
	HiddenConfigFile = ".task-cli.toml"

	// AppName is used for OS config directories and log prefixes.
	AppName = "task-cli"
)

// TasksPath returns the full path to the task file within a storage directory.
func TasksPath(storageDir string) string {
	return joinPath(storageDir, TasksFile)
}

// ConfigPath returns the full path to the config file within a storage directory.
func ConfigPath(storageDir string) string {
	return joinPath(storageDir, ConfigFile)
}

// DefaultDir returns the default storage directory for a home directory.
func DefaultDir(home string) string {
	if home == "" {
		return Dir
	}
	return filepath.Join(home, Dir)
}

func joinPath(dir, file string) string {
	if dir == "" || dir == "." {
		return file
	}
	return filepath.Join(dir, file)
}

package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// isolate points HOME and the config directories at a temp dir, clears
// task-cli environment variables and changes into a fresh working directory.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home = t.TempDir()
	work = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, name := range []string{
		EnvStorageDir, EnvSchema, EnvLogLevel, EnvLogFormat,
		EnvLogTimestamps, EnvLogCaller, EnvTimeFormat, EnvTolerateReadErrors,
	} {
		t.Setenv(name, "")
	}
	chdir(t, work)
	return home, work
}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("task-cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.StorageDir != DefaultStorageDir {
		t.Errorf("StorageDir: got %q, want %q", cfg.StorageDir, DefaultStorageDir)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel: got %q, want warn", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat: got %q, want text", cfg.LogFormat)
	}
	if cfg.TimeFormat != DefaultTimeFormat {
		t.Errorf("TimeFormat: got %q, want %q", cfg.TimeFormat, DefaultTimeFormat)
	}
	if cfg.TolerateReadErrors {
		t.Error("TolerateReadErrors: got true, want false")
	}
}

func TestLoadDefaults(t *testing.T) {
	home, _ := isolate(t)

	loaded, err := LoadWithSources(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("LoadWithSources() error = %v", err)
	}
	cfg := loaded.Config
	if want := filepath.Join(home, ".task-cli"); cfg.StorageDir != want {
		t.Errorf("StorageDir: got %q, want %q", cfg.StorageDir, want)
	}
	if want := filepath.Join(home, ".task-cli", "tasks.json"); cfg.TasksPath() != want {
		t.Errorf("TasksPath: got %q, want %q", cfg.TasksPath(), want)
	}
	if cfg.WorkDir == "" {
		t.Error("WorkDir should be set")
	}
	for _, field := range configFields() {
		if loaded.Sources[field] != SourceDefault {
			t.Errorf("source of %s: got %q, want default", field, loaded.Sources[field])
		}
	}
	if len(loaded.Files) != 0 {
		t.Errorf("Files: got %v, want none", loaded.Files)
	}
}

func TestLoadLayering(t *testing.T) {
	home, work := isolate(t)

	writeFile(t, filepath.Join(home, ".task-cli", "task-cli.toml"), `
storage_dir = "~/user-tasks"
log_level = "info"
time_format = "2006-01-02"
`)
	writeFile(t, filepath.Join(work, "task-cli.toml"), `
log_level = "debug"
log_format = "json"
`)
	t.Setenv(EnvLogFormat, "LOGFMT")
	t.Setenv(EnvTolerateReadErrors, "yes")

	fs := newFlagSet()
	loaded, err := LoadWithSources(fs, []string{"-time-format", "15:04", "list", "done"})
	if err != nil {
		t.Fatalf("LoadWithSources() error = %v", err)
	}
	cfg := loaded.Config

	tests := []struct {
		field  string
		got    any
		want   any
		source ConfigSource
	}{
		{"storage_dir", cfg.StorageDir, filepath.Join(home, "user-tasks"), SourceUserFile},
		{"log_level", cfg.LogLevel, "debug", SourceProjFile},
		{"log_format", cfg.LogFormat, "logfmt", SourceEnv},
		{"tolerate_read_errors", cfg.TolerateReadErrors, true, SourceEnv},
		{"time_format", cfg.TimeFormat, "15:04", SourceFlag},
		{"log_caller", cfg.LogCaller, false, SourceDefault},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("value: got %v, want %v", tt.got, tt.want)
			}
			if loaded.Sources[tt.field] != tt.source {
				t.Errorf("source: got %q, want %q", loaded.Sources[tt.field], tt.source)
			}
		})
	}

	if len(loaded.Files) != 2 {
		t.Errorf("Files: got %v, want user and project files", loaded.Files)
	}
	if args := fs.Args(); len(args) != 2 || args[0] != "list" || args[1] != "done" {
		t.Errorf("remaining args: got %v, want [list done]", args)
	}
}

func TestLoadHiddenProjectFile(t *testing.T) {
	_, work := isolate(t)
	writeFile(t, filepath.Join(work, ".task-cli.toml"), `storage_dir = "data"`)

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := filepath.Join(cfg.WorkDir, "data"); cfg.StorageDir != want {
		t.Errorf("StorageDir: got %q, want %q", cfg.StorageDir, want)
	}
}

func TestLoadOSConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG lookup only applies on linux/bsd")
	}
	home, _ := isolate(t)
	writeFile(t, filepath.Join(home, ".config", "task-cli", "task-cli.toml"), `log_caller = true`)

	loaded, err := LoadWithSources(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("LoadWithSources() error = %v", err)
	}
	if !loaded.Config.LogCaller {
		t.Error("LogCaller: got false, want true")
	}
	if loaded.Sources["log_caller"] != SourceUserFile {
		t.Errorf("source: got %q, want user file", loaded.Sources["log_caller"])
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		project string
		args    []string
	}{
		{"bad toml", `storage_dir = `, nil},
		{"unknown key", `todo_file = "x"`, nil},
		{"bad log format", "", []string{"-log-format", "xml"}},
		{"bad log level", `log_level = "loud"`, nil},
		{"unknown flag", "", []string{"-nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, work := isolate(t)
			if tt.project != "" {
				writeFile(t, filepath.Join(work, "task-cli.toml"), tt.project)
			}
			if _, err := Load(newFlagSet(), tt.args); err == nil {
				t.Error("Load() error = nil, want error")
			}
		})
	}
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	isolate(t)
	t.Setenv(EnvStorageDir, "/from/env")

	dir := t.TempDir()
	cfg, err := Load(newFlagSet(), []string{"-dir", dir, "-log-level", "ERROR"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.StorageDir != dir {
		t.Errorf("StorageDir: got %q, want %q", cfg.StorageDir, dir)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel: got %q, want error", cfg.LogLevel)
	}
}

func TestBoolFromString(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{" on ", true},
		{"0", false},
		{"false", false},
		{"off", false},
		{"maybe", false},
	}
	for _, tt := range tests {
		if got := boolFromString(tt.in); got != tt.want {
			t.Errorf("boolFromString(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("TASK_CLI_TEST_DIR", "custom")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/tasks", filepath.Join(home, "tasks")},
		{"$TASK_CLI_TEST_DIR/tasks", "custom/tasks"},
		{"/abs/path", "/abs/path"},
		{"~user/tasks", "~user/tasks"},
	}
	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/nibzard/task-cli/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"", log.WarnLevel},
		{"loud", log.WarnLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormatter(t *testing.T) {
	tests := []struct {
		in   string
		want log.Formatter
	}{
		{"text", log.TextFormatter},
		{"json", log.JSONFormatter},
		{"LOGFMT", log.LogfmtFormatter},
		{"xml", log.TextFormatter},
	}
	for _, tt := range tests {
		if got := ParseFormatter(tt.in); got != tt.want {
			t.Errorf("ParseFormatter(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOptionsFromConfig(t *testing.T) {
	if got := OptionsFromConfig(nil); got != DefaultOptions() {
		t.Errorf("OptionsFromConfig(nil): got %+v, want defaults", got)
	}

	cfg := config.Default()
	cfg.LogLevel = "debug"
	cfg.LogFormat = "json"
	cfg.LogCaller = true
	opts := OptionsFromConfig(cfg)
	if opts.Level != log.DebugLevel {
		t.Errorf("Level: got %v, want debug", opts.Level)
	}
	if opts.Formatter != log.JSONFormatter {
		t.Errorf("Formatter: got %v, want json", opts.Formatter)
	}
	if !opts.ReportCaller {
		t.Error("ReportCaller: got false, want true")
	}
	if opts.Prefix != "task-cli" {
		t.Errorf("Prefix: got %q, want task-cli", opts.Prefix)
	}
}

func TestFromConfigWrites(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "info"
	cfg.LogFormat = "logfmt"

	var buf bytes.Buffer
	logger := FromConfig(&buf, cfg)
	logger.Debug("hidden")
	logger.Info("saved tasks", "count", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message written at info level: %q", out)
	}
	for _, want := range []string{"saved tasks", "count=2", "task-cli"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing")
}

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mmcdole/anikino/internal/config"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in      string
		want    slog.Level
		enabled bool
	}{
		"debug":      {in: "DEBUG", want: slog.LevelDebug, enabled: true},
		"lowercase":  {in: " debug ", want: slog.LevelDebug, enabled: true},
		"warning":    {in: "warning", want: slog.LevelWarn, enabled: true},
		"short warn": {in: "WARN", want: slog.LevelWarn, enabled: true},
		"error":      {in: "ERROR", want: slog.LevelError, enabled: true},
		"empty":      {in: "", want: slog.LevelInfo, enabled: true},
		"unknown":    {in: "chatty", want: slog.LevelInfo, enabled: true},
		"off":        {in: "off", enabled: false},
		"none":       {in: "NONE", enabled: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, enabled := parseLevel(tt.in)
			if enabled != tt.enabled || (enabled && got != tt.want) {
				t.Errorf("parseLevel(%q) = %v, %t, want %v, %t", tt.in, got, enabled, tt.want, tt.enabled)
			}
		})
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "WARN")

	logger.Info("listing loaded", "site", "trending")
	logger.Warn("fetch failed", "site", "trending", "error", "network error: 500")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "fetch failed" || entry["site"] != "trending" {
		t.Errorf("entry = %v", entry)
	}
}

func TestOpenTagsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "share", "anikino.log")

	logger, closeLog, err := Open(config.LoggingConfig{File: path, Level: "DEBUG"}, "1.2.0")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	logger.Debug("fetch issued", "site", "popular")
	if err := closeLog(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	for k, want := range map[string]any{"msg": "fetch issued", "app": "anikino", "version": "1.2.0", "site": "popular"} {
		if entry[k] != want {
			t.Errorf("entry[%q] = %v, want %v", k, entry[k], want)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		t.Errorf("log file mode = %v, want private", perm)
	}
}

func TestOpenDisabled(t *testing.T) {
	dir := t.TempDir()

	tests := map[string]config.LoggingConfig{
		"level off":  {File: filepath.Join(dir, "off.log"), Level: "off"},
		"empty file": {Level: "DEBUG"},
	}
	for name, cfg := range tests {
		t.Run(name, func(t *testing.T) {
			logger, closeLog, err := Open(cfg, "dev")
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			logger.Error("dropped")
			if err := closeLog(); err != nil {
				t.Errorf("close: %v", err)
			}
			if cfg.File != "" {
				if _, err := os.Stat(cfg.File); !os.IsNotExist(err) {
					t.Errorf("log file created while disabled: %v", err)
				}
			}
		})
	}
}

func TestRotate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anikino.log")
	if err := os.WriteFile(path, []byte("0123456789"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := rotate(path, 100); err != nil {
		t.Fatalf("rotate under limit: %v", err)
	}
	if _, err := os.Stat(path + ".1"); !os.IsNotExist(err) {
		t.Error("rotated a file under the limit")
	}

	if err := rotate(path, 10); err != nil {
		t.Fatalf("rotate at limit: %v", err)
	}
	if data, err := os.ReadFile(path + ".1"); err != nil || string(data) != "0123456789" {
		t.Errorf("backup = %q, %v", data, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("current log still present after rotation")
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("ANIKINO_LOG_DIR", "/var/tmp/anikino")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := map[string]string{
		"$ANIKINO_LOG_DIR/a.log": "/var/tmp/anikino/a.log",
		"~/logs/a.log":           filepath.Join(home, "logs", "a.log"),
		"/abs/a.log":             "/abs/a.log",
	}
	for in, want := range tests {
		got, err := expandPath(in)
		if err != nil || got != want {
			t.Errorf("expandPath(%q) = %q, %v, want %q", in, got, err, want)
		}
	}
}

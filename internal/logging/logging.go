// Package logging sets up anikino's structured log. The TUI owns the
// terminal, so records go to a JSON file and never to stdout.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmcdole/anikino/internal/config"
)

// MaxFileSize is the size at which Open moves the log aside to <file>.1
const MaxFileSize = 5 << 20

// LevelOff disables logging when used as the configured level
const LevelOff = "OFF"

// Open creates the log file named by cfg and returns a logger tagged with
// the running version. The returned close func releases the file.
func Open(cfg config.LoggingConfig, version string) (*slog.Logger, func() error, error) {
	level, enabled := parseLevel(cfg.Level)
	if !enabled || cfg.File == "" {
		return Discard(), noop, nil
	}

	path, err := expandPath(cfg.File)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := rotate(path, MaxFileSize); err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := newLogger(f, level).With(
		slog.String("app", "anikino"),
		slog.String("version", version),
		slog.Int("pid", os.Getpid()),
	)
	return logger, f.Close, nil
}

// New returns a JSON logger writing to w at the named level
func New(w io.Writer, level string) *slog.Logger {
	l, enabled := parseLevel(level)
	if !enabled {
		return Discard()
	}
	return newLogger(w, l)
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops every record
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func noop() error { return nil }

// parseLevel maps a config level to slog; unknown names log at info
func parseLevel(level string) (slog.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug, true
	case "WARN", "WARNING":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	case LevelOff, "NONE":
		return 0, false
	default:
		return slog.LevelInfo, true
	}
}

// expandPath resolves a leading ~ and $VARS in a configured path
func expandPath(path string) (string, error) {
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	return path, nil
}

// rotate keeps one previous log once the current one reaches limit
func rotate(path string, limit int64) error {
	info, err := os.Stat(path)
	if err != nil || info.Size() < limit {
		return nil
	}
	if err := os.Rename(path, path+".1"); err != nil {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}
	return nil
}

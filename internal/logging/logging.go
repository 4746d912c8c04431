// Package logging builds the charmbracelet/log loggers used across liftoff.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// ParseLevel converts a config level to a log.Level. Unknown values fall
// back to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// NewText returns a human-readable logger writing to w. Subcommands log to
// stderr this way so stdout stays clean for tables.
func NewText(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           ParseLevel(level),
		Prefix:          "liftoff",
	})
}

// File is a JSON logger backed by an append-only file.
type File struct {
	*log.Logger
	file *os.File
	path string
}

// OpenFile opens (or creates) path and returns a JSON logger writing to it.
// The TUI owns the terminal, so its logs only go here.
func OpenFile(path, level string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339Nano,
		Level:           ParseLevel(level),
	})
	logger.SetFormatter(log.JSONFormatter)
	logger = logger.With("pid", os.Getpid())
	return &File{Logger: logger, file: f, path: path}, nil
}

// Path returns the log file location.
func (f *File) Path() string {
	return f.path
}

// Close releases the log file.
func (f *File) Close() error {
	if f == nil || f.file == nil {
		return nil
	}
	return f.file.Close()
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// Package logger configures structured logging for the bodyfile tools.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ParseLevel maps "debug", "info", "warn" and "error" to a slog level.
// Unknown values fall back to info.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a text logger writing to w
func New(levelStr string, w io.Writer) *slog.Logger {
	level := ParseLevel(levelStr)
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Setup creates the process logger and installs it as the slog default.
// Logs go to stderr and, when logPath is set, are also appended to that file.
// The returned close function releases the log file.
func Setup(levelStr string, logPath string) (*slog.Logger, func() error, error) {
	var writer io.Writer = os.Stderr
	closeFn := func() error { return nil }

	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
			return nil, nil, err
		}

		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}

		writer = io.MultiWriter(os.Stderr, file)
		closeFn = file.Close
	}

	logger := New(levelStr, writer)
	slog.SetDefault(logger)

	return logger, closeFn, nil
}

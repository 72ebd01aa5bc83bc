package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	testCases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for in, want := range testCases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New("warn", &buf)

	logger.Info("hidden")
	logger.Warn("shown", "line", 3)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "line=3")
}

func TestSetup_WithFile(t *testing.T) {
	previous := slog.Default()
	defer slog.SetDefault(previous)

	logPath := filepath.Join(t.TempDir(), "logs", "bodyfile.log")

	logger, closeFn, err := Setup("info", logPath)
	require.NoError(t, err)
	require.NotNil(t, logger)

	slog.Info("written through default", "records", 2)
	require.NoError(t, closeFn())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written through default")
	assert.Contains(t, string(data), "records=2")
}

func TestSetup_WithoutFile(t *testing.T) {
	previous := slog.Default()
	defer slog.SetDefault(previous)

	logger, closeFn, err := Setup("error", "")
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.NoError(t, closeFn())
}

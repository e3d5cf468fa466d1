package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/herlein/gohc12/pkg/settings"
)

func TestConsoleLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(settings.LoggingSettings{Level: "warn"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", zap.Int("channel", 21))
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "channel")
}

func TestUnknownLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(settings.LoggingSettings{Level: "chatty"}, &buf)
	require.NoError(t, err)

	logger.Debug("debug")
	logger.Info("info")
	require.NoError(t, logger.Sync())
	assert.NotContains(t, buf.String(), "debug")
	assert.Contains(t, buf.String(), "info")
}

func TestJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hc12.log")
	var console bytes.Buffer
	logger, err := newLogger(settings.LoggingSettings{
		Level:  "debug",
		Format: "json",
		File:   settings.LumberjackSettings{Filename: path, MaxSizeMB: 1},
	}, &console)
	require.NoError(t, err)

	logger.Debug("command sent", zap.String("command", "ping"))
	require.NoError(t, logger.Sync())

	assert.Empty(t, console.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "command sent", entry["msg"])
	assert.Equal(t, "ping", entry["command"])
}

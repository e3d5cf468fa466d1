package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/herlein/gohc12/pkg/driver"
	"github.com/herlein/gohc12/pkg/settings"
)

func TestCloseWritesMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hc12.prom")
	reg := prometheus.NewRegistry()
	m := driver.NewMetrics(reg)
	m.Commands.WithLabelValues("ping", "ok").Inc()

	s := &Session{
		Settings: &settings.Settings{Metrics: settings.MetricsSettings{Textfile: path}},
		Log:      zaptest.NewLogger(t),
		Registry: reg,
	}
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `hc12_commands_total{command="ping",result="ok"} 1`)
}

func TestCloseWithoutTextfile(t *testing.T) {
	s := &Session{
		Settings: &settings.Settings{},
		Registry: prometheus.NewRegistry(),
	}
	assert.NoError(t, s.Close())
}

func TestOpenBadSettings(t *testing.T) {
	_, err := Open(Options{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestOpenPortFailure(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "hc12.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("logging:\n  file:\n    filename: "+filepath.Join(dir, "hc12.log")+"\n"), 0644))

	_, err := Open(Options{ConfigPath: cfg, Port: filepath.Join(dir, "no-such-tty")})
	assert.Error(t, err)
}

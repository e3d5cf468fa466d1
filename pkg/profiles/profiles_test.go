package profiles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herlein/gohc12/pkg/config"
	"github.com/herlein/gohc12/pkg/hc12"
)

func TestBuiltinsValid(t *testing.T) {
	for _, p := range Builtins() {
		t.Run(p.Name, func(t *testing.T) {
			require.NoError(t, p.Validate())
		})
	}
}

func TestList(t *testing.T) {
	assert.Equal(t, []string{
		"fu1-power-saving",
		"fu2-low-power",
		"fu3-default",
		"fu3-fast",
		"fu3-long-range",
	}, List())
}

func TestGet(t *testing.T) {
	p, err := Get(NameFU3Fast)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Mode)
	assert.Equal(t, 115200, p.BaudRate)

	_, err = Get("nope")
	assert.Error(t, err)
}

func TestBuiltinsDerived(t *testing.T) {
	tests := []struct {
		name        string
		air         int
		sensitivity int
	}{
		{NameFU3Default, 15000, -117},
		{NameFU3Fast, 236000, -100},
		{NameFU3LongRange, 5000, -117},
		{NameFU1PowerSaving, 250000, -100},
		{NameFU2LowPower, 250000, -100},
	}
	for _, tt := range tests {
		p, err := Get(tt.name)
		require.NoError(t, err)
		c, err := p.Config()
		require.NoError(t, err)
		assert.Equal(t, tt.air, c.AirBaudRate, tt.name)
		assert.Equal(t, tt.sensitivity, c.SensitivityDBm, tt.name)
	}
}

func TestDefaultMatchesFactoryState(t *testing.T) {
	c, err := NewFU3Default().Config()
	require.NoError(t, err)
	s, err := c.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, hc12.DefaultParameters().Snapshot(), s)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		target  error
	}{
		{"fu2 fast", Profile{Name: "x", Mode: 2, BaudRate: 9600, Channel: 1, Power: 8}, hc12.ErrInvalidBaudRate},
		{"fu4", Profile{Name: "x", Mode: 4, BaudRate: 9600, Channel: 1, Power: 8}, hc12.ErrUnspecifiedMode},
		{"channel", Profile{Name: "x", Mode: 3, BaudRate: 9600, Channel: 128, Power: 8}, hc12.ErrInvalidChannel},
		{"power", Profile{Name: "x", Mode: 3, BaudRate: 9600, Channel: 1, Power: 0}, hc12.ErrInvalidPower},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.profile.Validate(), tt.target)
		})
	}

	noName := Profile{Mode: 3, BaudRate: 9600, Channel: 1, Power: 8}
	assert.Error(t, noName.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`profiles:
  - name: field-link
    description: base station link
    mode: 3
    baud_rate: 4800
    channel: 21
    power: 6
`), 0644))

	list, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, list, 1)

	p, err := Find(append(Builtins(), list...), "field-link")
	require.NoError(t, err)
	assert.Equal(t, 21, p.Channel)
	assert.Equal(t, "base station link", p.Description)
}

func TestLoadFileInvalid(t *testing.T) {
	dir := t.TempDir()

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("profiles:\n  - name: slow\n    mode: 2\n    baud_rate: 19200\n    channel: 1\n    power: 8\n"), 0644))
	_, err := LoadFile(invalid)
	assert.ErrorIs(t, err, hc12.ErrInvalidBaudRate)

	dup := filepath.Join(dir, "dup.yaml")
	entry := "  - {name: a, mode: 3, baud_rate: 9600, channel: 1, power: 8}\n"
	require.NoError(t, os.WriteFile(dup, []byte("profiles:\n"+entry+entry), 0644))
	_, err = LoadFile(dup)
	assert.ErrorContains(t, err, "duplicate")

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("profiles:\n"+entry+"  -\n"), 0644))
	_, err = LoadFile(empty)
	assert.ErrorContains(t, err, "profile 2 is empty")

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Generate(dir))

	for _, name := range List() {
		c, err := config.LoadFromFile(filepath.Join(dir, name+".json"))
		require.NoError(t, err, name)

		p, err := Get(name)
		require.NoError(t, err)
		want, err := p.Config()
		require.NoError(t, err)
		assert.Empty(t, config.Verify(want, c), name)
	}
}

package hc12

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParameters(t *testing.T) {
	p := DefaultParameters()
	assert.Equal(t, ModeFU3, p.Mode())
	assert.Equal(t, Bps9600, p.BaudRate())
	assert.Equal(t, DefaultChannel, p.Channel().Code())
	assert.Equal(t, DefaultPower, p.Power().Code())
	assert.Equal(t, AirBps15000, p.AirBaudRate())
	assert.Equal(t, int32(-117), p.SensitivityDBm())
}

func TestFu1AcceptsAllRatesWithFixedAirRate(t *testing.T) {
	p := NewParameters[Fu1]()
	for _, rate := range BaudRates() {
		require.NoError(t, p.SetBaudRate(rate))
		assert.Equal(t, rate, p.BaudRate())
		assert.Equal(t, AirBps250000, p.AirBaudRate())
	}
}

func TestFu2BaudRates(t *testing.T) {
	allowed := map[BaudRate]bool{Bps1200: true, Bps2400: true, Bps4800: true}

	p := NewParameters[Fu2]()
	require.NoError(t, p.SetBaudRate(Bps2400))

	for _, rate := range BaudRates() {
		before := p.BaudRate()
		err := p.SetBaudRate(rate)
		if allowed[rate] {
			require.NoError(t, err, "rate %s", rate)
			assert.Equal(t, rate, p.BaudRate())
		} else {
			assert.ErrorIs(t, err, ErrInvalidBaudRate, "rate %s", rate)
			assert.Equal(t, before, p.BaudRate(), "baud rate changed after rejecting %s", rate)
		}
		assert.Equal(t, AirBps250000, p.AirBaudRate())
	}
}

func TestFu3AirBaudRateTable(t *testing.T) {
	tests := []struct {
		rate BaudRate
		air  AirBaudRate
	}{
		{Bps1200, AirBps5000},
		{Bps2400, AirBps5000},
		{Bps4800, AirBps15000},
		{Bps9600, AirBps15000},
		{Bps19200, AirBps58000},
		{Bps38400, AirBps58000},
		{Bps57600, AirBps236000},
		{Bps115200, AirBps236000},
	}

	p := NewParameters[Fu3]()
	for _, tt := range tests {
		require.NoError(t, p.SetBaudRate(tt.rate))
		assert.Equal(t, tt.air, p.AirBaudRate(), "rate %s", tt.rate)
	}
}

func TestParametersRejectUnknownBaudRate(t *testing.T) {
	p := NewParameters[Fu3]()
	assert.ErrorIs(t, p.SetBaudRate(BaudRate(14400)), ErrInvalidBaudRate)
	assert.Equal(t, Bps9600, p.BaudRate())
}

func TestZeroValueParametersUseModeDefault(t *testing.T) {
	var p Parameters[Fu2]
	assert.Equal(t, Bps4800, p.BaudRate())
	assert.Equal(t, ModeFU2, p.Mode())
}

func TestParametersSetChannelAndPower(t *testing.T) {
	p := NewParameters[Fu1]()
	require.NoError(t, p.SetChannel(21))
	assert.ErrorIs(t, p.SetChannel(0), ErrInvalidChannel)
	assert.Equal(t, uint8(21), p.Channel().Code())

	require.NoError(t, p.SetPower(4))
	assert.ErrorIs(t, p.SetPower(9), ErrInvalidPower)
	assert.Equal(t, uint8(4), p.Power().Code())
}

func TestParametersSetCommands(t *testing.T) {
	p := NewParameters[Fu3]()
	require.NoError(t, p.SetBaudRate(Bps19200))
	require.NoError(t, p.SetChannel(5))
	require.NoError(t, p.SetPower(6))

	var rendered []string
	for _, cmd := range p.SetCommands() {
		rendered = append(rendered, string(Render(cmd)))
	}
	assert.Equal(t, []string{"AT+FU3\r\n", "AT+B19200\r\n", "AT+C005\r\n", "AT+P6\r\n"}, rendered)
}

func TestSnapshot(t *testing.T) {
	p := NewParameters[Fu2]()
	require.NoError(t, p.SetChannel(7))
	snap := p.Snapshot()
	assert.Equal(t, ModeFU2, snap.Mode)
	assert.Equal(t, Bps4800, snap.BaudRate)
	require.NoError(t, snap.Validate())

	air, err := snap.AirBaudRate()
	require.NoError(t, err)
	assert.Equal(t, AirBps250000, air)

	snap.BaudRate = Bps9600
	_, err = snap.SetCommands()
	assert.ErrorIs(t, err, ErrInvalidBaudRate)
}

func TestRuntimeModeDispatch(t *testing.T) {
	assert.NoError(t, ValidateBaudRate(ModeFU1, Bps115200))
	assert.ErrorIs(t, ValidateBaudRate(ModeFU2, Bps9600), ErrInvalidBaudRate)
	assert.ErrorIs(t, ValidateBaudRate(ModeFU4, Bps9600), ErrUnspecifiedMode)
	assert.ErrorIs(t, ValidateBaudRate(Mode(7), Bps9600), ErrUnspecifiedMode)

	air, err := DeriveAirBaudRate(ModeFU3, Bps57600)
	require.NoError(t, err)
	assert.Equal(t, AirBps236000, air)

	_, err = DeriveAirBaudRate(ModeFU4, Bps9600)
	assert.ErrorIs(t, err, ErrUnspecifiedMode)
}

func TestSensitivityDBm(t *testing.T) {
	assert.Equal(t, int32(-117), SensitivityDBm(AirBps5000))
	assert.Equal(t, int32(-117), SensitivityDBm(AirBps15000))
	assert.Equal(t, int32(-112), SensitivityDBm(AirBps58000))
	assert.Equal(t, int32(-100), SensitivityDBm(AirBps236000))
	assert.Equal(t, int32(-100), SensitivityDBm(AirBps250000))
}

func TestParseBaudRate(t *testing.T) {
	r, err := ParseBaudRate(38400)
	require.NoError(t, err)
	assert.Equal(t, Bps38400, r)

	for _, bps := range []int{0, -9600, 300, 14400, 1<<32 + 9600, 1<<32 + 115200} {
		_, err := ParseBaudRate(bps)
		assert.ErrorIs(t, err, ErrInvalidBaudRate, "bps %d", bps)
	}
}

package hc12

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaudRateSetCommand(t *testing.T) {
	tests := []struct {
		rate BaudRate
		want string
	}{
		{Bps1200, "AT+B1200\r\n"},
		{Bps9600, "AT+B9600\r\n"},
		{Bps115200, "AT+B115200\r\n"},
	}

	for _, tt := range tests {
		var buf CommandBuffer
		n := tt.rate.RenderSetCommand(&buf)
		assert.Equal(t, tt.want, string(buf[:n]))
		assert.Equal(t, len(tt.want), n)
	}
}

func TestChannelSetCommand(t *testing.T) {
	var buf CommandBuffer
	for code := 1; code < 128; code++ {
		ch, err := NewChannel(uint8(code))
		require.NoError(t, err)

		n := ch.RenderSetCommand(&buf)
		assert.Equal(t, fmt.Sprintf("AT+C%03d\r\n", code), string(buf[:n]))
		assert.Equal(t, 9, n)
	}
}

func TestModeSetCommand(t *testing.T) {
	var buf CommandBuffer
	for _, mode := range []Mode{ModeFU1, ModeFU2, ModeFU3, ModeFU4} {
		n := mode.RenderSetCommand(&buf)
		assert.Equal(t, fmt.Sprintf("AT+FU%d\r\n", mode), string(buf[:n]))
		assert.Equal(t, 8, n)
	}
}

func TestModeTagSetCommand(t *testing.T) {
	var buf CommandBuffer
	n := Fu1{}.Mode().RenderSetCommand(&buf)
	assert.Equal(t, "AT+FU1\r\n", string(buf[:n]))
}

func TestPowerSetCommand(t *testing.T) {
	var buf CommandBuffer
	var max TransmissionPower
	n := max.RenderSetCommand(&buf)
	assert.Equal(t, "AT+P8\r\n", string(buf[:n]))
	assert.Equal(t, 7, n)

	low, err := NewTransmissionPower(1)
	require.NoError(t, err)
	n = low.RenderSetCommand(&buf)
	assert.Equal(t, "AT+P1\r\n", string(buf[:n]))
}

func TestSetCommandOverwritesFromStart(t *testing.T) {
	var buf CommandBuffer
	Bps115200.RenderSetCommand(&buf)

	n := ModeFU2.RenderSetCommand(&buf)
	assert.Equal(t, "AT+FU2\r\n", string(buf[:n]))
}

func TestSetCommandLongestLegal(t *testing.T) {
	longest := 0
	for _, rate := range BaudRates() {
		longest = max(longest, len(Render(rate)))
	}
	assert.Equal(t, MaxSetCommandLength, longest)
	assert.Equal(t, "AT+B115200\r\n", string(Render(Bps115200)))
	assert.LessOrEqual(t, MaxSetCommandLength, CommandBufferSize)
}

func TestValidateSetCommand(t *testing.T) {
	ch, err := NewChannel(5)
	require.NoError(t, err)

	for _, cmd := range []SetCommand{Bps1200, Bps115200, ModeFU1, ModeFU4, ch, TransmissionPower{}} {
		assert.NoError(t, ValidateSetCommand(cmd), "%q", Render(cmd))
	}

	tests := []struct {
		cmd  SetCommand
		want error
	}{
		{BaudRate(7), ErrInvalidBaudRate},
		{BaudRate(0), ErrInvalidBaudRate},
		{BaudRate(4294967295), ErrInvalidBaudRate},
		{Mode(0), ErrInvalidMode},
		{Mode(5), ErrInvalidMode},
		{Mode(200), ErrInvalidMode},
	}
	for _, tt := range tests {
		assert.ErrorIs(t, ValidateSetCommand(tt.cmd), tt.want, "%v", tt.cmd)
	}
}

func TestSetCommandIdempotent(t *testing.T) {
	p := DefaultParameters()
	first := Render(p.Channel())

	require.NoError(t, p.SetChannel(p.Channel().Code()))
	require.NoError(t, p.SetBaudRate(p.BaudRate()))
	assert.Equal(t, first, Render(p.Channel()))
	assert.Equal(t, []byte("AT+B9600\r\n"), Render(p.BaudRate()))
}

func TestSetCommandDoesNotAllocate(t *testing.T) {
	var buf CommandBuffer
	ch, err := NewChannel(42)
	require.NoError(t, err)
	power, err := NewTransmissionPower(3)
	require.NoError(t, err)

	allocs := testing.AllocsPerRun(100, func() {
		Bps115200.RenderSetCommand(&buf)
		ch.RenderSetCommand(&buf)
		ModeFU3.RenderSetCommand(&buf)
		power.RenderSetCommand(&buf)
	})
	assert.Zero(t, allocs)
}

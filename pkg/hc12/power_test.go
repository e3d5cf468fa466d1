package hc12

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransmissionPowerDefault(t *testing.T) {
	var zero TransmissionPower
	assert.Equal(t, DefaultPower, zero.Code())
	assert.Equal(t, int8(20), zero.DBm())
	assert.Equal(t, float32(100.0), zero.Milliwatt())
}

func TestTransmissionPowerTable(t *testing.T) {
	tests := []struct {
		code uint8
		dbm  int8
		mw   float32
	}{
		{1, -1, 0.79},
		{2, 2, 1.58},
		{3, 5, 3.16},
		{4, 8, 6.31},
		{5, 11, 12.59},
		{6, 14, 25.12},
		{7, 17, 50.12},
		{8, 20, 100.0},
	}

	for _, tt := range tests {
		p, err := NewTransmissionPower(tt.code)
		require.NoError(t, err)
		assert.Equal(t, tt.code, p.Code())
		assert.Equal(t, tt.dbm, p.DBm(), "code %d", tt.code)
		assert.Equal(t, tt.mw, p.Milliwatt(), "code %d", tt.code)

		back, err := PowerFromDBm(tt.dbm)
		require.NoError(t, err)
		assert.Equal(t, p, back)
	}
}

func TestTransmissionPowerOutOfRange(t *testing.T) {
	for _, code := range []uint8{0, 9, 255} {
		_, err := NewTransmissionPower(code)
		assert.ErrorIs(t, err, ErrInvalidPower, "code %d", code)
	}

	_, err := PowerFromDBm(3)
	assert.ErrorIs(t, err, ErrInvalidPower)
}

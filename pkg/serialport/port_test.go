package serialport

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
	"go.uber.org/zap/zaptest"

	"github.com/herlein/gohc12/pkg/hc12"
)

type fakeSerial struct {
	name     string
	mode     *serial.Mode
	rts, dtr bool
	timeout  time.Duration
	written  []byte
	readErr  error
	writeErr error
	closed   bool
}

func (f *fakeSerial) SetMode(mode *serial.Mode) error { f.mode = mode; return nil }
func (f *fakeSerial) Read(p []byte) (int, error)      { return 0, f.readErr }
func (f *fakeSerial) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	f.written = append(f.written, p...)
	return len(p), nil
}
func (f *fakeSerial) Drain() error              { return nil }
func (f *fakeSerial) ResetInputBuffer() error   { return nil }
func (f *fakeSerial) ResetOutputBuffer() error  { return nil }
func (f *fakeSerial) SetDTR(dtr bool) error     { f.dtr = dtr; return nil }
func (f *fakeSerial) SetRTS(rts bool) error     { f.rts = rts; return nil }
func (f *fakeSerial) Break(time.Duration) error { return nil }
func (f *fakeSerial) Close() error              { f.closed = true; return nil }
func (f *fakeSerial) SetReadTimeout(t time.Duration) error {
	f.timeout = t
	return nil
}
func (f *fakeSerial) GetModemStatusBits() (*serial.ModemStatusBits, error) {
	return &serial.ModemStatusBits{}, nil
}

func withFakeSerial(t *testing.T) *fakeSerial {
	t.Helper()
	fake := &fakeSerial{}
	previous := opener
	opener = func(name string, mode *serial.Mode) (serial.Port, error) {
		fake.name = name
		fake.mode = mode
		return fake, nil
	}
	t.Cleanup(func() { opener = previous })
	return fake
}

func TestValidateConfigDefaults(t *testing.T) {
	cfg, err := validateConfig(Config{Name: "/dev/ttyUSB0"})
	require.NoError(t, err)
	assert.Equal(t, 9600, cfg.BaudRate)
	assert.Equal(t, SetLineRTS, cfg.SetLine)
	assert.Equal(t, DefaultReadTimeout, cfg.ReadTimeout)
}

func TestValidateConfigErrors(t *testing.T) {
	_, err := validateConfig(Config{})
	assert.ErrorIs(t, err, ErrMissingPortName)

	_, err = validateConfig(Config{Name: "/dev/ttyUSB0", BaudRate: 14400})
	assert.ErrorIs(t, err, hc12.ErrInvalidBaudRate)

	_, err = validateConfig(Config{Name: "/dev/ttyUSB0", BaudRate: 1<<32 + 9600})
	assert.ErrorIs(t, err, hc12.ErrInvalidBaudRate)

	_, err = validateConfig(Config{Name: "/dev/ttyUSB0", SetLine: "cts"})
	assert.ErrorIs(t, err, ErrInvalidSetLine)
}

func TestOpenConfiguresPort(t *testing.T) {
	fake := withFakeSerial(t)

	p, err := Open(Config{Name: "/dev/ttyUSB1", BaudRate: 19200, SetLine: "RTS"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB1", fake.name)
	assert.Equal(t, 19200, fake.mode.BaudRate)
	assert.Equal(t, 8, fake.mode.DataBits)
	assert.Equal(t, serial.NoParity, fake.mode.Parity)
	assert.Equal(t, DefaultReadTimeout, fake.timeout)
	assert.False(t, fake.rts, "SET must start released")

	require.NoError(t, p.Close())
	assert.True(t, fake.closed)
	assert.NoError(t, p.Close())
}

func TestSetConfigMode(t *testing.T) {
	fake := withFakeSerial(t)

	p, err := Open(Config{Name: "/dev/ttyUSB0", SetLine: SetLineDTR}, nil)
	require.NoError(t, err)

	require.NoError(t, p.SetConfigMode(true))
	assert.True(t, fake.dtr)
	require.NoError(t, p.SetConfigMode(false))
	assert.False(t, fake.dtr)
}

func TestSetConfigModeInverted(t *testing.T) {
	fake := withFakeSerial(t)

	p, err := Open(Config{Name: "/dev/ttyUSB0", InvertSet: true}, nil)
	require.NoError(t, err)
	assert.True(t, fake.rts)

	require.NoError(t, p.SetConfigMode(true))
	assert.False(t, fake.rts)
}

func TestSetConfigModeWithoutLine(t *testing.T) {
	withFakeSerial(t)

	p, err := Open(Config{Name: "/dev/ttyUSB0", SetLine: SetLineNone}, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, p.SetConfigMode(true), ErrNoSetLine)
}

func TestWriteAndReadErrorsWrapTaxonomy(t *testing.T) {
	fake := withFakeSerial(t)

	p, err := Open(Config{Name: "/dev/ttyUSB0"}, nil)
	require.NoError(t, err)

	n, err := p.Write([]byte(hc12.OKQuery))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte("AT\r\n"), fake.written)

	fake.writeErr = errors.New("device gone")
	_, err = p.Write([]byte("x"))
	assert.ErrorIs(t, err, hc12.ErrWrite)

	fake.readErr = errors.New("device gone")
	_, err = p.Read(make([]byte, 8))
	assert.ErrorIs(t, err, hc12.ErrRead)
}

func TestSetBaudRate(t *testing.T) {
	fake := withFakeSerial(t)

	p, err := Open(Config{Name: "/dev/ttyUSB0"}, nil)
	require.NoError(t, err)

	require.NoError(t, p.SetBaudRate(115200))
	assert.Equal(t, 115200, fake.mode.BaudRate)
	assert.Equal(t, 115200, p.Config().BaudRate)

	assert.ErrorIs(t, p.SetBaudRate(300), hc12.ErrInvalidBaudRate)
	assert.ErrorIs(t, p.SetBaudRate(1<<32 + 9600), hc12.ErrInvalidBaudRate)
	assert.Equal(t, 115200, fake.mode.BaudRate)
}

func TestClosedPort(t *testing.T) {
	withFakeSerial(t)

	p, err := Open(Config{Name: "/dev/ttyUSB0"}, nil)
	require.NoError(t, err)
	require.NoError(t, p.Close())

	_, err = p.Write([]byte("AT\r\n"))
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, p.SetConfigMode(true), ErrClosed)
	assert.ErrorIs(t, p.SetBaudRate(9600), ErrClosed)
}

// Package serialport is the UART transport for HC-12 modules attached through
// a USB serial bridge. Besides the byte stream it drives the module's SET pin
// from a modem control line so the host can switch the module into AT
// command mode.
package serialport

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"

	"github.com/herlein/gohc12/pkg/hc12"
)

// SET pin control lines
const (
	SetLineRTS  = "rts"
	SetLineDTR  = "dtr"
	SetLineNone = "none"
)

// DefaultReadTimeout bounds a single Read call
const DefaultReadTimeout = 100 * time.Millisecond

// Config describes how to open the serial link to a module
type Config struct {
	Name        string        // device path, e.g. /dev/ttyUSB0
	BaudRate    int           // UART rate, must be a module rate
	SetLine     string        // modem line wired to SET: rts, dtr or none
	InvertSet   bool          // true if asserting the line drives SET high
	ReadTimeout time.Duration // per-Read timeout
}

// opener is replaced in tests
var opener = serial.Open

// Port is an open serial link to a module
type Port struct {
	mu     sync.Mutex
	port   serial.Port
	config Config
	log    *zap.Logger
	closed bool
}

// validateConfig checks the configuration and returns a copy with defaults applied
func validateConfig(cfg Config) (Config, error) {
	if cfg.Name == "" {
		return cfg, ErrMissingPortName
	}
	if cfg.BaudRate == 0 {
		cfg.BaudRate = hc12.DefaultBaudRate.Bps()
	}
	if _, err := hc12.ParseBaudRate(cfg.BaudRate); err != nil {
		return cfg, fmt.Errorf("serial: %w", err)
	}
	cfg.SetLine = strings.ToLower(strings.TrimSpace(cfg.SetLine))
	switch cfg.SetLine {
	case "":
		cfg.SetLine = SetLineRTS
	case SetLineRTS, SetLineDTR, SetLineNone:
	default:
		return cfg, fmt.Errorf("%w: %q", ErrInvalidSetLine, cfg.SetLine)
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	return cfg, nil
}

func serialMode(baud int) *serial.Mode {
	return &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// Open opens the serial device described by cfg at 8N1. The SET line is
// released so the module starts in transparent mode.
func Open(cfg Config, logger *zap.Logger) (*Port, error) {
	cfg, err := validateConfig(cfg)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	port, err := opener(cfg.Name, serialMode(cfg.BaudRate))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", cfg.Name, err)
	}
	if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}

	p := &Port{
		port:   port,
		config: cfg,
		log:    logger.With(zap.String("port", cfg.Name)),
	}
	if cfg.SetLine != SetLineNone {
		if err := p.SetConfigMode(false); err != nil {
			port.Close()
			return nil, err
		}
	}

	p.log.Info("serial port opened",
		zap.Int("baud", cfg.BaudRate),
		zap.String("set_line", cfg.SetLine))
	return p, nil
}

// Config returns the effective configuration
func (p *Port) Config() Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.config
}

// Read reads whatever is available, returning 0 bytes and no error when the
// read timeout passes without data
func (p *Port) Read(buf []byte) (int, error) {
	if p.isClosed() {
		return 0, ErrClosed
	}
	n, err := p.port.Read(buf)
	if err != nil {
		return n, fmt.Errorf("%w: %w", hc12.ErrRead, err)
	}
	return n, nil
}

// Write writes buf to the module
func (p *Port) Write(buf []byte) (int, error) {
	if p.isClosed() {
		return 0, ErrClosed
	}
	n, err := p.port.Write(buf)
	if err != nil {
		return n, fmt.Errorf("%w: %w", hc12.ErrWrite, err)
	}
	if n != len(buf) {
		return n, fmt.Errorf("%w: short write: wrote %d of %d bytes", hc12.ErrWrite, n, len(buf))
	}
	return n, nil
}

// SetReadTimeout changes the per-Read timeout
func (p *Port) SetReadTimeout(timeout time.Duration) error {
	if p.isClosed() {
		return ErrClosed
	}
	return p.port.SetReadTimeout(timeout)
}

// SetBaudRate reconfigures the UART, used after the module accepted AT+B
func (p *Port) SetBaudRate(bps int) error {
	if _, err := hc12.ParseBaudRate(bps); err != nil {
		return fmt.Errorf("serial: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if err := p.port.SetMode(serialMode(bps)); err != nil {
		return fmt.Errorf("failed to set baud rate %d: %w", bps, err)
	}
	p.config.BaudRate = bps
	p.log.Info("baud rate changed", zap.Int("baud", bps))
	return nil
}

// SetConfigMode pulls SET low (enabled) or releases it. USB bridges drive
// their modem lines active low, so asserting the line pulls SET low unless
// InvertSet is configured.
func (p *Port) SetConfigMode(enabled bool) error {
	if p.isClosed() {
		return ErrClosed
	}
	level := enabled != p.config.InvertSet

	var err error
	switch p.config.SetLine {
	case SetLineRTS:
		err = p.port.SetRTS(level)
	case SetLineDTR:
		err = p.port.SetDTR(level)
	default:
		return ErrNoSetLine
	}
	if err != nil {
		return fmt.Errorf("failed to drive SET via %s: %w", p.config.SetLine, err)
	}
	p.log.Debug("SET line", zap.Bool("config_mode", enabled))
	return nil
}

// ResetInputBuffer discards unread bytes
func (p *Port) ResetInputBuffer() error {
	if p.isClosed() {
		return ErrClosed
	}
	return p.port.ResetInputBuffer()
}

// Close closes the device. The bridge releases its modem lines, which lets SET float high.
func (p *Port) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.log.Info("serial port closed")
	return p.port.Close()
}

func (p *Port) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// ListPorts returns the names of the serial devices present on the system
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	return ports, nil
}

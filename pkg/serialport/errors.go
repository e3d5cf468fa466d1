package serialport

import "errors"

// Transport errors
var (
	// ErrMissingPortName indicates no serial device was configured
	ErrMissingPortName = errors.New("serial: missing port name")

	// ErrInvalidSetLine indicates an unknown SET pin control line
	ErrInvalidSetLine = errors.New("serial: invalid SET line (use rts, dtr or none)")

	// ErrNoSetLine indicates config mode was requested with no SET line wired
	ErrNoSetLine = errors.New("serial: no SET line configured")

	// ErrClosed indicates use of a closed port
	ErrClosed = errors.New("serial: port closed")
)

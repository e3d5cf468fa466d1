package scanner

import "errors"

// Scanner errors
var (
	// ErrScannerRunning indicates a scan is already in progress
	ErrScannerRunning = errors.New("scanner is already running")

	// ErrNoChannels indicates no channels were specified for scanning
	ErrNoChannels = errors.New("no channels specified for scanning")

	// ErrInvalidDwellTime indicates an invalid dwell time
	ErrInvalidDwellTime = errors.New("dwell time must be between 10 ms and 10 s")

	// ErrInvalidHold indicates a hold count that cannot keep a channel active
	ErrInvalidHold = errors.New("hold count must exceed the lost threshold, which must not be negative")
)

package usbserial

import "errors"

var (
	// ErrNoAdapters indicates no known USB serial bridge is connected
	ErrNoAdapters = errors.New("no USB serial adapters found")

	// ErrNotFound indicates no adapter matched the selector
	ErrNotFound = errors.New("no matching adapter")

	// ErrInvalidSelector indicates a malformed -d argument
	ErrInvalidSelector = errors.New("invalid adapter selector")

	// ErrAmbiguous indicates the selector matched more than one adapter or port
	ErrAmbiguous = errors.New("ambiguous adapter selection")
)

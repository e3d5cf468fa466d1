package driver

import "errors"

// Driver errors
var (
	// ErrWrongState indicates an operation that is not allowed in the current state
	ErrWrongState = errors.New("operation not allowed in current state")

	// ErrTimeout indicates the module did not finish a reply in time
	ErrTimeout = errors.New("timeout waiting for reply")
)

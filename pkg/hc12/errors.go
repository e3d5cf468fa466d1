package hc12

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidChannel indicates a channel outside 1..127
	ErrInvalidChannel = errors.New("invalid channel")

	// ErrInvalidBaudRate indicates a baud rate the active mode does not permit
	ErrInvalidBaudRate = errors.New("invalid baud rate")

	// ErrInvalidPower indicates a transmission power code outside 1..8
	ErrInvalidPower = errors.New("invalid transmission power")

	// ErrInvalidMode indicates a mode numeral outside FU1..FU4
	ErrInvalidMode = errors.New("invalid mode")

	// ErrUnspecifiedMode indicates a mode whose baud-rate rules are not known (FU4)
	ErrUnspecifiedMode = errors.New("mode has no baud rate rules")

	// ErrUnexpectedReply indicates a module reply that could not be decoded
	ErrUnexpectedReply = errors.New("unexpected reply")

	// ErrRead indicates the transport failed to read from the module
	ErrRead = errors.New("read error")

	// ErrWrite indicates the transport failed to write to the module
	ErrWrite = errors.New("write error")
)

// ChannelError reports the rejected channel code. It matches ErrInvalidChannel.
type ChannelError struct {
	Code uint8
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("invalid channel %d (valid range: %d-%d)", e.Code, MinChannel, MaxChannel)
}

func (e *ChannelError) Is(target error) bool {
	return target == ErrInvalidChannel
}

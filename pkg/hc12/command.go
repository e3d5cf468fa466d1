package hc12

import (
	"fmt"
	"strconv"
)

// MaxSetCommandLength is the length of the longest legal set command,
// AT+B115200 with CRLF
const MaxSetCommandLength = 12

// CommandBufferSize also holds AT+B with any 32-bit numeral, so rendering an
// unchecked BaudRate cannot overrun the buffer
const CommandBufferSize = 16

// CommandBuffer is the destination of a rendered set command
type CommandBuffer [CommandBufferSize]byte

// SetCommand is a parameter value that can render its own AT set command.
//
// RenderSetCommand writes the command from offset 0, CRLF included, and
// returns the byte count. Values are validated when they are built, so
// rendering cannot fail, and it does not allocate.
type SetCommand interface {
	RenderSetCommand(buf *CommandBuffer) int
}

const (
	commandPrefix = "AT+"
	lineEnding    = "\r\n"
)

// RenderSetCommand writes AT+B<bps>\r\n
func (r BaudRate) RenderSetCommand(buf *CommandBuffer) int {
	b := append(buf[:0], commandPrefix+"B"...)
	b = strconv.AppendUint(b, uint64(r), 10)
	b = append(b, lineEnding...)
	return len(b)
}

// RenderSetCommand writes AT+C<ddd>\r\n with the channel zero-padded to three digits
func (c Channel) RenderSetCommand(buf *CommandBuffer) int {
	code := c.Code()
	n := copy(buf[:], commandPrefix+"C")
	buf[n] = '0' + code/100
	buf[n+1] = '0' + code/10%10
	buf[n+2] = '0' + code%10
	n += 3
	n += copy(buf[n:], lineEnding)
	return n
}

// RenderSetCommand writes AT+FU<n>\r\n
func (m Mode) RenderSetCommand(buf *CommandBuffer) int {
	n := copy(buf[:], commandPrefix+"FU")
	buf[n] = '0' + byte(m)
	n++
	n += copy(buf[n:], lineEnding)
	return n
}

// RenderSetCommand writes AT+P<n>\r\n
func (p TransmissionPower) RenderSetCommand(buf *CommandBuffer) int {
	n := copy(buf[:], commandPrefix+"P")
	buf[n] = '0' + p.Code()
	n++
	n += copy(buf[n:], lineEnding)
	return n
}

// ValidateSetCommand checks that cmd carries a value the module accepts.
// Channel and TransmissionPower are valid once built; BaudRate and Mode are
// plain numerals and are checked here.
func ValidateSetCommand(cmd SetCommand) error {
	switch v := cmd.(type) {
	case BaudRate:
		if !v.Valid() {
			return fmt.Errorf("%w: %d bps is not supported", ErrInvalidBaudRate, uint32(v))
		}
	case Mode:
		if !v.Valid() {
			return fmt.Errorf("%w: FU%d", ErrInvalidMode, uint8(v))
		}
	}
	return nil
}

// Render is a convenience that renders cmd into a fresh buffer and returns
// the command bytes
func Render(cmd SetCommand) []byte {
	var buf CommandBuffer
	n := cmd.RenderSetCommand(&buf)
	out := make([]byte, n)
	copy(out, buf[:n])
	return out
}

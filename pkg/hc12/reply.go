package hc12

import (
	"fmt"
	"strconv"
	"strings"
)

// Reply is a decoded acknowledgement or query answer from the module
type Reply struct {
	// Kind is the parameter the reply carries, zero for plain acknowledgements
	Kind     ParameterKind
	Mode     Mode
	BaudRate BaudRate
	Channel  Channel
	Power    TransmissionPower
	// Text is the reply line without its line ending
	Text string
}

// IsOK reports whether reply is exactly the module's OK response
func IsOK(reply []byte) bool {
	return string(reply) == OKResponse
}

// ParseReply decodes one reply line. Recognised forms:
//
//	OK                  plain acknowledgement
//	OK+B<bps>           baud rate
//	OK+C<ddd>, OK+RC<ddd> channel
//	OK+FU<n>            mode
//	OK+P<n>             power code
//	OK+RP:<+dd>dBm      power in dBm
//	OK+<WORD>           other acknowledgement (SLEEP, DEFAULT)
//
// The OK prefix is matched without regard to case.
func ParseReply(line []byte) (Reply, error) {
	text := strings.TrimRight(string(line), "\r\n")
	reply := Reply{Text: text}

	if len(text) < 2 || !strings.EqualFold(text[:2], "OK") {
		return reply, fmt.Errorf("%w: %q", ErrUnexpectedReply, text)
	}
	body, found := strings.CutPrefix(text[2:], "+")
	if !found {
		if text[2:] == "" {
			return reply, nil
		}
		return reply, fmt.Errorf("%w: %q", ErrUnexpectedReply, text)
	}

	var err error
	switch {
	case strings.HasPrefix(body, "RP:"):
		reply.Kind = KindPower
		reply.Power, err = parsePowerDBm(body[3:])
	case strings.HasPrefix(body, "RC"):
		reply.Kind = KindChannel
		reply.Channel, err = parseChannel(body[2:])
	case strings.HasPrefix(body, "FU"):
		reply.Kind = KindMode
		reply.Mode, err = parseMode(body[2:])
	case strings.HasPrefix(body, "B") && isDigits(body[1:]):
		reply.Kind = KindBaudRate
		reply.BaudRate, err = parseBaudRate(body[1:])
	case strings.HasPrefix(body, "C") && isDigits(body[1:]):
		reply.Kind = KindChannel
		reply.Channel, err = parseChannel(body[1:])
	case strings.HasPrefix(body, "P") && isDigits(body[1:]):
		reply.Kind = KindPower
		reply.Power, err = parsePowerCode(body[1:])
	case body != "" && isUpper(body):
		return reply, nil
	default:
		err = fmt.Errorf("%w: %q", ErrUnexpectedReply, text)
	}
	if err != nil {
		return Reply{Text: text}, err
	}
	return reply, nil
}

func parseBaudRate(digits string) (BaudRate, error) {
	bps, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("%w: baud rate %q", ErrUnexpectedReply, digits)
	}
	return ParseBaudRate(bps)
}

func parseChannel(digits string) (Channel, error) {
	code, err := strconv.ParseUint(digits, 10, 8)
	if err != nil {
		return Channel{}, fmt.Errorf("%w: channel %q", ErrUnexpectedReply, digits)
	}
	return NewChannel(uint8(code))
}

func parseMode(digits string) (Mode, error) {
	n, err := strconv.ParseUint(digits, 10, 8)
	mode := Mode(n)
	if err != nil || !mode.Valid() {
		return 0, fmt.Errorf("%w: mode %q", ErrUnexpectedReply, digits)
	}
	return mode, nil
}

func parsePowerCode(digits string) (TransmissionPower, error) {
	code, err := strconv.ParseUint(digits, 10, 8)
	if err != nil {
		return TransmissionPower{}, fmt.Errorf("%w: power %q", ErrUnexpectedReply, digits)
	}
	return NewTransmissionPower(uint8(code))
}

func parsePowerDBm(field string) (TransmissionPower, error) {
	value, found := strings.CutSuffix(field, "dBm")
	if !found {
		return TransmissionPower{}, fmt.Errorf("%w: power %q", ErrUnexpectedReply, field)
	}
	dbm, err := strconv.ParseInt(value, 10, 8)
	if err != nil {
		return TransmissionPower{}, fmt.Errorf("%w: power %q", ErrUnexpectedReply, field)
	}
	return PowerFromDBm(int8(dbm))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isUpper(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

package hc12

import "fmt"

// QueryBufferSize is the fixed width of every parameter query, AT+R<x>\r\n
const QueryBufferSize = 7

// QueryBuffer is the destination of a rendered parameter query
type QueryBuffer [QueryBufferSize]byte

// ParameterKind names a module parameter that can be queried
type ParameterKind uint8

// Parameter kinds
const (
	KindBaudRate ParameterKind = iota + 1
	KindChannel
	KindMode
	KindPower
)

var queryCodes = map[ParameterKind]byte{
	KindBaudRate: 'B',
	KindChannel:  'C',
	KindMode:     'F',
	KindPower:    'P',
}

// ParameterKinds returns the queryable kinds in the order a full read uses
func ParameterKinds() []ParameterKind {
	return []ParameterKind{KindMode, KindBaudRate, KindChannel, KindPower}
}

func (k ParameterKind) String() string {
	switch k {
	case KindBaudRate:
		return "baud_rate"
	case KindChannel:
		return "channel"
	case KindMode:
		return "mode"
	case KindPower:
		return "power"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// RenderQuery writes the fixed seven-byte query AT+R<code>\r\n for k. The
// query does not depend on any parameter value. Rendering a kind outside the
// declared constants is a programming error and panics.
func (k ParameterKind) RenderQuery(buf *QueryBuffer) {
	code, ok := queryCodes[k]
	if !ok {
		panic(fmt.Sprintf("hc12: no query for %s", k))
	}
	n := copy(buf[:], commandPrefix+"R")
	buf[n] = code
	copy(buf[n+1:], lineEnding)
}

// Fixed commands and replies
const (
	OKQuery              = "AT\r\n"         // 4 bytes
	OKResponse           = "Ok\r\n"         // 4 bytes
	RevisionQuery        = "AT+V\r\n"       // 6 bytes
	SleepCommand         = "AT+SLEEP\r\n"   // 10 bytes
	ResetSettingsCommand = "AT+DEFAULT\r\n" // 12 bytes
	UpdateCommand        = "AT+UPDATE\r\n"  // 11 bytes
)

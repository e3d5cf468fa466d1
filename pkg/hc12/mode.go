package hc12

import "fmt"

// Mode is an operating-mode numeral as carried by AT+FUx
type Mode uint8

// Operating modes
const (
	ModeFU1 Mode = 1 // moderate power saving, 250000 bps over the air
	ModeFU2 Mode = 2 // extreme power saving, UART limited to 4800 bps
	ModeFU3 Mode = 3 // full speed, air rate follows the UART rate (default)
	ModeFU4 Mode = 4 // long range, rules not characterised

	DefaultMode = ModeFU3
)

// Valid reports whether m is FU1..FU4
func (m Mode) Valid() bool {
	return m >= ModeFU1 && m <= ModeFU4
}

func (m Mode) String() string {
	return fmt.Sprintf("FU%d", uint8(m))
}

// ModeTag is implemented by the zero-size mode markers Fu1..Fu4
type ModeTag interface {
	Mode() Mode
}

// BaudRatePolicy is a mode tag with known baud-rate rules. Only Fu1, Fu2 and
// Fu3 implement it; the unexported methods keep the set closed.
type BaudRatePolicy interface {
	ModeTag
	allowsBaudRate(rate BaudRate) bool
	airBaudRate(rate BaudRate) AirBaudRate
	defaultBaudRate() BaudRate
}

// Fu1 selects mode FU1: every UART rate is legal, air rate fixed at 250000 bps
type Fu1 struct{}

// Fu2 selects mode FU2: UART limited to 1200, 2400 or 4800 bps, air rate fixed at 250000 bps
type Fu2 struct{}

// Fu3 selects mode FU3: every UART rate is legal, air rate derived from it
type Fu3 struct{}

// Fu4 selects mode FU4. Its baud-rate rules are not specified, so it does not
// implement BaudRatePolicy and cannot parameterize a Parameters set.
type Fu4 struct{}

func (Fu1) Mode() Mode { return ModeFU1 }
func (Fu2) Mode() Mode { return ModeFU2 }
func (Fu3) Mode() Mode { return ModeFU3 }
func (Fu4) Mode() Mode { return ModeFU4 }

func (Fu1) allowsBaudRate(rate BaudRate) bool { return rate.Valid() }
func (Fu1) airBaudRate(BaudRate) AirBaudRate  { return AirBps250000 }
func (Fu1) defaultBaudRate() BaudRate         { return DefaultBaudRate }

func (Fu2) airBaudRate(BaudRate) AirBaudRate { return AirBps250000 }
func (Fu2) defaultBaudRate() BaudRate        { return Bps4800 }

func (Fu3) allowsBaudRate(rate BaudRate) bool { return rate.Valid() }
func (Fu3) defaultBaudRate() BaudRate         { return DefaultBaudRate }

func (Fu2) allowsBaudRate(rate BaudRate) bool {
	switch rate {
	case Bps1200, Bps2400, Bps4800:
		return true
	}
	return false
}

func (Fu3) airBaudRate(rate BaudRate) AirBaudRate {
	switch rate {
	case Bps1200, Bps2400:
		return AirBps5000
	case Bps4800, Bps9600:
		return AirBps15000
	case Bps19200, Bps38400:
		return AirBps58000
	default:
		return AirBps236000
	}
}

// policyFor maps a runtime mode onto its tag. FU4 and unknown numerals have no policy.
func policyFor(mode Mode) (BaudRatePolicy, error) {
	switch mode {
	case ModeFU1:
		return Fu1{}, nil
	case ModeFU2:
		return Fu2{}, nil
	case ModeFU3:
		return Fu3{}, nil
	case ModeFU4:
		return nil, fmt.Errorf("%w: %s", ErrUnspecifiedMode, mode)
	default:
		return nil, fmt.Errorf("%w: FU%d", ErrUnspecifiedMode, uint8(mode))
	}
}

// ValidateBaudRate applies the rules of a mode known only at runtime, such as
// one read back from a module
func ValidateBaudRate(mode Mode, rate BaudRate) error {
	policy, err := policyFor(mode)
	if err != nil {
		return err
	}
	if !policy.allowsBaudRate(rate) {
		return fmt.Errorf("%w: %s not permitted in %s", ErrInvalidBaudRate, rate, mode)
	}
	return nil
}

// DeriveAirBaudRate returns the air rate a module in mode would use at rate
func DeriveAirBaudRate(mode Mode, rate BaudRate) (AirBaudRate, error) {
	policy, err := policyFor(mode)
	if err != nil {
		return 0, err
	}
	return policy.airBaudRate(rate), nil
}

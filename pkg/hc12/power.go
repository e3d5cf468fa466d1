package hc12

import "fmt"

// Transmission power limits
const (
	MinPower     uint8 = 1
	MaxPower     uint8 = 8
	DefaultPower uint8 = MaxPower
)

// TransmissionPower is a validated power code, 1..8.
//
// The zero value is code 8 (+20 dBm), the module default. The code is stored
// as the number of steps below maximum so out-of-table codes cannot exist.
type TransmissionPower struct {
	steps uint8
}

// NewTransmissionPower returns the power level for code 1..8
func NewTransmissionPower(code uint8) (TransmissionPower, error) {
	if code < MinPower || code > MaxPower {
		return TransmissionPower{}, fmt.Errorf("%w: code %d (valid range: %d-%d)", ErrInvalidPower, code, MinPower, MaxPower)
	}
	return TransmissionPower{steps: MaxPower - code}, nil
}

// PowerFromDBm returns the power level whose table entry is exactly dbm
func PowerFromDBm(dbm int8) (TransmissionPower, error) {
	for code := MinPower; code <= MaxPower; code++ {
		if powerDBm[code] == dbm {
			return TransmissionPower{steps: MaxPower - code}, nil
		}
	}
	return TransmissionPower{}, fmt.Errorf("%w: no level for %+d dBm", ErrInvalidPower, dbm)
}

// Code returns the power code as sent on the wire
func (p TransmissionPower) Code() uint8 {
	return MaxPower - p.steps
}

// DBm returns the output power in dBm
func (p TransmissionPower) DBm() int8 {
	return powerDBm[p.Code()]
}

// Milliwatt returns the output power in mW
func (p TransmissionPower) Milliwatt() float32 {
	return powerMilliwatt[p.Code()]
}

func (p TransmissionPower) String() string {
	return fmt.Sprintf("P%d (%+d dBm)", p.Code(), p.DBm())
}

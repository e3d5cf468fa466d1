package hc12

import (
	"fmt"
	"strconv"
)

// BaudRate is the UART rate between host and module. Its value is the rate in bps.
type BaudRate uint32

// Supported UART baud rates
const (
	Bps1200   BaudRate = 1200
	Bps2400   BaudRate = 2400
	Bps4800   BaudRate = 4800
	Bps9600   BaudRate = 9600
	Bps19200  BaudRate = 19200
	Bps38400  BaudRate = 38400
	Bps57600  BaudRate = 57600
	Bps115200 BaudRate = 115200

	DefaultBaudRate = Bps9600
)

var baudRates = [...]BaudRate{Bps1200, Bps2400, Bps4800, Bps9600, Bps19200, Bps38400, Bps57600, Bps115200}

// BaudRates returns every supported baud rate, slowest first
func BaudRates() []BaudRate {
	rates := baudRates
	return rates[:]
}

// Valid reports whether r is one of the eight supported rates
func (r BaudRate) Valid() bool {
	for _, rate := range baudRates {
		if r == rate {
			return true
		}
	}
	return false
}

// Bps returns the rate in bits per second
func (r BaudRate) Bps() int {
	return int(r)
}

func (r BaudRate) String() string {
	return strconv.FormatUint(uint64(r), 10) + " bps"
}

// ParseBaudRate converts a numeric rate into a BaudRate. The comparison is
// made on the int so values wider than 32 bits cannot wrap onto a legal rate.
func ParseBaudRate(bps int) (BaudRate, error) {
	for _, rate := range baudRates {
		if bps == rate.Bps() {
			return rate, nil
		}
	}
	return 0, fmt.Errorf("%w: %d bps is not supported", ErrInvalidBaudRate, bps)
}

// AirBaudRate is the over-the-air data rate. It is never set directly; it
// follows from the operating mode and the UART baud rate.
type AirBaudRate uint32

// Air baud rates
const (
	AirBps5000   AirBaudRate = 5000
	AirBps15000  AirBaudRate = 15000
	AirBps58000  AirBaudRate = 58000
	AirBps236000 AirBaudRate = 236000
	AirBps250000 AirBaudRate = 250000
)

// Bps returns the air rate in bits per second
func (r AirBaudRate) Bps() int {
	return int(r)
}

func (r AirBaudRate) String() string {
	return strconv.FormatUint(uint64(r), 10) + " bps"
}

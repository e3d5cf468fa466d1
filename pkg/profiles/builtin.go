package profiles

import "github.com/herlein/gohc12/pkg/hc12"

// Built-in profile names
const (
	NameFU3Default     = "fu3-default"
	NameFU3Fast        = "fu3-fast"
	NameFU3LongRange   = "fu3-long-range"
	NameFU1PowerSaving = "fu1-power-saving"
	NameFU2LowPower    = "fu2-low-power"
)

// build applies fixed settings to a parameter set. Built-in settings are
// constants, so a rejected value is a programming error.
func build[M hc12.BaudRatePolicy](rate hc12.BaudRate, channel, power uint8) *hc12.Parameters[M] {
	p := hc12.NewParameters[M]()
	if err := p.SetBaudRate(rate); err != nil {
		panic(err)
	}
	if err := p.SetChannel(channel); err != nil {
		panic(err)
	}
	if err := p.SetPower(power); err != nil {
		panic(err)
	}
	return p
}

// NewFU3Default is the factory state: FU3, 9600 bps, channel 1, +20 dBm
func NewFU3Default() *Profile {
	return fromParameters(NameFU3Default,
		"Factory defaults, 15000 bps over the air",
		hc12.DefaultParameters())
}

// NewFU3Fast trades range for the highest air rate
func NewFU3Fast() *Profile {
	return fromParameters(NameFU3Fast,
		"FU3 at 115200 bps, 236000 bps over the air, -100 dBm sensitivity",
		build[hc12.Fu3](hc12.Bps115200, hc12.DefaultChannel, hc12.MaxPower))
}

// NewFU3LongRange uses the slowest air rate for the best sensitivity
func NewFU3LongRange() *Profile {
	return fromParameters(NameFU3LongRange,
		"FU3 at 1200 bps, 5000 bps over the air, -117 dBm sensitivity",
		build[hc12.Fu3](hc12.Bps1200, hc12.DefaultChannel, hc12.MaxPower))
}

// NewFU1PowerSaving lowers idle current to about 3.6 mA
func NewFU1PowerSaving() *Profile {
	return fromParameters(NameFU1PowerSaving,
		"FU1 at 9600 bps, moderate power saving",
		build[hc12.Fu1](hc12.Bps9600, hc12.DefaultChannel, hc12.MaxPower))
}

// NewFU2LowPower is the lowest current mode; the UART is limited to 4800 bps
func NewFU2LowPower() *Profile {
	return fromParameters(NameFU2LowPower,
		"FU2 at 4800 bps, extreme power saving",
		build[hc12.Fu2](hc12.Bps4800, hc12.DefaultChannel, 5))
}

// Builtins returns fresh copies of all built-in profiles
func Builtins() []*Profile {
	return []*Profile{
		NewFU3Default(),
		NewFU3Fast(),
		NewFU3LongRange(),
		NewFU1PowerSaving(),
		NewFU2LowPower(),
	}
}

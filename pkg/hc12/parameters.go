package hc12

import "fmt"

// Parameters is the configuration of one module, indexed by its operating
// mode tag. The tag fixes which baud rates are legal and how the air rate is
// derived; switching modes means building a new Parameters.
//
// Setters validate before mutating, so a rejected value leaves the set as it
// was. A Parameters is not safe for concurrent mutation.
type Parameters[M BaudRatePolicy] struct {
	baudRate BaudRate
	channel  Channel
	power    TransmissionPower
}

// NewParameters returns the mode's default parameter set: its default baud
// rate, channel 1 and maximum power
func NewParameters[M BaudRatePolicy]() *Parameters[M] {
	var mode M
	return &Parameters[M]{baudRate: mode.defaultBaudRate()}
}

// DefaultParameters returns the factory configuration: FU3, 9600 bps, channel 1, +20 dBm
func DefaultParameters() *Parameters[Fu3] {
	return NewParameters[Fu3]()
}

// Mode returns the numeral of the mode tag
func (p *Parameters[M]) Mode() Mode {
	var mode M
	return mode.Mode()
}

// BaudRate returns the UART baud rate
func (p *Parameters[M]) BaudRate() BaudRate {
	if p.baudRate == 0 {
		var mode M
		return mode.defaultBaudRate()
	}
	return p.baudRate
}

// SetBaudRate changes the UART baud rate if the mode permits it
func (p *Parameters[M]) SetBaudRate(rate BaudRate) error {
	var mode M
	if !mode.allowsBaudRate(rate) {
		return fmt.Errorf("%w: %s not permitted in %s", ErrInvalidBaudRate, rate, mode.Mode())
	}
	p.baudRate = rate
	return nil
}

// AirBaudRate returns the over-the-air rate implied by the mode and baud rate
func (p *Parameters[M]) AirBaudRate() AirBaudRate {
	var mode M
	return mode.airBaudRate(p.BaudRate())
}

// SensitivityDBm returns the receiver sensitivity at the current air rate
func (p *Parameters[M]) SensitivityDBm() int32 {
	return SensitivityDBm(p.AirBaudRate())
}

// Channel returns the radio channel
func (p *Parameters[M]) Channel() Channel {
	return p.channel
}

// SetChannel changes the radio channel, see Channel.Set
func (p *Parameters[M]) SetChannel(code uint8) error {
	return p.channel.Set(code)
}

// Power returns the transmission power
func (p *Parameters[M]) Power() TransmissionPower {
	return p.power
}

// SetPower changes the transmission power code
func (p *Parameters[M]) SetPower(code uint8) error {
	power, err := NewTransmissionPower(code)
	if err != nil {
		return err
	}
	p.power = power
	return nil
}

// SetCommands returns the commands that configure a module to p, mode first
// since the mode constrains the baud rate the module will accept
func (p *Parameters[M]) SetCommands() []SetCommand {
	return []SetCommand{p.Mode(), p.BaudRate(), p.channel, p.power}
}

// Snapshot returns a mode-erased copy of p
func (p *Parameters[M]) Snapshot() Snapshot {
	return Snapshot{
		Mode:     p.Mode(),
		BaudRate: p.BaudRate(),
		Channel:  p.channel,
		Power:    p.power,
	}
}

// Snapshot is a parameter set whose mode is only known at runtime, typically
// one read back from a module or loaded from a file
type Snapshot struct {
	Mode     Mode
	BaudRate BaudRate
	Channel  Channel
	Power    TransmissionPower
}

// Validate checks the baud rate against the snapshot's mode
func (s Snapshot) Validate() error {
	return ValidateBaudRate(s.Mode, s.BaudRate)
}

// AirBaudRate derives the air rate for the snapshot's mode and baud rate
func (s Snapshot) AirBaudRate() (AirBaudRate, error) {
	return DeriveAirBaudRate(s.Mode, s.BaudRate)
}

// SetCommands validates s and returns the commands that configure a module to it
func (s Snapshot) SetCommands() ([]SetCommand, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []SetCommand{s.Mode, s.BaudRate, s.Channel, s.Power}, nil
}

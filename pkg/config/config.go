// Package config captures a module's settings as a ModuleConfig that can be
// saved, compared and written back to a module.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/herlein/gohc12/pkg/hc12"
)

// ModuleConfig holds the settings of one HC-12 module. Mode, BaudRate,
// Channel and Power are authoritative; the remaining radio fields are derived
// from them for readers of the file.
type ModuleConfig struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	Adapter   string    `json:"adapter,omitempty" yaml:"adapter,omitempty"`
	Port      string    `json:"port,omitempty" yaml:"port,omitempty"`
	Revision  string    `json:"revision,omitempty" yaml:"revision,omitempty"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	Mode     int `json:"mode" yaml:"mode"`           // 1-4
	BaudRate int `json:"baud_rate" yaml:"baud_rate"` // UART bps
	Channel  int `json:"channel" yaml:"channel"`     // 1-127
	Power    int `json:"power" yaml:"power"`         // 1-8

	FrequencyMHz   float64 `json:"frequency_mhz" yaml:"frequency_mhz"`
	PowerDBm       int     `json:"power_dbm" yaml:"power_dbm"`
	AirBaudRate    int     `json:"air_baud_rate,omitempty" yaml:"air_baud_rate,omitempty"`
	SensitivityDBm int     `json:"sensitivity_dbm,omitempty" yaml:"sensitivity_dbm,omitempty"`
}

// Device is the part of the driver used to read and write settings
type Device interface {
	WithConfig(ctx context.Context, fn func() error) error
	Revision(ctx context.Context) (string, error)
	ReadSettings(ctx context.Context) (hc12.Snapshot, error)
	Apply(ctx context.Context, cmds ...hc12.SetCommand) error
}

// FromSnapshot builds a config from a parameter set
func FromSnapshot(s hc12.Snapshot) *ModuleConfig {
	c := &ModuleConfig{
		ID:        uuid.New(),
		Timestamp: time.Now(),
		Mode:      int(s.Mode),
		BaudRate:  s.BaudRate.Bps(),
		Channel:   int(s.Channel.Code()),
		Power:     int(s.Power.Code()),
	}
	c.fillDerived(s)
	return c
}

func (c *ModuleConfig) fillDerived(s hc12.Snapshot) {
	c.FrequencyMHz = float64(s.Channel.FreqMHz())
	c.PowerDBm = int(s.Power.DBm())
	c.AirBaudRate = 0
	c.SensitivityDBm = 0
	// FU4 has no air rate rules
	if air, err := s.AirBaudRate(); err == nil {
		c.AirBaudRate = air.Bps()
		c.SensitivityDBm = int(hc12.SensitivityDBm(air))
	}
}

// Snapshot converts the authoritative fields back to typed parameters
func (c *ModuleConfig) Snapshot() (hc12.Snapshot, error) {
	var s hc12.Snapshot

	if c.Mode < int(hc12.ModeFU1) || c.Mode > int(hc12.ModeFU4) {
		return s, fmt.Errorf("%w: %d", hc12.ErrInvalidMode, c.Mode)
	}
	s.Mode = hc12.Mode(c.Mode)

	baud, err := hc12.ParseBaudRate(c.BaudRate)
	if err != nil {
		return s, err
	}
	s.BaudRate = baud

	if c.Channel < int(hc12.MinChannel) || c.Channel > int(hc12.MaxChannel) {
		return s, fmt.Errorf("%w %d (valid range: 1-127)", hc12.ErrInvalidChannel, c.Channel)
	}
	if s.Channel, err = hc12.NewChannel(uint8(c.Channel)); err != nil {
		return s, err
	}

	if c.Power < int(hc12.MinPower) || c.Power > int(hc12.MaxPower) {
		return s, fmt.Errorf("%w: %d", hc12.ErrInvalidPower, c.Power)
	}
	if s.Power, err = hc12.NewTransmissionPower(uint8(c.Power)); err != nil {
		return s, err
	}
	return s, nil
}

// Refresh recomputes the derived fields
func (c *ModuleConfig) Refresh() error {
	s, err := c.Snapshot()
	if err != nil {
		return err
	}
	c.fillDerived(s)
	return nil
}

// DumpFromDevice reads all settings from a module. The driver is switched to
// config mode for the reads and restored afterwards.
func DumpFromDevice(ctx context.Context, device Device) (*ModuleConfig, error) {
	var (
		settings hc12.Snapshot
		revision string
	)
	err := device.WithConfig(ctx, func() error {
		// not all firmware answers AT+V
		revision, _ = device.Revision(ctx)

		var err error
		settings, err = device.ReadSettings(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	configuration := FromSnapshot(settings)
	configuration.Revision = revision
	return configuration, nil
}

// ApplyToDevice writes configuration to a module. FU4 configurations are
// rejected because their baud rate cannot be validated.
func ApplyToDevice(ctx context.Context, device Device, configuration *ModuleConfig) error {
	settings, err := configuration.Snapshot()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cmds, err := settings.SetCommands()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := device.WithConfig(ctx, func() error {
		return device.Apply(ctx, cmds...)
	}); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// Verify compares the authoritative fields and describes each difference
func Verify(expected, actual *ModuleConfig) []string {
	var diffs []string
	check := func(name string, want, got int) {
		if want != got {
			diffs = append(diffs, fmt.Sprintf("%s: expected %d, got %d", name, want, got))
		}
	}
	check("mode", expected.Mode, actual.Mode)
	check("baud_rate", expected.BaudRate, actual.BaudRate)
	check("channel", expected.Channel, actual.Channel)
	check("power", expected.Power, actual.Power)
	return diffs
}

// Summary returns a one-line description for CLI output
func (c *ModuleConfig) Summary() string {
	s := fmt.Sprintf("FU%d %d bps CH%d (%.1f MHz) P%d (%+d dBm)",
		c.Mode, c.BaudRate, c.Channel, c.FrequencyMHz, c.Power, c.PowerDBm)
	if c.AirBaudRate != 0 {
		s += fmt.Sprintf(", air %d bps, sensitivity %d dBm", c.AirBaudRate, c.SensitivityDBm)
	}
	return s
}

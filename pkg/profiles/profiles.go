// Package profiles provides named HC-12 parameter sets. Each built-in profile
// is constructed through hc12.Parameters so its mode and baud rate are
// checked together; custom profiles are loaded from YAML and validated the
// same way at runtime.
package profiles

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/herlein/gohc12/pkg/config"
	"github.com/herlein/gohc12/pkg/hc12"
)

// Profile is a named module configuration
type Profile struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Mode        int    `json:"mode" yaml:"mode"`
	BaudRate    int    `json:"baud_rate" yaml:"baud_rate"`
	Channel     int    `json:"channel" yaml:"channel"`
	Power       int    `json:"power" yaml:"power"`
}

// File is the YAML layout read by LoadFile
type File struct {
	Profiles []*Profile `yaml:"profiles"`
}

func fromParameters[M hc12.BaudRatePolicy](name, description string, p *hc12.Parameters[M]) *Profile {
	return &Profile{
		Name:        name,
		Description: description,
		Mode:        int(p.Mode()),
		BaudRate:    p.BaudRate().Bps(),
		Channel:     int(p.Channel().Code()),
		Power:       int(p.Power().Code()),
	}
}

// Config returns the profile as a module configuration with derived fields
// filled in
func (p *Profile) Config() (*config.ModuleConfig, error) {
	c := &config.ModuleConfig{
		Mode:     p.Mode,
		BaudRate: p.BaudRate,
		Channel:  p.Channel,
		Power:    p.Power,
	}
	s, err := c.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", p.Name, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("profile %s: %w", p.Name, err)
	}
	return config.FromSnapshot(s), nil
}

// Validate checks the profile can be applied to a module
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile has no name")
	}
	_, err := p.Config()
	return err
}

// Get returns the built-in profile with the given name
func Get(name string) (*Profile, error) {
	return Find(Builtins(), name)
}

// Find returns the named profile from list
func Find(list []*Profile, name string) (*Profile, error) {
	for _, p := range list {
		if p != nil && p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unknown profile %q", name)
}

// List returns the sorted names of the built-in profiles
func List() []string {
	var names []string
	for _, p := range Builtins() {
		names = append(names, p.Name)
	}
	slices.Sort(names)
	return names
}

// LoadFile reads custom profiles from a YAML file. Every profile must be
// valid and names must be unique.
func LoadFile(path string) ([]*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profiles: %w", err)
	}

	seen := make(map[string]bool)
	for i, p := range f.Profiles {
		if p == nil {
			return nil, fmt.Errorf("%s: profile %d is empty", path, i+1)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("%s: duplicate profile %q", path, p.Name)
		}
		seen[p.Name] = true
	}
	return f.Profiles, nil
}

// Generate writes every built-in profile as a module configuration file
// named <profile>.json under basePath
func Generate(basePath string) error {
	for _, p := range Builtins() {
		c, err := p.Config()
		if err != nil {
			return err
		}
		filename := filepath.Join(basePath, p.Name+".json")
		if err := config.SaveToFile(c, filename); err != nil {
			return fmt.Errorf("failed to save profile %s: %w", p.Name, err)
		}
	}
	return nil
}

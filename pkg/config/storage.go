package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// SaveToFile writes the configuration as YAML for .yaml/.yml paths and JSON otherwise
func SaveToFile(configuration *ModuleConfig, path string) error {
	directory := filepath.Dir(path)
	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(configuration)
	} else {
		data, err = json.MarshalIndent(configuration, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// LoadFromFile reads a configuration and recomputes its derived fields
func LoadFromFile(path string) (*ModuleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var configuration ModuleConfig
	if isYAML(path) {
		err = yaml.Unmarshal(data, &configuration)
	} else {
		err = json.Unmarshal(data, &configuration)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := configuration.Refresh(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return &configuration, nil
}

// GetConfigPath returns the default location for a module's saved settings
func GetConfigPath(name string) string {
	return filepath.Join("etc", "hc12", fmt.Sprintf("%s.json", name))
}

// Package config provides configuration loading and management for the
// mrctools command line tools.  It handles loading configuration from
// YAML files and provides default values.  Configuration is always
// passed into entry points explicitly; nothing in the module reads it
// ambiently.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the tool configuration loaded from YAML.
type Config struct {
	// Conversion parameters
	Convert struct {
		// SeparateChannels writes one output file per channel instead
		// of a single multi-channel file.
		SeparateChannels bool `yaml:"separateChannels"`

		// AllowChannelMismatch tolerates wavelength metadata that
		// disagrees with the declared channel count, padding or
		// truncating instead of failing.
		AllowChannelMismatch bool `yaml:"allowChannelMismatch"`
	} `yaml:"convert"`

	// PixelSize holds the spacing in micrometres written by the pixel
	// size patcher and used as a default when input metadata has none.
	PixelSize struct {
		X float64 `yaml:"x"`
		Y float64 `yaml:"y"`
		Z float64 `yaml:"z"`
	} `yaml:"pixelSize"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	// 0.065 µm is the 60x objective spacing our instruments should
	// have been recording all along.
	cfg.PixelSize.X = 0.065
	cfg.PixelSize.Y = 0.065
	cfg.PixelSize.Z = 0.2

	return cfg
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

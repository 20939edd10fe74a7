// Package config provides configuration loading and management for voxelfit.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Calculation parameters
	Calculation struct {
		// LogSpeedMeasurements enables debug timing of the calculation stages
		LogSpeedMeasurements bool `yaml:"logSpeedMeasurements"`

		// Apply controls whether the calculated factor is applied to the
		// reference geometry after the calculation
		Apply bool `yaml:"apply"`
	} `yaml:"calculation"`

	// Reference geometry used when no geometry file is given
	Reference struct {
		// Dimensions is the voxel count per axis
		Dimensions [3]int `yaml:"dimensions"`

		// Spacing is the voxel size per axis in mm
		Spacing [3]float64 `yaml:"spacing"`

		// Origin is the world position of the first voxel center in mm
		Origin [3]float64 `yaml:"origin"`
	} `yaml:"reference"`

	// Logging parameters
	Logging struct {
		// Debug switches logging to debug level with human readable output
		Debug bool `yaml:"debug"`
	} `yaml:"logging"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default calculation parameters
	cfg.Calculation.LogSpeedMeasurements = false
	cfg.Calculation.Apply = true

	// Set default reference geometry, a typical scanner volume
	cfg.Reference.Dimensions = [3]int{256, 256, 130}
	cfg.Reference.Spacing = [3]float64{1.0, 1.0, 1.0}
	cfg.Reference.Origin = [3]float64{0, 0, 0}

	// Set default logging parameters
	cfg.Logging.Debug = false

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}

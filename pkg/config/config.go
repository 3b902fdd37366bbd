// Package config provides configuration loading and management for gridframe.
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
	// Grid parameters
	Grid struct {
		// NoDataValue is written for NaN cells when exporting grids
		NoDataValue float64 `yaml:"noDataValue"`
	} `yaml:"grid"`

	// Aggregate parameters
	Aggregate struct {
		// Function is the default reduction function (sum, mean, max, min)
		Function string `yaml:"function"`
	} `yaml:"aggregate"`

	// Render parameters
	Render struct {
		// Quality is the JPEG quality for rendered channels
		Quality int `yaml:"quality"`

		// OutputDir is the directory for rendered channel sequences
		OutputDir string `yaml:"outputDir"`
	} `yaml:"render"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default grid parameters
	cfg.Grid.NoDataValue = -9999

	// Set default aggregate parameters
	cfg.Aggregate.Function = "mean"

	// Set default render parameters
	cfg.Render.Quality = 90
	cfg.Render.OutputDir = "rendered_channels"

	// Set default output parameters
	cfg.Output.Verbose = true

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

// Package config provides configuration loading and management for
// uvmeasure. It handles loading configuration from YAML files and
// provides default values.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Grid parameters for the measurement operator
	Grid struct {
		// Nx and Ny are the base image dimensions in pixels
		Nx int `yaml:"nx"`
		Ny int `yaml:"ny"`

		// OversampleX and OversampleY are the padding factors for the
		// gridding FFT; the padded grid must have even dimensions
		OversampleX int `yaml:"oversampleX"`
		OversampleY int `yaml:"oversampleY"`

		// FovX and FovY are the angular field of view in radians
		FovX float64 `yaml:"fovX"`
		FovY float64 `yaml:"fovY"`
	} `yaml:"grid"`

	// Sampling parameters for the visibility coverage
	Sampling struct {
		// Nmeas is the number of visibility samples
		Nmeas int `yaml:"nmeas"`

		// Umax and Vmax bound the coordinate magnitudes; samples
		// outside alias onto the periodic grid
		Umax float64 `yaml:"umax"`
		Vmax float64 `yaml:"vmax"`

		// Seed drives the synthetic coverage generator in the CLI
		Seed uint64 `yaml:"seed"`
	} `yaml:"sampling"`

	// Power method parameters
	Power struct {
		// Seed initializes the Gaussian start vector
		Seed uint64 `yaml:"seed"`

		// MaxIter caps the iteration count
		MaxIter int `yaml:"maxIter"`

		// Tol is the relative-change stopping tolerance
		Tol float64 `yaml:"tol"`
	} `yaml:"power"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Grid.Nx = 128
	cfg.Grid.Ny = 128
	cfg.Grid.OversampleX = 2
	cfg.Grid.OversampleY = 2
	cfg.Grid.FovX = 1.0
	cfg.Grid.FovY = 1.0

	cfg.Sampling.Nmeas = 4096
	cfg.Sampling.Umax = math.Pi
	cfg.Sampling.Vmax = math.Pi
	cfg.Sampling.Seed = 1

	cfg.Power.Seed = 51
	cfg.Power.MaxIter = 200
	cfg.Power.Tol = 1e-3

	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
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

// SaveConfig saves the configuration to a YAML file
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

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}

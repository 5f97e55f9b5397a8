// Package config provides configuration loading and management for the
// acquisition tooling. It handles loading configuration from YAML files
// and provides default values.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"microstruct/pkg/acquisition"
	"microstruct/pkg/sh"
)

// Config represents the tool configuration loaded from YAML. Thresholds
// are given in the conventional reporting unit (s/mm^2) and converted to
// SI at use.
type Config struct {
	// Scheme holds the shell classification parameters.
	Scheme struct {
		// MinShellDistance is the minimum b-value distance between
		// shells in s/mm^2.
		MinShellDistance float64 `yaml:"minShellDistance"`

		// B0Threshold is the b-value below which a measurement counts
		// as b0, in s/mm^2.
		B0Threshold float64 `yaml:"b0Threshold"`
	} `yaml:"scheme"`

	// SHOrders optionally overrides the spherical harmonics order table.
	// When empty, the built-in defaults apply.
	SHOrders struct {
		// Breakpoints are increasing b-values in s/mm^2; a shell takes
		// the order of the first breakpoint above its b-value.
		Breakpoints []float64 `yaml:"breakpoints"`

		// Orders are the even SH orders per breakpoint.
		Orders []int `yaml:"orders"`
	} `yaml:"shOrders"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Scheme.MinShellDistance = acquisition.DefaultMinShellDistance / 1e6
	cfg.Scheme.B0Threshold = acquisition.DefaultB0Threshold / 1e6
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

	if _, err := cfg.Options(); err != nil {
		return nil, err
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

// CreateDefaultConfigFile creates a default configuration file at the
// specified path.
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}

// Options converts the configuration to scheme construction options in
// SI units, validating any SH order table override. An override may omit
// the final +Inf breakpoint by listing one more order than breakpoints.
func (c *Config) Options() (*acquisition.Options, error) {
	opts := acquisition.DefaultOptions()
	if c.Scheme.MinShellDistance > 0 {
		opts.MinShellDistance = c.Scheme.MinShellDistance * 1e6
	}
	if c.Scheme.B0Threshold > 0 {
		opts.B0Threshold = c.Scheme.B0Threshold * 1e6
	}

	if len(c.SHOrders.Breakpoints) > 0 || len(c.SHOrders.Orders) > 0 {
		table := sh.OrderTable{Orders: c.SHOrders.Orders}
		for _, bp := range c.SHOrders.Breakpoints {
			table.Breakpoints = append(table.Breakpoints, bp*1e6)
		}
		if len(table.Orders) == len(table.Breakpoints)+1 {
			table.Breakpoints = append(table.Breakpoints, math.Inf(1))
		}
		if err := table.Validate(); err != nil {
			return nil, fmt.Errorf("invalid SH order table: %w", err)
		}
		opts.OrderTable = table
	}
	return opts, nil
}

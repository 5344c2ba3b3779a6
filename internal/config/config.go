package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all residue configuration.
type Config struct {
	// Default automaton parameters used when the CLI is not given D and R.
	Automaton AutomatonConfig `yaml:"automaton"`

	// Batch classification
	Batch BatchConfig `yaml:"batch"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// AutomatonConfig holds the default modulus and target residue.
type AutomatonConfig struct {
	Modulus int64 `yaml:"modulus"`
	Target  int64 `yaml:"target"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Automaton: AutomatonConfig{
			Modulus: 10,
			Target:  0,
		},

		Batch: BatchConfig{
			Workers:  4,
			Debounce: "200ms",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("RESIDUE_MODULUS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid RESIDUE_MODULUS %q: %w", v, err)
		}
		c.Automaton.Modulus = n
	}
	if v := os.Getenv("RESIDUE_TARGET"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid RESIDUE_TARGET %q: %w", v, err)
		}
		c.Automaton.Target = n
	}
	if v := os.Getenv("RESIDUE_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RESIDUE_WORKERS %q: %w", v, err)
		}
		c.Batch.Workers = n
	}
	if v := os.Getenv("RESIDUE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

// ValidLevels lists the accepted logging levels.
var ValidLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Automaton.Modulus <= 0 {
		return fmt.Errorf("automaton.modulus must be positive, got %d", c.Automaton.Modulus)
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("batch.workers must be >= 1, got %d", c.Batch.Workers)
	}

	validLevel := false
	for _, l := range ValidLevels {
		if c.Logging.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid logging level: %s (valid: %v)", c.Logging.Level, ValidLevels)
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("invalid logging format: %s (valid: json, console)", c.Logging.Format)
	}

	return nil
}

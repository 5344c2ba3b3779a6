package config

import "time"

// BatchConfig configures batch classification and file watching.
type BatchConfig struct {
	Workers  int    `yaml:"workers"`  // Max concurrent classifications
	Debounce string `yaml:"debounce"` // Watch debounce, e.g. "200ms"
}

// GetDebounce returns the watch debounce as a duration.
func (c *Config) GetDebounce() time.Duration {
	d, err := time.ParseDuration(c.Batch.Debounce)
	if err != nil || d <= 0 {
		return 200 * time.Millisecond
	}
	return d
}

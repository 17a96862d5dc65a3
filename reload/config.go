package reload

import "time"

// Config holds configuration for a Scheduler
type Config struct {
	// Name is used for logging purposes to identify the dictionary (required)
	Name string `mapstructure:"name"`
	// Interval is the poll interval between version probes
	// default: 60 * time.Second
	Interval time.Duration `mapstructure:"interval"`
	// Timeout bounds one full reload cycle: probe, fetch and compile
	// default: 10 * time.Second
	Timeout time.Duration `mapstructure:"timeout"`
	// MaxBackoff caps the widened poll interval while the source keeps
	// failing. Zero disables backoff and keeps polling at Interval.
	// default: 0
	MaxBackoff time.Duration `mapstructure:"max_backoff"`
}

// DefaultConfig returns the default configuration for a Scheduler
// Note: Name field has no default value and must be explicitly set by the user
func DefaultConfig() *Config {
	return &Config{
		// Name is required and must be explicitly set
		Interval: 60 * time.Second,
		Timeout:  10 * time.Second,
	}
}

// MergeDefaults fills zero-value fields from the default configuration
func (c *Config) MergeDefaults() *Config {
	defaults := DefaultConfig()
	if c.Interval == 0 {
		c.Interval = defaults.Interval
	}
	if c.Timeout == 0 {
		c.Timeout = defaults.Timeout
	}
	return c
}

// Validate validates the configuration
// It checks that all required fields are set and have valid values
func (c *Config) Validate() error {
	if c.Name == "" {
		return ErrInvalidName(c.Name)
	}
	if c.Interval <= 0 {
		return ErrInvalidInterval(c.Interval)
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout(c.Timeout)
	}
	if c.MaxBackoff < 0 {
		return ErrInvalidMaxBackoff(c.MaxBackoff)
	}
	return nil
}

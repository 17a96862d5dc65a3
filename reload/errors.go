package reload

import (
	"fmt"
	"time"
)

// Predefined errors
var (
	// ErrAlreadyStarted is returned when Start is called twice
	ErrAlreadyStarted = fmt.Errorf("reload: scheduler already started")
	// ErrClosed is returned when Start is called after Stop
	ErrClosed = fmt.Errorf("reload: scheduler is closed")
	// ErrInFlight is returned when a reload is requested while another
	// cycle is still running
	ErrInFlight = fmt.Errorf("reload: reload already in flight")
	// ErrInvalidConfig is returned when the configuration is invalid
	ErrInvalidConfig = fmt.Errorf("reload: invalid config")
)

// Error constructors

// ErrCompile wraps a compiler failure
func ErrCompile(err error) error {
	return fmt.Errorf("reload: compile failed: %w", err)
}

// ErrInvalidName returns an error for invalid name
func ErrInvalidName(name string) error {
	return fmt.Errorf("reload: invalid name: %q (must be non-empty)", name)
}

// ErrInvalidInterval returns an error for invalid poll interval
func ErrInvalidInterval(interval time.Duration) error {
	return fmt.Errorf("reload: invalid interval: %v (must be > 0)", interval)
}

// ErrInvalidTimeout returns an error for invalid attempt timeout
func ErrInvalidTimeout(timeout time.Duration) error {
	return fmt.Errorf("reload: invalid timeout: %v (must be > 0)", timeout)
}

// ErrInvalidMaxBackoff returns an error for invalid backoff cap
func ErrInvalidMaxBackoff(backoff time.Duration) error {
	return fmt.Errorf("reload: invalid max backoff: %v (must be >= 0)", backoff)
}

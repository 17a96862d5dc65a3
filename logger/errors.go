package logger

import "fmt"

// ============ Configuration Errors ============

// ErrInvalidLevel is returned when the configured level is not a known zap level
func ErrInvalidLevel(level string, err error) error {
	return fmt.Errorf("logger: invalid level %q: %w", level, err)
}

// ErrInvalidEncoding is returned when the configured encoding is not supported
func ErrInvalidEncoding(encoding string) error {
	return fmt.Errorf("logger: invalid encoding %q, must be json or console", encoding)
}

// ============ Build Errors ============

// ErrBuildLogger is returned when the underlying zap logger cannot be constructed
func ErrBuildLogger(err error) error {
	return fmt.Errorf("logger: failed to build logger: %w", err)
}

package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Predefined errors
var (
	// ErrUnavailable marks failures of the backend itself: refused
	// connections, timeouts, broken transport
	ErrUnavailable = fmt.Errorf("source: backend unavailable")
	// ErrProtocol marks replies the backend delivered but that violate
	// the dictionary contract: missing version rows, malformed payloads
	ErrProtocol = fmt.Errorf("source: protocol violation")
)

// Unavailable wraps err as a backend availability failure
func Unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// Protocol wraps err as a contract violation by the backend
func Protocol(err error) error {
	return fmt.Errorf("%w: %w", ErrProtocol, err)
}

// protocolErrors are driver error fragments that indicate a reachable
// backend answering with a broken contract: wrong schema, wrong types,
// malformed queries. Everything else from a driver is treated as an
// availability problem and retried on the next poll.
var protocolErrors = []string{
	"unknown column",
	"doesn't exist",
	"missing columns",
	"sql syntax",
	"scan error",
	"wrongtype",
}

// classify sorts a backend error into the source taxonomy
// Errors already classified pass through unchanged
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUnavailable) || errors.Is(err, ErrProtocol) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Unavailable(err)
	}

	errStr := strings.ToLower(err.Error())
	for _, fragment := range protocolErrors {
		if strings.Contains(errStr, fragment) {
			return Protocol(err)
		}
	}
	return Unavailable(err)
}

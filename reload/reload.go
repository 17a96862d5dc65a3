// Package reload implements version-gated hot reload for in-memory
// dictionaries.
//
// The reload package follows the project conventions:
// - Interface-driven design for testability
// - Uses logger.Logger interface for unified logging
// - Uses routine package for safe goroutine execution
// - Configuration with validation and defaults
// - Structured error handling
//
// A Scheduler polls a source.Source on a fixed interval. Each cycle
// probes the source's version first and performs the expensive fetch
// and compile only when the version advanced past the last published
// one. The compiled table is swapped into a Registry atomically, so
// readers never block and never observe a partially built table. A
// failed cycle leaves the previous table in place and is retried on
// the next tick.
//
// The last observed version advances only after a successful publish.
// A cycle that fetched a new version but failed to compile or publish
// it will therefore see the same version as changed again on the next
// tick instead of silently skipping it.
package reload

import (
	"context"
	"time"
)

// Compiler builds an immutable lookup table of type T from raw rules
// Compile must not retain or mutate the rules slice
type Compiler[T any] interface {
	Compile(rules []string) (T, error)
}

// CompilerFunc adapts a function to the Compiler interface
type CompilerFunc[T any] func(rules []string) (T, error)

// Compile calls f(rules)
func (f CompilerFunc[T]) Compile(rules []string) (T, error) {
	return f(rules)
}

// Scheduler drives the probe, fetch, compile, publish cycle for one
// dictionary
type Scheduler interface {
	// Start launches the background poll loop and kicks off an
	// immediate asynchronous reload attempt. It never waits for that
	// attempt: a scheduler over an unreachable backend still starts,
	// and readers see the initial table until a publish succeeds.
	Start() error

	// Stop cancels the poll loop and waits for it to exit
	// It can be called multiple times safely
	Stop()

	// Reload runs one full cycle synchronously, bypassing the version
	// comparison: the dictionary is fetched, compiled and published
	// even if the source version did not move. Returns ErrInFlight if
	// another cycle is currently running.
	Reload(ctx context.Context) error

	// Trigger asks the poll loop to run a cycle now instead of waiting
	// for the next tick. The cycle still honors the version comparison.
	// Returns false if the request was dropped because a cycle is
	// already running or the scheduler is not running.
	Trigger() bool

	// Status reports the scheduler's current state
	Status() Status
}

// Status is a point-in-time snapshot of a scheduler's state
type Status struct {
	// Running is true between Start and Stop
	Running bool
	// CurrentVersion is the source version of the published table,
	// or -1 before the first publish
	CurrentVersion int64
	Stats
}

// Stats is reload accounting maintained by the Tracker
//
// LastError and LastErrorTime are history: a later successful publish
// resets ConsecutiveFailures but leaves them in place. Health checks
// should key off ConsecutiveFailures.
type Stats struct {
	ConsecutiveFailures int
	TotalPublishes      int64
	TotalFailures       int64
	LastError           error
	LastErrorTime       time.Time
	LastProbeTime       time.Time
	LastPublishTime     time.Time
}

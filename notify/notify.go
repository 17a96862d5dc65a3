// Package notify delivers change notifications that nudge a dictionary
// into polling its source ahead of schedule.
//
// Notifiers are advisory. The poll loop remains the source of truth:
// a lost notification is picked up by the next tick and a duplicate
// one collapses into an already-running cycle, so handlers must be
// safe to call at any time and any rate.
package notify

import "context"

// Handler reacts to one change notification
type Handler func(ctx context.Context)

// Notifier pushes change notifications to a handler
type Notifier interface {
	// Start begins delivering notifications until ctx is canceled or
	// Close is called. It does not block.
	Start(ctx context.Context, handler Handler) error

	// Close stops delivery and releases resources
	Close() error
}

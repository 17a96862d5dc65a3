package reload

import "sync/atomic"

// Registry holds the published table and swaps it atomically
// Reads never block and never observe a partially built table
//
// The held value is shared between all readers. For reference types it
// MUST be treated as read-only; compile a fresh table and publish it
// instead of mutating the current one.
type Registry[T any] struct {
	current atomic.Pointer[T]
}

// NewRegistry creates a registry seeded with an initial table
// Readers served before the first publish see the initial table
func NewRegistry[T any](initial T) *Registry[T] {
	r := &Registry[T]{}
	r.current.Store(&initial)
	return r
}

// Get returns the currently published table
// It is safe to call concurrently with Publish
func (r *Registry[T]) Get() T {
	return *r.current.Load()
}

// Publish swaps the published table
// Readers holding the previous table keep a consistent snapshot
func (r *Registry[T]) Publish(next T) {
	r.current.Store(&next)
}

package reload

import (
	"sync"
	"time"
)

// Tracker maintains reload accounting across cycles
// It is safe for concurrent use
type Tracker struct {
	mu    sync.Mutex
	stats Stats
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{}
}

// RecordProbe notes a successful version probe, whether or not the
// version moved
func (t *Tracker) RecordProbe() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.LastProbeTime = time.Now()
}

// RecordPublish notes a successful publish and ends any failure streak
func (t *Tracker) RecordPublish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.TotalPublishes++
	t.stats.ConsecutiveFailures = 0
	t.stats.LastPublishTime = time.Now()
}

// RecordFailure notes a failed reload cycle
func (t *Tracker) RecordFailure(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.TotalFailures++
	t.stats.ConsecutiveFailures++
	t.stats.LastError = err
	t.stats.LastErrorTime = time.Now()
}

// ConsecutiveFailures returns the current failure streak length
func (t *Tracker) ConsecutiveFailures() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats.ConsecutiveFailures
}

// Snapshot returns a copy of the current stats
func (t *Tracker) Snapshot() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

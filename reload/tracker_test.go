package reload

import (
	"fmt"
	"testing"
)

func TestTracker_FailureStreak(t *testing.T) {
	tr := NewTracker()

	tr.RecordFailure(fmt.Errorf("first"))
	tr.RecordFailure(fmt.Errorf("second"))

	stats := tr.Snapshot()
	if stats.ConsecutiveFailures != 2 {
		t.Errorf("expected streak 2, got %d", stats.ConsecutiveFailures)
	}
	if stats.TotalFailures != 2 {
		t.Errorf("expected total 2, got %d", stats.TotalFailures)
	}
	if stats.LastError == nil || stats.LastError.Error() != "second" {
		t.Errorf("expected last error preserved, got %v", stats.LastError)
	}
	if stats.LastErrorTime.IsZero() {
		t.Error("expected last error time to be set")
	}
}

func TestTracker_PublishEndsStreak(t *testing.T) {
	tr := NewTracker()

	tr.RecordFailure(fmt.Errorf("boom"))
	tr.RecordPublish()

	stats := tr.Snapshot()
	if stats.ConsecutiveFailures != 0 {
		t.Errorf("expected streak reset, got %d", stats.ConsecutiveFailures)
	}
	if stats.TotalPublishes != 1 {
		t.Errorf("expected 1 publish, got %d", stats.TotalPublishes)
	}
	if stats.TotalFailures != 1 {
		t.Errorf("expected failure history kept, got %d", stats.TotalFailures)
	}
	if stats.LastError == nil {
		t.Error("expected last error kept as history")
	}
	if stats.LastPublishTime.IsZero() {
		t.Error("expected last publish time to be set")
	}
}

func TestTracker_RecordProbe(t *testing.T) {
	tr := NewTracker()

	if !tr.Snapshot().LastProbeTime.IsZero() {
		t.Error("expected zero probe time before any probe")
	}

	tr.RecordProbe()
	if tr.Snapshot().LastProbeTime.IsZero() {
		t.Error("expected probe time to be set")
	}
}

package notify

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dailyyoga/syndict/logger"
)

func nopLogger(t *testing.T) logger.Logger {
	t.Helper()
	return logger.Nop()
}

func awaitCond(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within timeout")
}

func TestNewCron_InvalidSpec(t *testing.T) {
	tests := []struct {
		name string
		cfg  *CronConfig
	}{
		{"nil config", nil},
		{"empty spec", &CronConfig{}},
		{"five fields", &CronConfig{Spec: "*/5 * * * *"}},
		{"garbage", &CronConfig{Spec: "whenever"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCron(nopLogger(t), tt.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCronNotifier_FiresOnSchedule(t *testing.T) {
	n, err := NewCron(nopLogger(t), &CronConfig{Spec: "* * * * * *"})
	if err != nil {
		t.Fatalf("NewCron returned error: %v", err)
	}
	defer n.Close()

	var fired atomic.Int32
	if err := n.Start(context.Background(), func(ctx context.Context) {
		fired.Add(1)
	}); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	awaitCond(t, 3*time.Second, func() bool {
		return fired.Load() >= 1
	})
}

func TestCronNotifier_Lifecycle(t *testing.T) {
	n, err := NewCron(nopLogger(t), &CronConfig{Spec: "0 0 * * * *"})
	if err != nil {
		t.Fatalf("NewCron returned error: %v", err)
	}

	handler := func(ctx context.Context) {}
	if err := n.Start(context.Background(), handler); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if err := n.Start(context.Background(), handler); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}

	if err := n.Close(); err != nil {
		t.Errorf("Close returned error: %v", err)
	}
	if err := n.Close(); err != nil {
		t.Errorf("second Close returned error: %v", err)
	}

	if err := n.Start(context.Background(), handler); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed after Close, got %v", err)
	}
}

func TestCronNotifier_CanceledContextSkipsHandler(t *testing.T) {
	n, err := NewCron(nopLogger(t), &CronConfig{Spec: "* * * * * *"})
	if err != nil {
		t.Fatalf("NewCron returned error: %v", err)
	}
	defer n.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var fired atomic.Int32
	if err := n.Start(ctx, func(ctx context.Context) {
		fired.Add(1)
	}); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	time.Sleep(1500 * time.Millisecond)
	if fired.Load() != 0 {
		t.Errorf("handler must not fire after cancellation, fired %d times", fired.Load())
	}
}

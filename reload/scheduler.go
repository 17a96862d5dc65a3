package reload

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"time"

	"github.com/dailyyoga/syndict/logger"
	"github.com/dailyyoga/syndict/routine"
	"github.com/dailyyoga/syndict/source"
	"go.uber.org/zap"
)

// NoVersion is the CurrentVersion reported before the first publish
const NoVersion int64 = -1

// scheduler implements the Scheduler interface for one dictionary
type scheduler[T any] struct {
	// Dependencies
	logger   logger.Logger
	source   source.Source
	compiler Compiler[T]
	registry *Registry[T]
	tracker  *Tracker
	runner   routine.Runner

	// Configuration
	name       string
	interval   time.Duration
	timeout    time.Duration
	maxBackoff time.Duration

	// Runtime state
	lastVersion atomic.Int64
	inFlight    atomic.Bool
	started     atomic.Bool
	stopped     atomic.Bool
	triggerCh   chan struct{}
	ctx         context.Context
	cancel      context.CancelFunc
}

// New creates a scheduler that keeps registry in sync with src
// The registry is created by the caller so readers can hold it without
// going through the scheduler. The returned Scheduler must have Start()
// called before it polls; Reload works before Start for a synchronous
// warm-up.
func New[T any](
	log logger.Logger,
	src source.Source,
	compiler Compiler[T],
	registry *Registry[T],
	cfg *Config,
) (Scheduler, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg = cfg.MergeDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil || compiler == nil || registry == nil {
		return nil, ErrInvalidConfig
	}

	s := &scheduler[T]{
		logger:     log,
		source:     src,
		compiler:   compiler,
		registry:   registry,
		tracker:    NewTracker(),
		runner:     routine.New(log),
		name:       cfg.Name,
		interval:   cfg.Interval,
		timeout:    cfg.Timeout,
		maxBackoff: cfg.MaxBackoff,
		triggerCh:  make(chan struct{}, 1),
	}
	s.lastVersion.Store(NoVersion)
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s, nil
}

// Start launches the background poll loop
func (s *scheduler[T]) Start() error {
	if s.stopped.Load() {
		return ErrClosed
	}
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	s.runner.GoNamedWithContext(s.ctx, s.name+"-reload", s.loop)

	s.logger.Info("reload scheduler started",
		zap.String("dictionary", s.name),
		zap.Duration("interval", s.interval),
	)
	return nil
}

// Stop cancels the poll loop and waits for it to exit
func (s *scheduler[T]) Stop() {
	if !s.stopped.CompareAndSwap(false, true) {
		return
	}
	s.cancel()
	s.runner.Wait()
	s.logger.Info("reload scheduler stopped", zap.String("dictionary", s.name))
}

// Reload runs one full cycle synchronously, bypassing the version
// comparison
func (s *scheduler[T]) Reload(ctx context.Context) error {
	if s.stopped.Load() {
		return ErrClosed
	}
	return s.tryRunOnce(ctx, true)
}

// Trigger asks the poll loop to run a cycle now
func (s *scheduler[T]) Trigger() bool {
	if !s.started.Load() || s.stopped.Load() {
		return false
	}
	if s.inFlight.Load() {
		return false
	}
	select {
	case s.triggerCh <- struct{}{}:
		return true
	default:
		return false
	}
}

// Status reports the scheduler's current state
func (s *scheduler[T]) Status() Status {
	return Status{
		Running:        s.started.Load() && !s.stopped.Load(),
		CurrentVersion: s.lastVersion.Load(),
		Stats:          s.tracker.Snapshot(),
	}
}

func (s *scheduler[T]) loop(ctx context.Context) {
	// initial attempt before the first tick
	_ = s.tryRunOnce(ctx, false)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if s.inBackoff(time.Now()) {
				s.logger.Debug("skipping poll during backoff",
					zap.String("dictionary", s.name),
					zap.Int("consecutive_failures", s.tracker.ConsecutiveFailures()),
				)
				continue
			}
			_ = s.tryRunOnce(ctx, false)
		case <-s.triggerCh:
			// manual triggers bypass backoff
			_ = s.tryRunOnce(ctx, false)
		case <-ctx.Done():
			s.logger.Info("stopping reload loop", zap.String("dictionary", s.name))
			return
		}
	}
}

// tryRunOnce runs one cycle unless another is already in flight
// Concurrent requests are dropped, never queued
func (s *scheduler[T]) tryRunOnce(ctx context.Context, force bool) error {
	if !s.inFlight.CompareAndSwap(false, true) {
		return ErrInFlight
	}
	defer s.inFlight.Store(false)
	return s.runOnce(ctx, force)
}

// runOnce executes one reload cycle
// Failures are recorded and logged here; the previous table stays
// published until a later cycle completes
func (s *scheduler[T]) runOnce(ctx context.Context, force bool) error {
	start := time.Now()

	attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	version, err := s.source.Version(attemptCtx)
	if err != nil {
		s.recordFailure("version probe failed", err)
		return err
	}
	s.tracker.RecordProbe()

	last := s.lastVersion.Load()
	if !force {
		if version == last {
			s.logger.Debug("version unchanged",
				zap.String("dictionary", s.name),
				zap.Int64("version", version),
			)
			return nil
		}
		if version < last {
			s.logger.Warn("source version moved backwards, keeping current table",
				zap.String("dictionary", s.name),
				zap.Int64("version", version),
				zap.Int64("current_version", last),
			)
			return nil
		}
	}

	rules, err := s.source.Fetch(attemptCtx)
	if err != nil {
		s.recordFailure("fetch failed", err)
		return err
	}

	table, err := s.compile(rules)
	if err != nil {
		err = ErrCompile(err)
		s.recordFailure("compile failed", err)
		return err
	}

	s.registry.Publish(table)
	// the version advances only after the table is visible to readers,
	// so a failed cycle sees the same version as changed again
	s.lastVersion.Store(version)
	s.tracker.RecordPublish()

	s.logger.Info("dictionary published",
		zap.String("dictionary", s.name),
		zap.Int64("version", version),
		zap.Int64("previous_version", last),
		zap.Int("rules", len(rules)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// compile runs the compiler with panic recovery so a broken rule set
// cannot crash the poll loop
func (s *scheduler[T]) compile(rules []string) (table T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = routine.ErrPanic(rec)
		}
	}()
	return s.compiler.Compile(rules)
}

// recordFailure records and logs one failed cycle
// Availability failures are expected operational noise and log at warn,
// contract violations log at error
func (s *scheduler[T]) recordFailure(msg string, err error) {
	s.tracker.RecordFailure(err)
	fields := []zap.Field{
		zap.String("dictionary", s.name),
		zap.Error(err),
		zap.Int("consecutive_failures", s.tracker.ConsecutiveFailures()),
	}
	if errors.Is(err, source.ErrProtocol) {
		s.logger.Error(msg, fields...)
	} else {
		s.logger.Warn(msg, fields...)
	}
}

// inBackoff reports whether the tick should be skipped while the
// source keeps failing
func (s *scheduler[T]) inBackoff(now time.Time) bool {
	if s.maxBackoff <= 0 {
		return false
	}
	stats := s.tracker.Snapshot()
	if stats.ConsecutiveFailures == 0 {
		return false
	}
	return now.Sub(stats.LastErrorTime) < backoffDelay(s.interval, stats.ConsecutiveFailures, s.maxBackoff)
}

// backoffDelay widens the poll interval exponentially with the failure
// streak: interval, 2*interval, 4*interval, ... capped at limit
func backoffDelay(interval time.Duration, failures int, limit time.Duration) time.Duration {
	delay := time.Duration(math.Pow(2, float64(failures-1))) * interval
	if delay <= 0 || delay > limit {
		return limit
	}
	return delay
}

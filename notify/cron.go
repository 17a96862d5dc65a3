package notify

import (
	"context"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/dailyyoga/syndict/logger"
)

// cronParser matches the 6-field format cron.WithSeconds uses
var cronParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// CronNotifier fires the handler on a fixed schedule
// It complements a long poll interval: polling stays cheap while the
// schedule concentrates refreshes where they are expected, e.g. right
// after a nightly dictionary import.
type CronNotifier struct {
	logger logger.Logger

	spec string
	cron *cron.Cron

	started atomic.Bool
	closed  atomic.Bool
}

// NewCron creates a schedule-backed notifier
// The cron expression is validated eagerly so a typo fails construction,
// not Start.
func NewCron(log logger.Logger, cfg *CronConfig) (*CronNotifier, error) {
	if cfg == nil {
		cfg = &CronConfig{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := cronParser.Parse(cfg.Spec); err != nil {
		return nil, ErrInvalidSpec(cfg.Spec, err)
	}

	return &CronNotifier{
		logger: log,
		spec:   cfg.Spec,
		cron:   cron.New(cron.WithSeconds()),
	}, nil
}

// Start schedules the handler and begins the cron scheduler
func (n *CronNotifier) Start(ctx context.Context, handler Handler) error {
	if n.closed.Load() {
		return ErrClosed
	}
	if !n.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	_, err := n.cron.AddFunc(n.spec, func() {
		if ctx.Err() != nil {
			return
		}
		handler(ctx)
	})
	if err != nil {
		return ErrInvalidSpec(n.spec, err)
	}

	n.cron.Start()
	n.logger.Info("cron notifier started", zap.String("spec", n.spec))
	return nil
}

// Close stops the scheduler and waits for a running job to complete
func (n *CronNotifier) Close() error {
	if !n.closed.CompareAndSwap(false, true) {
		return nil
	}

	stopCtx := n.cron.Stop()
	<-stopCtx.Done()
	n.logger.Info("cron notifier closed", zap.String("spec", n.spec))
	return nil
}

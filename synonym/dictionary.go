package synonym

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/dailyyoga/syndict/logger"
	"github.com/dailyyoga/syndict/notify"
	"github.com/dailyyoga/syndict/reload"
	"github.com/dailyyoga/syndict/source"
)

// Dictionary is the assembly facade: one source, one compiler, one
// registry and one scheduler wired together behind a lookup API
type Dictionary struct {
	logger    logger.Logger
	registry  *reload.Registry[*Table]
	scheduler reload.Scheduler
	notifiers []notify.Notifier

	name    string
	started atomic.Bool
	stopped atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a dictionary backed by src
// The dictionary serves an empty table until the first publish; call
// Reload before Start for a synchronous warm-up.
func New(log logger.Logger, src source.Source, cfg *Config) (*Dictionary, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.MergeDefaults()

	comp := NewCompiler(cfg.Compiler)
	// an empty compile yields a correctly configured empty table
	seed, err := comp.Compile(nil)
	if err != nil {
		return nil, err
	}
	registry := reload.NewRegistry(seed)

	sched, err := reload.New(log, src, comp, registry, cfg.Reload)
	if err != nil {
		return nil, err
	}

	d := &Dictionary{
		logger:    log,
		registry:  registry,
		scheduler: sched,
		name:      cfg.Reload.Name,
	}
	d.ctx, d.cancel = context.WithCancel(context.Background())
	return d, nil
}

// Watch registers notifiers that trigger an early poll on change
// notifications. It must be called before Start.
func (d *Dictionary) Watch(notifiers ...notify.Notifier) error {
	if d.started.Load() {
		return ErrStarted
	}
	d.notifiers = append(d.notifiers, notifiers...)
	return nil
}

// Start launches the poll loop and the registered notifiers
func (d *Dictionary) Start() error {
	if d.stopped.Load() {
		return reload.ErrClosed
	}
	if !d.started.CompareAndSwap(false, true) {
		return reload.ErrAlreadyStarted
	}

	if err := d.scheduler.Start(); err != nil {
		return err
	}
	for _, n := range d.notifiers {
		if err := n.Start(d.ctx, d.onNotify); err != nil {
			d.Stop()
			return err
		}
	}
	return nil
}

// Stop shuts down the notifiers and the poll loop
// It blocks until the poll loop has exited and is safe to call more
// than once.
func (d *Dictionary) Stop() {
	if !d.stopped.CompareAndSwap(false, true) {
		return
	}
	d.cancel()
	for _, n := range d.notifiers {
		if err := n.Close(); err != nil {
			d.logger.Warn("closing notifier failed",
				zap.String("dictionary", d.name),
				zap.Error(err),
			)
		}
	}
	d.scheduler.Stop()
}

// Lookup returns the synonyms for term from the current table
func (d *Dictionary) Lookup(term string) ([]string, bool) {
	return d.registry.Get().Lookup(term)
}

// Current returns the currently published table
func (d *Dictionary) Current() *Table {
	return d.registry.Get()
}

// Reload runs one full reload cycle synchronously, bypassing the
// version comparison
func (d *Dictionary) Reload(ctx context.Context) error {
	return d.scheduler.Reload(ctx)
}

// Trigger asks the poll loop to run a cycle now
// It reports whether the request was accepted.
func (d *Dictionary) Trigger() bool {
	return d.scheduler.Trigger()
}

// Status reports the reload state of the dictionary
func (d *Dictionary) Status() reload.Status {
	return d.scheduler.Status()
}

// onNotify is the handler shared by all registered notifiers
func (d *Dictionary) onNotify(context.Context) {
	if !d.scheduler.Trigger() {
		d.logger.Debug("change notification dropped",
			zap.String("dictionary", d.name),
		)
	}
}

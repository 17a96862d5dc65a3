package notify

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/dailyyoga/syndict/logger"
	"github.com/dailyyoga/syndict/routine"
)

// FileWatchNotifier fires the handler when the watched rules file
// changes. The parent directory is watched rather than the file itself
// so atomic writes, where editors replace the file by rename, keep
// being observed.
type FileWatchNotifier struct {
	logger logger.Logger

	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	runner   routine.Runner

	started atomic.Bool
	closed  atomic.Bool
}

// NewFileWatch creates a filesystem-backed notifier for cfg.Path
// The parent directory must exist; the file itself may not yet.
func NewFileWatch(log logger.Logger, cfg *FileWatchConfig) (*FileWatchNotifier, error) {
	if cfg == nil {
		cfg = DefaultFileWatchConfig()
	} else {
		cfg = cfg.MergeDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ErrWatch(err)
	}

	path := filepath.Clean(cfg.Path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, ErrWatch(err)
	}

	return &FileWatchNotifier{
		logger:   log,
		path:     path,
		debounce: cfg.Debounce,
		watcher:  watcher,
		runner:   routine.New(log),
	}, nil
}

// Start launches the watch loop
func (n *FileWatchNotifier) Start(ctx context.Context, handler Handler) error {
	if n.closed.Load() {
		return ErrClosed
	}
	if !n.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	n.runner.GoNamedWithContext(ctx, "fswatch-notify", func(ctx context.Context) {
		n.watchLoop(ctx, handler)
	})

	n.logger.Info("file watch notifier started",
		zap.String("path", n.path),
		zap.Duration("debounce", n.debounce),
	)
	return nil
}

// Close stops the watch loop and releases the watcher
func (n *FileWatchNotifier) Close() error {
	if !n.closed.CompareAndSwap(false, true) {
		return nil
	}

	// closing the watcher closes its channels, which ends the loop
	err := n.watcher.Close()
	n.runner.Wait()
	n.logger.Info("file watch notifier closed", zap.String("path", n.path))
	return err
}

func (n *FileWatchNotifier) watchLoop(ctx context.Context, handler Handler) {
	// the timer is armed on the first relevant event and re-armed on
	// every following one, so a burst collapses into a single fire
	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-n.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != n.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			n.logger.Debug("rules file changed",
				zap.String("path", n.path),
				zap.String("op", event.Op.String()),
			)
			if timer == nil {
				timer = time.NewTimer(n.debounce)
				timerC = timer.C
			} else {
				timer.Reset(n.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			handler(ctx)

		case err, ok := <-n.watcher.Errors:
			if !ok {
				return
			}
			n.logger.Warn("file watcher error", zap.String("path", n.path), zap.Error(err))
		}
	}
}

package notify

import "fmt"

var (
	// ErrAlreadyStarted is returned when Start is called twice
	ErrAlreadyStarted = fmt.Errorf("notify: notifier already started")

	// ErrClosed is returned when starting a closed notifier
	ErrClosed = fmt.Errorf("notify: notifier is closed")
)

// ErrInvalidConfig notifier configuration error
func ErrInvalidConfig(msg string) error {
	return fmt.Errorf("notify: invalid config: %s", msg)
}

// ErrConnection broker connection error
func ErrConnection(err error) error {
	return fmt.Errorf("notify: connection failed: %w", err)
}

// ErrSubscribe topic subscription error
func ErrSubscribe(topics []string, err error) error {
	return fmt.Errorf("notify: subscribe to topics %v failed: %w", topics, err)
}

// ErrAnnounce notification publish error
func ErrAnnounce(err error) error {
	return fmt.Errorf("notify: announce failed: %w", err)
}

// ErrInvalidSpec cron spec parse error
func ErrInvalidSpec(spec string, err error) error {
	return fmt.Errorf("notify: invalid cron spec %q: %w", spec, err)
}

// ErrWatch file watcher error
func ErrWatch(err error) error {
	return fmt.Errorf("notify: file watch failed: %w", err)
}

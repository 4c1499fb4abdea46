package dispatch

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultTickInterval spaces countdown progress callbacks.
const DefaultTickInterval = time.Second

// Countdown runs named, cancellable delays. Each schedule gets its own
// goroutine; onComplete fires exactly once and never after a successful
// Cancel. State is process-local, so pending countdowns are simply lost
// on restart.
type Countdown struct {
	mu       sync.Mutex
	pending  map[string]*countdownEntry
	interval time.Duration
	logger   *slog.Logger
}

type countdownEntry struct {
	cancel chan struct{}
	fired  bool
}

// CountdownOption configures a Countdown.
type CountdownOption func(*Countdown)

// WithTickInterval overrides the spacing of onTick callbacks.
func WithTickInterval(d time.Duration) CountdownOption {
	return func(c *Countdown) { c.interval = d }
}

// NewCountdown creates an empty countdown registry.
func NewCountdown(logger *slog.Logger, opts ...CountdownOption) *Countdown {
	c := &Countdown{
		pending:  make(map[string]*countdownEntry),
		interval: DefaultTickInterval,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Schedule starts a countdown. onTick runs once per interval with the
// remaining duration; onComplete runs when the delay elapses without a
// cancel. A live id fails with ErrAlreadyScheduled.
func (c *Countdown) Schedule(id string, delay time.Duration, onTick func(remaining time.Duration), onComplete func()) error {
	c.mu.Lock()
	if _, ok := c.pending[id]; ok {
		c.mu.Unlock()
		return ErrAlreadyScheduled
	}
	entry := &countdownEntry{cancel: make(chan struct{})}
	c.pending[id] = entry
	c.mu.Unlock()

	go c.run(id, entry, delay, onTick, onComplete)
	return nil
}

func (c *Countdown) run(id string, entry *countdownEntry, delay time.Duration, onTick func(time.Duration), onComplete func()) {
	deadline := time.Now().Add(delay)
	ticker := time.NewTicker(c.interval)
	timer := time.NewTimer(delay)
	defer ticker.Stop()
	defer timer.Stop()

	for {
		select {
		case <-entry.cancel:
			return
		case <-ticker.C:
			if remaining := time.Until(deadline); remaining > 0 && onTick != nil {
				onTick(remaining)
			}
		case <-timer.C:
			// Mark fired under the lock so a racing Cancel either wins
			// before this point or observes the completion.
			c.mu.Lock()
			select {
			case <-entry.cancel:
				c.mu.Unlock()
				return
			default:
			}
			entry.fired = true
			delete(c.pending, id)
			c.mu.Unlock()

			if onComplete != nil {
				onComplete()
			}
			return
		}
	}
}

// Cancel stops a pending countdown. Returns true when the countdown was
// stopped before completion; false when nothing was pending or it
// already fired. Safe to call repeatedly.
func (c *Countdown) Cancel(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.pending[id]
	if !ok || entry.fired {
		return false
	}
	close(entry.cancel)
	delete(c.pending, id)
	return true
}

// Pending reports whether a countdown with the id is live.
func (c *Countdown) Pending(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[id]
	return ok
}

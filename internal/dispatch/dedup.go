// Package dispatch contains the process-local event plumbing that sits
// between the platform gateway and the workflow services: duplicate
// suppression, the acknowledge-then-finalize response gate, and
// cancellable countdowns. Nothing in this package survives a restart.
package dispatch

import (
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultFreshness keeps a margin under the platform's 3s response
	// ceiling so stale redeliveries are dropped before any work starts.
	DefaultFreshness = 2 * time.Second
	// DefaultRetention outlives the platform's redelivery window.
	DefaultRetention = 30 * time.Second

	dedupCapacity   = 100
	dedupEvictBatch = 50
)

// Deduplicator grants at-most-once claims on event IDs. The claim must
// be taken before the handler's first suspension point; everything after
// a successful TryClaim can assume exclusivity within the retention
// window. The set is bounded as a memory cap, not a correctness
// mechanism.
type Deduplicator struct {
	mu        sync.Mutex
	claims    map[string]time.Time
	order     []string
	freshness time.Duration
	retention time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// DedupOption configures a Deduplicator.
type DedupOption func(*Deduplicator)

// WithFreshness overrides the maximum event age accepted.
func WithFreshness(d time.Duration) DedupOption {
	return func(dd *Deduplicator) { dd.freshness = d }
}

// WithRetention overrides how long a claim blocks redeliveries.
func WithRetention(d time.Duration) DedupOption {
	return func(dd *Deduplicator) { dd.retention = d }
}

// WithClock overrides the time source. Tests only.
func WithClock(now func() time.Time) DedupOption {
	return func(dd *Deduplicator) { dd.now = now }
}

// NewDeduplicator creates a Deduplicator with the default freshness and
// retention windows.
func NewDeduplicator(logger *slog.Logger, opts ...DedupOption) *Deduplicator {
	d := &Deduplicator{
		claims:    make(map[string]time.Time),
		freshness: DefaultFreshness,
		retention: DefaultRetention,
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// TryClaim reports whether the caller owns the event. It returns true
// exactly once per ID within the retention window, and false for stale
// events regardless of ID.
func (d *Deduplicator) TryClaim(eventID string, createdAt time.Time) bool {
	now := d.now()
	if now.Sub(createdAt) > d.freshness {
		d.logger.Debug("stale event dropped", "event_id", eventID, "age", now.Sub(createdAt))
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if claimed, ok := d.claims[eventID]; ok && now.Sub(claimed) < d.retention {
		d.logger.Debug("duplicate event dropped", "event_id", eventID)
		return false
	}

	d.claims[eventID] = now
	d.order = append(d.order, eventID)
	d.evictLocked()
	return true
}

// evictLocked drops the oldest claims once the set overflows capacity.
func (d *Deduplicator) evictLocked() {
	if len(d.claims) <= dedupCapacity {
		return
	}
	dropped := 0
	i := 0
	for ; i < len(d.order) && dropped < dedupEvictBatch; i++ {
		if _, ok := d.claims[d.order[i]]; ok {
			delete(d.claims, d.order[i])
			dropped++
		}
	}
	d.order = append(d.order[:0:0], d.order[i:]...)
}

// Len reports the number of live claims. Tests only.
func (d *Deduplicator) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.claims)
}

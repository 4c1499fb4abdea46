package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultAckDeadline is the platform's hard window for the first
	// response to an event.
	DefaultAckDeadline = 3 * time.Second
	// DefaultAckTimeout bounds the platform round trip for an
	// acknowledgement so a hung call cannot eat the whole window.
	DefaultAckTimeout = 1200 * time.Millisecond
)

// Responder delivers the three response shapes the platform supports.
// Reply answers the event directly, Defer acknowledges without content,
// FollowUp delivers content after a Defer.
type Responder interface {
	Reply(ctx context.Context, payload string) error
	Defer(ctx context.Context) error
	FollowUp(ctx context.Context, payload string) error
}

type gateState int

const (
	stateUnacknowledged gateState = iota
	stateDeferred
	stateFinalized
)

// ResponseGate serializes the acknowledge-then-finalize protocol for one
// event. It guarantees at most one delivered response regardless of how
// handler code paths overlap; ordering mistakes come back as typed
// errors the caller logs and swallows.
type ResponseGate struct {
	mu         sync.Mutex
	state      gateState
	createdAt  time.Time
	responder  Responder
	deadline   time.Duration
	ackTimeout time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

// GateOption configures a ResponseGate.
type GateOption func(*ResponseGate)

// WithAckDeadline overrides the first-response window.
func WithAckDeadline(d time.Duration) GateOption {
	return func(g *ResponseGate) { g.deadline = d }
}

// WithAckTimeout overrides the platform round-trip bound.
func WithAckTimeout(d time.Duration) GateOption {
	return func(g *ResponseGate) { g.ackTimeout = d }
}

// WithGateClock overrides the time source. Tests only.
func WithGateClock(now func() time.Time) GateOption {
	return func(g *ResponseGate) { g.now = now }
}

// NewResponseGate creates a gate for one event, anchored at the event's
// creation time.
func NewResponseGate(createdAt time.Time, responder Responder, logger *slog.Logger, opts ...GateOption) *ResponseGate {
	g := &ResponseGate{
		state:      stateUnacknowledged,
		createdAt:  createdAt,
		responder:  responder,
		deadline:   DefaultAckDeadline,
		ackTimeout: DefaultAckTimeout,
		now:        time.Now,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Acknowledge claims the event's first response slot. With withDefer set
// it sends a deferral so the final payload can follow later; without it
// the gate only records that the caller intends to reply directly.
// Fails with ErrDeadlineExceeded once the window has lapsed and with
// ErrAcknowledgeTimeout when the platform call outlives the round-trip
// bound.
func (g *ResponseGate) Acknowledge(ctx context.Context, withDefer bool) error {
	g.mu.Lock()
	if g.state != stateUnacknowledged {
		g.mu.Unlock()
		return ErrInvalidState
	}
	if g.now().Sub(g.createdAt) >= g.deadline {
		g.mu.Unlock()
		return ErrDeadlineExceeded
	}
	if !withDefer {
		g.mu.Unlock()
		return nil
	}
	g.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- g.responder.Defer(ctx)
	}()

	timer := time.NewTimer(g.ackTimeout)
	defer timer.Stop()
	select {
	case err := <-done:
		if err != nil {
			return err
		}
	case <-timer.C:
		return ErrAcknowledgeTimeout
	case <-ctx.Done():
		return ctx.Err()
	}

	g.mu.Lock()
	g.state = stateDeferred
	g.mu.Unlock()
	return nil
}

// Finalize delivers the response payload exactly once. Unacknowledged
// gates reply directly; deferred ones follow up. A second call fails
// with ErrAlreadyFinalized and delivers nothing.
func (g *ResponseGate) Finalize(ctx context.Context, payload string) error {
	g.mu.Lock()
	if g.state == stateFinalized {
		g.mu.Unlock()
		return ErrAlreadyFinalized
	}
	deferred := g.state == stateDeferred
	g.state = stateFinalized
	g.mu.Unlock()

	if deferred {
		return g.responder.FollowUp(ctx, payload)
	}
	return g.responder.Reply(ctx, payload)
}

// Deferred reports whether the gate acknowledged with a deferral.
func (g *ResponseGate) Deferred() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == stateDeferred
}

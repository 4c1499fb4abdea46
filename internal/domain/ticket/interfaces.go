package ticket

import (
	"context"
	"time"
)

// Repository provides persistence for tickets. Create is atomic with
// respect to the one-open-per-user invariant: when an open ticket already
// exists for the user it returns that row together with
// repository.ErrDuplicate. Close re-checks the open status inside the
// write; a concurrent close surfaces as repository.ErrConflict.
// SaveSummary is write-once; a second save for the same ticket is a
// no-op.
type Repository interface {
	Create(ctx context.Context, t *Ticket) (*Ticket, error)
	Get(ctx context.Context, id string) (*Ticket, error)
	GetOpenByUser(ctx context.Context, userID string) (*Ticket, error)
	GetByThread(ctx context.Context, threadID string) (*Ticket, error)
	Close(ctx context.Context, id, closedBy string, closedAt time.Time) error
	AppendMessage(ctx context.Context, m *Message) error
	ListMessages(ctx context.Context, ticketID string) ([]Message, error)
	SaveSummary(ctx context.Context, s *Summary) error
	GetSummary(ctx context.Context, ticketID string) (*Summary, error)
	Stats(ctx context.Context) (*Stats, error)
}

// CloseScheduler runs cancellable close countdowns. Satisfied by
// dispatch.Countdown.
type CloseScheduler interface {
	Schedule(id string, delay time.Duration, onTick func(remaining time.Duration), onComplete func()) error
	Cancel(id string) bool
}

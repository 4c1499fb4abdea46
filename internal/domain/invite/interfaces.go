package invite

import (
	"context"
	"time"

	"github.com/hylexhq/guildflow/internal/domain/process"
)

// Repository provides persistence for invites. CreatePending is atomic
// with respect to the one-pending-per-user invariant: stale pending rows
// for the user are expired inside the same transaction that inserts the
// new row, and a genuine conflict returns the existing pending invite
// together with repository.ErrDuplicate. UpdateStatus re-checks the
// expected current status inside the write; a concurrent transition
// surfaces as repository.ErrConflict.
type Repository interface {
	CreatePending(ctx context.Context, inv *Invite) (*Invite, error)
	Get(ctx context.Context, id string) (*Invite, error)
	GetPendingByUser(ctx context.Context, userID string) (*Invite, error)
	GetByUserMessage(ctx context.Context, userID, messageID string) (*Invite, error)
	GetLatestByUser(ctx context.Context, userID string) (*Invite, error)
	GetByConfirmationMessage(ctx context.Context, confirmationMessageID string) (*Invite, error)
	UpdateStatus(ctx context.Context, id string, from, to Status, respondedAt time.Time, inviteURL *string) error
	SetConfirmationMessage(ctx context.Context, id, channelID, messageID string) error
	ListRecent(ctx context.Context, limit int) ([]Invite, error)
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]Invite, error)
	ExpirePending(ctx context.Context, now time.Time) (int64, error)
	Stats(ctx context.Context, since time.Time) (*Stats, error)
}

// ProcessRepository provides access to the active process.
type ProcessRepository interface {
	GetActive(ctx context.Context) (*process.Process, error)
}

// ParticipantRepository enrolls accepted candidates.
type ParticipantRepository interface {
	Add(ctx context.Context, p *process.Participant) (*process.Participant, error)
	GetByUser(ctx context.Context, processID, userID string) (*process.Participant, error)
}

package interview

import (
	"context"
	"time"

	"github.com/hylexhq/guildflow/internal/domain/process"
)

// FinishUpdate carries everything written when an interview completes.
// The repository applies it together with the participant's new standing
// in a single transaction.
type FinishUpdate struct {
	EndedAt           time.Time
	Result            Result
	Score             int
	Comments          string
	Feedback          string
	DurationMinutes   int
	ParticipantStatus process.ParticipantStatus
}

// Repository provides persistence for interviews. Create is atomic with
// respect to the one-per-participant invariant: when a non-cancelled
// interview already exists for the participant it returns that row
// together with repository.ErrDuplicate. Finish and Cancel re-check the
// in_progress status inside the write; a concurrent transition surfaces
// as repository.ErrConflict.
type Repository interface {
	Create(ctx context.Context, iv *Interview) (*Interview, error)
	Get(ctx context.Context, id string) (*Interview, error)
	GetInProgressByUser(ctx context.Context, processID, userID string) (*Interview, error)
	Finish(ctx context.Context, id string, upd FinishUpdate) error
	Cancel(ctx context.Context, id string, endedAt time.Time) error
	ListByProcess(ctx context.Context, processID string) ([]Interview, error)
	Stats(ctx context.Context, processID string) (*Stats, error)
}

// ProcessRepository provides access to the active process.
type ProcessRepository interface {
	GetActive(ctx context.Context) (*process.Process, error)
}

// ParticipantRepository resolves and advances candidates under interview.
type ParticipantRepository interface {
	GetByUser(ctx context.Context, processID, userID string) (*process.Participant, error)
	UpdateStatus(ctx context.Context, id string, status process.ParticipantStatus, score *int, notes *string) error
}

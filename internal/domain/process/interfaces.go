package process

import (
	"context"
	"time"
)

// Repository provides persistence for processes. Create is atomic with
// respect to the single-active invariant: when an active process already
// exists it returns that row together with repository.ErrDuplicate.
type Repository interface {
	Create(ctx context.Context, proc *Process) (*Process, error)
	Get(ctx context.Context, id string) (*Process, error)
	GetActive(ctx context.Context) (*Process, error)
	End(ctx context.Context, id, endedBy string, endedAt time.Time) error
	List(ctx context.Context, limit int) ([]Process, error)
	Stats(ctx context.Context, processID string) (*Stats, error)
}

// ParticipantRepository provides persistence for participants. Add returns
// the existing row with repository.ErrDuplicate when the (process, user)
// pair is already enrolled.
type ParticipantRepository interface {
	Add(ctx context.Context, p *Participant) (*Participant, error)
	Get(ctx context.Context, id string) (*Participant, error)
	GetByUser(ctx context.Context, processID, userID string) (*Participant, error)
	ListByProcess(ctx context.Context, processID string) ([]Participant, error)
	UpdateStatus(ctx context.Context, id string, status ParticipantStatus, score *int, notes *string) error
}

package process

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hylexhq/guildflow/internal/repository"
)

// Service handles recruitment process operations.
type Service struct {
	processes    Repository
	participants ParticipantRepository
	logger       *slog.Logger
}

// NewService creates a new process service.
func NewService(processes Repository, participants ParticipantRepository, logger *slog.Logger) *Service {
	return &Service{
		processes:    processes,
		participants: participants,
		logger:       logger,
	}
}

// StartRequest defines process start inputs.
type StartRequest struct {
	Name        string
	Description string
	StartedBy   string
}

// Start opens a new recruitment process. When another process is already
// active, no row is created and the conflicting process is returned.
func (s *Service) Start(ctx context.Context, req StartRequest) (*Process, *ConflictInfo, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.StartedBy) == "" {
		return nil, nil, ErrInvalidInput
	}

	proc := &Process{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Status:      StatusActive,
		StartedBy:   req.StartedBy,
		StartedAt:   time.Now(),
	}

	existing, err := s.processes.Create(ctx, proc)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) && existing != nil {
			return nil, &ConflictInfo{
				Existing: *existing,
				Message:  fmt.Sprintf("process %q is already active", existing.Name),
			}, nil
		}
		return nil, nil, fmt.Errorf("creating process: %w", err)
	}

	s.logger.Info("process started", "process_id", proc.ID, "name", proc.Name, "started_by", proc.StartedBy)
	return proc, nil, nil
}

// End finalizes the active process. A completed process is never reopened.
func (s *Service) End(ctx context.Context, endedBy string) (*Process, error) {
	proc, err := s.processes.GetActive(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveProcess
		}
		return nil, fmt.Errorf("loading active process: %w", err)
	}

	endedAt := time.Now()
	if err := s.processes.End(ctx, proc.ID, endedBy, endedAt); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Already ended by a concurrent finalize.
			return nil, ErrNoActiveProcess
		}
		return nil, fmt.Errorf("ending process: %w", err)
	}

	proc.Status = StatusCompleted
	proc.EndedBy = &endedBy
	proc.EndedAt = &endedAt

	s.logger.Info("process ended", "process_id", proc.ID, "ended_by", endedBy)
	return proc, nil
}

// Active returns the currently active process.
func (s *Service) Active(ctx context.Context) (*Process, error) {
	proc, err := s.processes.GetActive(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveProcess
		}
		return nil, fmt.Errorf("loading active process: %w", err)
	}
	return proc, nil
}

// EnrollRequest defines direct enrollment inputs.
type EnrollRequest struct {
	UserID   string
	Username string
	Phase    string
}

// Enroll adds a candidate to the active process. Enrollment is
// create-if-absent: enrolling an existing participant returns the
// existing row unchanged.
func (s *Service) Enroll(ctx context.Context, req EnrollRequest) (*Participant, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, ErrInvalidInput
	}

	proc, err := s.Active(ctx)
	if err != nil {
		return nil, err
	}

	p := &Participant{
		ID:        uuid.NewString(),
		ProcessID: proc.ID,
		UserID:    req.UserID,
		Username:  req.Username,
		Status:    ParticipantPending,
		Phase:     req.Phase,
		JoinedAt:  time.Now(),
	}

	existing, err := s.participants.Add(ctx, p)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) && existing != nil {
			return existing, nil
		}
		return nil, fmt.Errorf("enrolling participant: %w", err)
	}

	s.logger.Info("participant enrolled", "process_id", proc.ID, "user_id", req.UserID)
	return p, nil
}

// Participants lists candidates in a process.
func (s *Service) Participants(ctx context.Context, processID string) ([]Participant, error) {
	return s.participants.ListByProcess(ctx, processID)
}

// List returns recent processes, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]Process, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.processes.List(ctx, limit)
}

// Stats returns the participant projection for a process.
func (s *Service) Stats(ctx context.Context, processID string) (*Stats, error) {
	stats, err := s.processes.Stats(ctx, processID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProcessNotFound
		}
		return nil, fmt.Errorf("loading process stats: %w", err)
	}
	return stats, nil
}

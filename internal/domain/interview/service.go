package interview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hylexhq/guildflow/internal/domain/process"
	"github.com/hylexhq/guildflow/internal/repository"
)

// Service handles the interview workflow.
type Service struct {
	interviews   Repository
	processes    ProcessRepository
	participants ParticipantRepository
	logger       *slog.Logger
}

// NewService creates a new interview service.
func NewService(interviews Repository, processes ProcessRepository, participants ParticipantRepository, logger *slog.Logger) *Service {
	return &Service{
		interviews:   interviews,
		processes:    processes,
		participants: participants,
		logger:       logger,
	}
}

// BeginRequest defines interview start inputs.
type BeginRequest struct {
	UserID          string
	InterviewerID   string
	InterviewerName string
}

// Begin opens an interview with a participant of the active process and
// moves the participant to interviewing. A participant with an existing
// non-cancelled interview yields a conflict, not a second row.
func (s *Service) Begin(ctx context.Context, req BeginRequest) (*Interview, *ConflictInfo, error) {
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.InterviewerID) == "" {
		return nil, nil, ErrInvalidInput
	}

	proc, err := s.processes.GetActive(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, process.ErrNoActiveProcess
		}
		return nil, nil, fmt.Errorf("loading active process: %w", err)
	}

	p, err := s.participants.GetByUser(ctx, proc.ID, req.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, process.ErrParticipantNotFound
		}
		return nil, nil, fmt.Errorf("loading participant: %w", err)
	}

	iv := &Interview{
		ID:              uuid.NewString(),
		ProcessID:       proc.ID,
		ParticipantID:   p.ID,
		UserID:          p.UserID,
		Username:        p.Username,
		InterviewerID:   req.InterviewerID,
		InterviewerName: req.InterviewerName,
		Status:          StatusInProgress,
		Result:          ResultPending,
		StartedAt:       time.Now(),
	}

	existing, err := s.interviews.Create(ctx, iv)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) && existing != nil {
			return nil, &ConflictInfo{
				Existing: *existing,
				Message:  fmt.Sprintf("an interview for %s already exists", p.Username),
			}, nil
		}
		return nil, nil, fmt.Errorf("creating interview: %w", err)
	}

	if err := s.participants.UpdateStatus(ctx, p.ID, process.ParticipantInterviewing, nil, nil); err != nil {
		s.logger.Error("advancing participant to interviewing", "interview_id", iv.ID, "error", err)
	}

	s.logger.Info("interview started", "interview_id", iv.ID, "user_id", p.UserID, "interviewer_id", req.InterviewerID)
	return iv, nil, nil
}

// FinishRequest defines interview completion inputs.
type FinishRequest struct {
	UserID   string
	Result   string
	Score    int
	Comments string
	Feedback string
}

// Finish completes the participant's in-progress interview and records
// the verdict. The interview row and the participant's standing, score,
// and notes change in one transaction; neither is written without the
// other.
func (s *Service) Finish(ctx context.Context, req FinishRequest) (*Interview, error) {
	result, err := parseResult(req.Result)
	if err != nil {
		return nil, err
	}
	if req.Score < 0 || req.Score > 10 {
		return nil, ErrInvalidScore
	}

	proc, err := s.processes.GetActive(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, process.ErrNoActiveProcess
		}
		return nil, fmt.Errorf("loading active process: %w", err)
	}

	iv, err := s.interviews.GetInProgressByUser(ctx, proc.ID, req.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveInterview
		}
		return nil, fmt.Errorf("loading interview: %w", err)
	}

	endedAt := time.Now()
	duration := int(math.Round(endedAt.Sub(iv.StartedAt).Minutes()))

	upd := FinishUpdate{
		EndedAt:           endedAt,
		Result:            result,
		Score:             req.Score,
		Comments:          req.Comments,
		Feedback:          req.Feedback,
		DurationMinutes:   duration,
		ParticipantStatus: participantStatusFor(result),
	}
	if err := s.interviews.Finish(ctx, iv.ID, upd); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrNoActiveInterview
		}
		return nil, fmt.Errorf("finishing interview: %w", err)
	}

	iv.Status = StatusCompleted
	iv.EndedAt = &endedAt
	iv.Result = result
	score := req.Score
	iv.Score = &score
	iv.Comments = req.Comments
	iv.Feedback = req.Feedback
	iv.DurationMinutes = &duration

	s.logger.Info("interview finished",
		"interview_id", iv.ID,
		"user_id", iv.UserID,
		"result", string(result),
		"score", req.Score,
		"duration_minutes", duration,
	)
	return iv, nil
}

// Cancel abandons the participant's in-progress interview and returns
// the participant to pending. A cancelled interview does not block a
// later one.
func (s *Service) Cancel(ctx context.Context, userID string) (*Interview, error) {
	proc, err := s.processes.GetActive(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, process.ErrNoActiveProcess
		}
		return nil, fmt.Errorf("loading active process: %w", err)
	}

	iv, err := s.interviews.GetInProgressByUser(ctx, proc.ID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveInterview
		}
		return nil, fmt.Errorf("loading interview: %w", err)
	}

	endedAt := time.Now()
	if err := s.interviews.Cancel(ctx, iv.ID, endedAt); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrNoActiveInterview
		}
		return nil, fmt.Errorf("cancelling interview: %w", err)
	}
	iv.Status = StatusCancelled
	iv.EndedAt = &endedAt

	if err := s.participants.UpdateStatus(ctx, iv.ParticipantID, process.ParticipantPending, nil, nil); err != nil {
		s.logger.Error("returning participant to pending", "interview_id", iv.ID, "error", err)
	}

	s.logger.Info("interview cancelled", "interview_id", iv.ID, "user_id", iv.UserID)
	return iv, nil
}

// ByUser returns the participant's in-progress interview in the active
// process.
func (s *Service) ByUser(ctx context.Context, userID string) (*Interview, error) {
	proc, err := s.processes.GetActive(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, process.ErrNoActiveProcess
		}
		return nil, fmt.Errorf("loading active process: %w", err)
	}
	iv, err := s.interviews.GetInProgressByUser(ctx, proc.ID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveInterview
		}
		return nil, fmt.Errorf("loading interview: %w", err)
	}
	return iv, nil
}

// ListByProcess lists a process's interviews, newest first.
func (s *Service) ListByProcess(ctx context.Context, processID string) ([]Interview, error) {
	return s.interviews.ListByProcess(ctx, processID)
}

// Stats returns the interview projection for a process.
func (s *Service) Stats(ctx context.Context, processID string) (*Stats, error) {
	stats, err := s.interviews.Stats(ctx, processID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, process.ErrProcessNotFound
		}
		return nil, fmt.Errorf("loading interview stats: %w", err)
	}
	return stats, nil
}

func parseResult(raw string) (Result, error) {
	switch Result(strings.ToLower(strings.TrimSpace(raw))) {
	case ResultApproved:
		return ResultApproved, nil
	case ResultRejected:
		return ResultRejected, nil
	default:
		return "", ErrInvalidResult
	}
}

func participantStatusFor(r Result) process.ParticipantStatus {
	if r == ResultApproved {
		return process.ParticipantApproved
	}
	return process.ParticipantRejected
}

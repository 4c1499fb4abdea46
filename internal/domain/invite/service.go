package invite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hylexhq/guildflow/internal/domain/process"
	"github.com/hylexhq/guildflow/internal/platform"
	"github.com/hylexhq/guildflow/internal/repository"
)

// ErrAlreadyParticipant indicates the candidate is already enrolled in the
// active process, so a fresh invite would be redundant.
var ErrAlreadyParticipant = errors.New("user already participates in the active process")

// Service handles the invite workflow.
type Service struct {
	invites      Repository
	processes    ProcessRepository
	participants ParticipantRepository
	notifier     platform.Notifier
	links        platform.LinkIssuer
	ttl          time.Duration
	logger       *slog.Logger
}

// NewService creates a new invite service. ttl bounds how long an invite
// stays pending before the expiry sweep collects it.
func NewService(
	invites Repository,
	processes ProcessRepository,
	participants ParticipantRepository,
	notifier platform.Notifier,
	links platform.LinkIssuer,
	ttl time.Duration,
	logger *slog.Logger,
) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		invites:      invites,
		processes:    processes,
		participants: participants,
		notifier:     notifier,
		links:        links,
		ttl:          ttl,
		logger:       logger,
	}
}

// SendRequest defines invite dispatch inputs.
type SendRequest struct {
	UserID   string
	Username string
	SentBy   string
	Message  string
}

// SendResult holds the persisted invite and delivery outcome. Degraded is
// set when the direct message could not be delivered but the invite row
// was recorded anyway.
type SendResult struct {
	Invite        *Invite
	Degraded      bool
	DeliveryError string
}

// Send dispatches an invitation to a candidate. Requires an active
// process and no existing enrollment; at most one pending invite may
// exist per candidate, enforced atomically by the store.
func (s *Service) Send(ctx context.Context, req SendRequest) (*SendResult, *ConflictInfo, error) {
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.SentBy) == "" {
		return nil, nil, ErrInvalidInput
	}

	proc, err := s.processes.GetActive(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, process.ErrNoActiveProcess
		}
		return nil, nil, fmt.Errorf("loading active process: %w", err)
	}

	if _, err := s.participants.GetByUser(ctx, proc.ID, req.UserID); err == nil {
		return nil, nil, ErrAlreadyParticipant
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, fmt.Errorf("checking enrollment: %w", err)
	}

	now := time.Now()
	messageID := MessageUnavailable
	degraded := false
	deliveryErr := ""

	handle, err := s.notifier.SendDirect(ctx, req.UserID, req.Message)
	if err != nil {
		// The recruitment action must survive delivery failures; record
		// the invite with the sentinel locator and report degraded success.
		degraded = true
		deliveryErr = err.Error()
		s.logger.Warn("invite delivery failed", "user_id", req.UserID, "error", err)
	} else {
		messageID = handle.MessageID
	}

	expiresAt := now.Add(s.ttl)
	inv := &Invite{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Username:  req.Username,
		MessageID: messageID,
		SentBy:    req.SentBy,
		Status:    StatusPending,
		SentAt:    now,
		ExpiresAt: &expiresAt,
	}

	existing, err := s.invites.CreatePending(ctx, inv)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) && existing != nil {
			return nil, &ConflictInfo{
				Existing: *existing,
				Message:  fmt.Sprintf("a pending invite for %s already exists", req.Username),
			}, nil
		}
		return nil, nil, fmt.Errorf("creating invite: %w", err)
	}

	s.logger.Info("invite sent", "invite_id", inv.ID, "user_id", req.UserID, "degraded", degraded)
	return &SendResult{Invite: inv, Degraded: degraded, DeliveryError: deliveryErr}, nil, nil
}

// RespondRequest defines candidate response inputs.
type RespondRequest struct {
	UserID    string
	MessageID string
	Accept    bool
}

// RespondResult holds the response outcome. InviteURL is nil when the
// link issuer was unavailable; Participant is nil when no process was
// active at acceptance time.
type RespondResult struct {
	Invite      *Invite
	InviteURL   *string
	Participant *process.Participant
	Degraded    bool
}

// Respond records a candidate's accept or decline. The status write
// re-checks that the invite is still pending, so a concurrent sweep or
// duplicate click cannot be silently overwritten.
func (s *Service) Respond(ctx context.Context, req RespondRequest) (*RespondResult, error) {
	inv, err := s.invites.GetByUserMessage(ctx, req.UserID, req.MessageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("loading invite: %w", err)
	}

	if inv.Status != StatusPending {
		return nil, ErrAlreadyResponded
	}

	now := time.Now()
	if inv.Expired(now) {
		if err := s.invites.UpdateStatus(ctx, inv.ID, StatusPending, StatusExpired, now, nil); err != nil && !errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("expiring invite: %w", err)
		}
		return nil, ErrInviteExpired
	}

	if !req.Accept {
		if err := s.invites.UpdateStatus(ctx, inv.ID, StatusPending, StatusDeclined, now, nil); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return nil, ErrAlreadyResponded
			}
			return nil, fmt.Errorf("declining invite: %w", err)
		}
		inv.Status = StatusDeclined
		inv.RespondedAt = &now
		s.logger.Info("invite declined", "invite_id", inv.ID, "user_id", inv.UserID)
		return &RespondResult{Invite: inv}, nil
	}

	var inviteURL *string
	degraded := false
	url, err := s.links.CreateSingleUseLink(ctx, "community-join", s.ttl)
	if err != nil {
		degraded = true
		s.logger.Warn("access link issuance failed", "invite_id", inv.ID, "error", err)
	} else {
		inviteURL = &url
	}

	if err := s.invites.UpdateStatus(ctx, inv.ID, StatusPending, StatusAccepted, now, inviteURL); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyResponded
		}
		return nil, fmt.Errorf("accepting invite: %w", err)
	}
	inv.Status = StatusAccepted
	inv.RespondedAt = &now
	inv.InviteURL = inviteURL

	participant := s.enroll(ctx, inv)

	s.logger.Info("invite accepted", "invite_id", inv.ID, "user_id", inv.UserID, "degraded", degraded)
	return &RespondResult{
		Invite:      inv,
		InviteURL:   inviteURL,
		Participant: participant,
		Degraded:    degraded,
	}, nil
}

// enroll adds the candidate to the active process, if any. Enrollment is
// create-if-absent; a duplicate add returns the existing participant.
func (s *Service) enroll(ctx context.Context, inv *Invite) *process.Participant {
	proc, err := s.processes.GetActive(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("loading active process for enrollment", "error", err)
		}
		return nil
	}

	p := &process.Participant{
		ID:        uuid.NewString(),
		ProcessID: proc.ID,
		UserID:    inv.UserID,
		Username:  inv.Username,
		Status:    process.ParticipantPending,
		JoinedAt:  time.Now(),
	}
	existing, err := s.participants.Add(ctx, p)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) && existing != nil {
			return existing
		}
		s.logger.Error("enrolling participant", "invite_id", inv.ID, "error", err)
		return nil
	}
	return p
}

// ConfirmEntry marks an accepted invite as entered, typically when the
// candidate joins the community.
func (s *Service) ConfirmEntry(ctx context.Context, userID string) (*Invite, error) {
	return s.transitionLatest(ctx, userID, StatusAccepted, StatusEntered)
}

// ConfirmMember marks an entered invite as confirmed after staff review.
func (s *Service) ConfirmMember(ctx context.Context, userID string) (*Invite, error) {
	return s.transitionLatest(ctx, userID, StatusEntered, StatusConfirmed)
}

func (s *Service) transitionLatest(ctx context.Context, userID string, from, to Status) (*Invite, error) {
	inv, err := s.invites.GetLatestByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("loading invite: %w", err)
	}
	if inv.Status != from {
		return nil, ErrAlreadyResponded
	}

	now := time.Now()
	if err := s.invites.UpdateStatus(ctx, inv.ID, from, to, now, nil); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyResponded
		}
		return nil, fmt.Errorf("updating invite: %w", err)
	}
	inv.Status = to
	inv.RespondedAt = &now
	return inv, nil
}

// Cancel withdraws a pending invite.
func (s *Service) Cancel(ctx context.Context, inviteID, cancelledBy string) (*Invite, error) {
	inv, err := s.invites.Get(ctx, inviteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("loading invite: %w", err)
	}
	if inv.Status != StatusPending {
		return nil, ErrAlreadyResponded
	}

	now := time.Now()
	if err := s.invites.UpdateStatus(ctx, inv.ID, StatusPending, StatusCancelled, now, nil); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyResponded
		}
		return nil, fmt.Errorf("cancelling invite: %w", err)
	}
	inv.Status = StatusCancelled
	inv.RespondedAt = &now

	s.logger.Info("invite cancelled", "invite_id", inv.ID, "cancelled_by", cancelledBy)
	return inv, nil
}

// TrackConfirmationMessage records the locator of a status display so it
// can be edited after the platform's reply window has closed.
func (s *Service) TrackConfirmationMessage(ctx context.Context, inviteID, channelID, messageID string) error {
	if err := s.invites.SetConfirmationMessage(ctx, inviteID, channelID, messageID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInviteNotFound
		}
		return fmt.Errorf("tracking confirmation message: %w", err)
	}
	return nil
}

// ByConfirmationMessage resolves the invite behind a status display.
func (s *Service) ByConfirmationMessage(ctx context.Context, confirmationMessageID string) (*Invite, error) {
	inv, err := s.invites.GetByConfirmationMessage(ctx, confirmationMessageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("loading invite: %w", err)
	}
	return inv, nil
}

// ExpireSweep transitions overdue pending invites to expired. The guard
// on the current status lives inside the store's write, so a sweep racing
// an accept never clobbers it. Returns the number of invites expired.
func (s *Service) ExpireSweep(ctx context.Context) (int64, error) {
	n, err := s.invites.ExpirePending(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("expiring invites: %w", err)
	}
	if n > 0 {
		s.logger.Info("invite sweep", "expired", n)
	}
	return n, nil
}

// Recent returns the latest invites, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]Invite, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.invites.ListRecent(ctx, limit)
}

// RecentByUser returns the latest invites for one candidate.
func (s *Service) RecentByUser(ctx context.Context, userID string, limit int) ([]Invite, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.invites.ListRecentByUser(ctx, userID, limit)
}

// Stats returns invite counts over the trailing number of days.
func (s *Service) Stats(ctx context.Context, days int) (*Stats, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)
	stats, err := s.invites.Stats(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("loading invite stats: %w", err)
	}
	return stats, nil
}

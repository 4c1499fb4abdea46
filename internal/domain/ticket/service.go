package ticket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hylexhq/guildflow/internal/platform"
	"github.com/hylexhq/guildflow/internal/repository"
)

// Service handles the support ticket workflow.
type Service struct {
	tickets    Repository
	threads    platform.Threads
	notifier   platform.Notifier
	scheduler  CloseScheduler
	closeDelay time.Duration
	logger     *slog.Logger
}

// NewService creates a new ticket service. closeDelay is how long a
// requested close counts down before it fires.
func NewService(
	tickets Repository,
	threads platform.Threads,
	notifier platform.Notifier,
	scheduler CloseScheduler,
	closeDelay time.Duration,
	logger *slog.Logger,
) *Service {
	if closeDelay <= 0 {
		closeDelay = 10 * time.Second
	}
	return &Service{
		tickets:    tickets,
		threads:    threads,
		notifier:   notifier,
		scheduler:  scheduler,
		closeDelay: closeDelay,
		logger:     logger,
	}
}

// OpenRequest defines ticket open inputs.
type OpenRequest struct {
	UserID          string
	Username        string
	DisplayName     string
	Reason          string
	ParentChannelID string
}

// Open creates a support ticket backed by a fresh thread. The thread is
// created first; when the store then reports an existing open ticket for
// the user, the fresh thread is deleted and the existing ticket is
// returned as a conflict.
func (s *Service) Open(ctx context.Context, req OpenRequest) (*Ticket, *ConflictInfo, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, nil, ErrInvalidInput
	}

	title := fmt.Sprintf("ticket-%s", req.Username)
	threadID, err := s.threads.CreateThread(ctx, req.ParentChannelID, title)
	if err != nil {
		return nil, nil, fmt.Errorf("creating thread: %w", err)
	}

	t := &Ticket{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Reason:      req.Reason,
		ThreadID:    threadID,
		Status:      StatusOpen,
		CreatedAt:   time.Now(),
	}

	existing, err := s.tickets.Create(ctx, t)
	if err != nil {
		if delErr := s.threads.DeleteThread(ctx, threadID); delErr != nil {
			s.logger.Warn("rolling back orphan thread", "thread_id", threadID, "error", delErr)
		}
		if errors.Is(err, repository.ErrDuplicate) && existing != nil {
			return nil, &ConflictInfo{
				Existing: *existing,
				Message:  fmt.Sprintf("an open ticket for %s already exists", req.Username),
			}, nil
		}
		return nil, nil, fmt.Errorf("creating ticket: %w", err)
	}

	s.logger.Info("ticket opened", "ticket_id", t.ID, "user_id", t.UserID, "thread_id", threadID)
	return t, nil, nil
}

// RelayRequest defines message relay inputs. Exactly one of ThreadID or
// UserID selects the ticket: staff messages arrive addressed by thread,
// user messages by sender.
type RelayRequest struct {
	ThreadID    string
	UserID      string
	AuthorID    string
	AuthorName  string
	Content     string
	Kind        MessageKind
	Attachments *string
	Embeds      *string
}

// Relay appends a message to the ticket transcript and forwards it to
// the other side of the conversation. Closed tickets reject relays.
func (s *Service) Relay(ctx context.Context, req RelayRequest) (*Message, error) {
	t, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	if t.Status != StatusOpen {
		return nil, ErrTicketClosed
	}

	m := &Message{
		ID:          uuid.NewString(),
		TicketID:    t.ID,
		AuthorID:    req.AuthorID,
		AuthorName:  req.AuthorName,
		Content:     req.Content,
		Kind:        req.Kind,
		Attachments: req.Attachments,
		Embeds:      req.Embeds,
		CreatedAt:   time.Now(),
	}
	if err := s.tickets.AppendMessage(ctx, m); err != nil {
		return nil, fmt.Errorf("appending message: %w", err)
	}

	forward := fmt.Sprintf("%s: %s", req.AuthorName, req.Content)
	switch req.Kind {
	case KindStaff:
		if _, err := s.notifier.SendDirect(ctx, t.UserID, forward); err != nil {
			s.logger.Warn("forwarding to requester failed", "ticket_id", t.ID, "error", err)
		}
	case KindUser:
		if _, err := s.notifier.SendToChannel(ctx, t.ThreadID, forward); err != nil {
			s.logger.Warn("forwarding to thread failed", "ticket_id", t.ID, "error", err)
		}
	}

	return m, nil
}

func (s *Service) resolve(ctx context.Context, req RelayRequest) (*Ticket, error) {
	var (
		t   *Ticket
		err error
	)
	switch {
	case req.ThreadID != "":
		t, err = s.tickets.GetByThread(ctx, req.ThreadID)
	case req.UserID != "":
		t, err = s.tickets.GetOpenByUser(ctx, req.UserID)
	default:
		return nil, ErrInvalidInput
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("loading ticket: %w", err)
	}
	return t, nil
}

// RequestClose starts a cancellable countdown after which the ticket is
// closed. A second request while one is pending fails with
// ErrClosePending.
func (s *Service) RequestClose(ctx context.Context, ticketID, requestedBy string) error {
	t, err := s.tickets.Get(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTicketNotFound
		}
		return fmt.Errorf("loading ticket: %w", err)
	}
	if t.Status != StatusOpen {
		return ErrTicketClosed
	}

	threadID := t.ThreadID
	err = s.scheduler.Schedule(t.ID, s.closeDelay,
		func(remaining time.Duration) {
			msg := fmt.Sprintf("closing in %d seconds, send cancel to keep it open", int(remaining.Seconds()))
			if _, err := s.notifier.SendToChannel(context.Background(), threadID, msg); err != nil {
				s.logger.Warn("countdown notice failed", "ticket_id", t.ID, "error", err)
			}
		},
		func() {
			if _, err := s.Close(context.Background(), t.ID, requestedBy); err != nil && !errors.Is(err, ErrTicketClosed) {
				s.logger.Error("countdown close failed", "ticket_id", t.ID, "error", err)
			}
		},
	)
	if err != nil {
		return ErrClosePending
	}

	s.logger.Info("ticket close scheduled", "ticket_id", t.ID, "requested_by", requestedBy, "delay", s.closeDelay)
	return nil
}

// CancelClose stops a pending close countdown. Returns false when no
// countdown was pending, including when it already fired.
func (s *Service) CancelClose(ctx context.Context, ticketID string) (bool, error) {
	t, err := s.tickets.Get(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrTicketNotFound
		}
		return false, fmt.Errorf("loading ticket: %w", err)
	}

	cancelled := s.scheduler.Cancel(t.ID)
	if cancelled {
		s.logger.Info("ticket close cancelled", "ticket_id", t.ID)
	}
	return cancelled, nil
}

// Close finalizes a ticket. The transcript summary is archived and the
// requester notified before the status flips; the thread is released
// last. Closing an already closed ticket fails before any side effect.
func (s *Service) Close(ctx context.Context, ticketID, closedBy string) (*Summary, error) {
	t, err := s.tickets.Get(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("loading ticket: %w", err)
	}
	if t.Status != StatusOpen {
		return nil, ErrTicketClosed
	}

	messages, err := s.tickets.ListMessages(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("loading transcript: %w", err)
	}

	closedAt := time.Now()
	summary := buildSummary(t, messages, closedBy, closedAt)
	if err := s.tickets.SaveSummary(ctx, summary); err != nil {
		return nil, fmt.Errorf("saving summary: %w", err)
	}

	notice := fmt.Sprintf("your ticket %q has been closed", t.Reason)
	if _, err := s.notifier.SendDirect(ctx, t.UserID, notice); err != nil {
		s.logger.Warn("close notice failed", "ticket_id", t.ID, "error", err)
	}

	if err := s.tickets.Close(ctx, t.ID, closedBy, closedAt); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrTicketClosed
		}
		return nil, fmt.Errorf("closing ticket: %w", err)
	}

	s.scheduler.Cancel(t.ID)

	if err := s.threads.ArchiveThread(ctx, t.ThreadID); err != nil {
		s.logger.Warn("archiving thread failed", "ticket_id", t.ID, "thread_id", t.ThreadID, "error", err)
	}

	s.logger.Info("ticket closed", "ticket_id", t.ID, "closed_by", closedBy, "messages", summary.TotalMessages)
	return summary, nil
}

func buildSummary(t *Ticket, messages []Message, closedBy string, closedAt time.Time) *Summary {
	staff, user := 0, 0
	for _, m := range messages {
		switch m.Kind {
		case KindStaff:
			staff++
		case KindUser:
			user++
		}
	}
	return &Summary{
		TicketID:          t.ID,
		UserID:            t.UserID,
		Username:          t.Username,
		DisplayName:       t.DisplayName,
		Reason:            t.Reason,
		CreatedAt:         t.CreatedAt,
		ClosedAt:          closedAt,
		ClosedBy:          closedBy,
		TotalMessages:     len(messages),
		StaffMessages:     staff,
		UserMessages:      user,
		ResolutionMinutes: int(math.Round(closedAt.Sub(t.CreatedAt).Minutes())),
	}
}

// History returns a ticket's transcript in order of arrival.
func (s *Service) History(ctx context.Context, ticketID string) ([]Message, error) {
	if _, err := s.tickets.Get(ctx, ticketID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("loading ticket: %w", err)
	}
	return s.tickets.ListMessages(ctx, ticketID)
}

// Summary returns the archival record of a closed ticket.
func (s *Service) Summary(ctx context.Context, ticketID string) (*Summary, error) {
	sum, err := s.tickets.GetSummary(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("loading summary: %w", err)
	}
	return sum, nil
}

// Stats returns the ticket projection.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	stats, err := s.tickets.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading ticket stats: %w", err)
	}
	return stats, nil
}

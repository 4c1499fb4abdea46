// Package mocks provides testify mocks for the repository interfaces
// consumed by the workflow services.
package mocks

import (
	"context"
	"time"

	"github.com/hylexhq/guildflow/internal/domain/interview"
	"github.com/hylexhq/guildflow/internal/domain/invite"
	"github.com/hylexhq/guildflow/internal/domain/process"
	"github.com/hylexhq/guildflow/internal/domain/ticket"
	"github.com/stretchr/testify/mock"
)

// InviteRepository is a mock for invite.Repository.
type InviteRepository struct {
	mock.Mock
}

func (m *InviteRepository) CreatePending(ctx context.Context, inv *invite.Invite) (*invite.Invite, error) {
	args := m.Called(ctx, inv)
	if existing, ok := args.Get(0).(*invite.Invite); ok {
		return existing, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InviteRepository) Get(ctx context.Context, id string) (*invite.Invite, error) {
	args := m.Called(ctx, id)
	if inv, ok := args.Get(0).(*invite.Invite); ok {
		return inv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InviteRepository) GetPendingByUser(ctx context.Context, userID string) (*invite.Invite, error) {
	args := m.Called(ctx, userID)
	if inv, ok := args.Get(0).(*invite.Invite); ok {
		return inv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InviteRepository) GetByUserMessage(ctx context.Context, userID, messageID string) (*invite.Invite, error) {
	args := m.Called(ctx, userID, messageID)
	if inv, ok := args.Get(0).(*invite.Invite); ok {
		return inv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InviteRepository) GetLatestByUser(ctx context.Context, userID string) (*invite.Invite, error) {
	args := m.Called(ctx, userID)
	if inv, ok := args.Get(0).(*invite.Invite); ok {
		return inv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InviteRepository) GetByConfirmationMessage(ctx context.Context, confirmationMessageID string) (*invite.Invite, error) {
	args := m.Called(ctx, confirmationMessageID)
	if inv, ok := args.Get(0).(*invite.Invite); ok {
		return inv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InviteRepository) UpdateStatus(ctx context.Context, id string, from, to invite.Status, respondedAt time.Time, inviteURL *string) error {
	args := m.Called(ctx, id, from, to, respondedAt, inviteURL)
	return args.Error(0)
}

func (m *InviteRepository) SetConfirmationMessage(ctx context.Context, id, channelID, messageID string) error {
	args := m.Called(ctx, id, channelID, messageID)
	return args.Error(0)
}

func (m *InviteRepository) ListRecent(ctx context.Context, limit int) ([]invite.Invite, error) {
	args := m.Called(ctx, limit)
	if list, ok := args.Get(0).([]invite.Invite); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InviteRepository) ListRecentByUser(ctx context.Context, userID string, limit int) ([]invite.Invite, error) {
	args := m.Called(ctx, userID, limit)
	if list, ok := args.Get(0).([]invite.Invite); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InviteRepository) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *InviteRepository) Stats(ctx context.Context, since time.Time) (*invite.Stats, error) {
	args := m.Called(ctx, since)
	if stats, ok := args.Get(0).(*invite.Stats); ok {
		return stats, args.Error(1)
	}
	return nil, args.Error(1)
}

// ProcessRepository is a mock for process.Repository.
type ProcessRepository struct {
	mock.Mock
}

func (m *ProcessRepository) Create(ctx context.Context, proc *process.Process) (*process.Process, error) {
	args := m.Called(ctx, proc)
	if existing, ok := args.Get(0).(*process.Process); ok {
		return existing, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProcessRepository) Get(ctx context.Context, id string) (*process.Process, error) {
	args := m.Called(ctx, id)
	if proc, ok := args.Get(0).(*process.Process); ok {
		return proc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProcessRepository) GetActive(ctx context.Context) (*process.Process, error) {
	args := m.Called(ctx)
	if proc, ok := args.Get(0).(*process.Process); ok {
		return proc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProcessRepository) End(ctx context.Context, id, endedBy string, endedAt time.Time) error {
	args := m.Called(ctx, id, endedBy, endedAt)
	return args.Error(0)
}

func (m *ProcessRepository) List(ctx context.Context, limit int) ([]process.Process, error) {
	args := m.Called(ctx, limit)
	if list, ok := args.Get(0).([]process.Process); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProcessRepository) Stats(ctx context.Context, processID string) (*process.Stats, error) {
	args := m.Called(ctx, processID)
	if stats, ok := args.Get(0).(*process.Stats); ok {
		return stats, args.Error(1)
	}
	return nil, args.Error(1)
}

// ParticipantRepository is a mock for process.ParticipantRepository.
type ParticipantRepository struct {
	mock.Mock
}

func (m *ParticipantRepository) Add(ctx context.Context, p *process.Participant) (*process.Participant, error) {
	args := m.Called(ctx, p)
	if existing, ok := args.Get(0).(*process.Participant); ok {
		return existing, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ParticipantRepository) Get(ctx context.Context, id string) (*process.Participant, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*process.Participant); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ParticipantRepository) GetByUser(ctx context.Context, processID, userID string) (*process.Participant, error) {
	args := m.Called(ctx, processID, userID)
	if p, ok := args.Get(0).(*process.Participant); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ParticipantRepository) ListByProcess(ctx context.Context, processID string) ([]process.Participant, error) {
	args := m.Called(ctx, processID)
	if list, ok := args.Get(0).([]process.Participant); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ParticipantRepository) UpdateStatus(ctx context.Context, id string, status process.ParticipantStatus, score *int, notes *string) error {
	args := m.Called(ctx, id, status, score, notes)
	return args.Error(0)
}

// InterviewRepository is a mock for interview.Repository.
type InterviewRepository struct {
	mock.Mock
}

func (m *InterviewRepository) Create(ctx context.Context, iv *interview.Interview) (*interview.Interview, error) {
	args := m.Called(ctx, iv)
	if existing, ok := args.Get(0).(*interview.Interview); ok {
		return existing, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InterviewRepository) Get(ctx context.Context, id string) (*interview.Interview, error) {
	args := m.Called(ctx, id)
	if iv, ok := args.Get(0).(*interview.Interview); ok {
		return iv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InterviewRepository) GetInProgressByUser(ctx context.Context, processID, userID string) (*interview.Interview, error) {
	args := m.Called(ctx, processID, userID)
	if iv, ok := args.Get(0).(*interview.Interview); ok {
		return iv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InterviewRepository) Finish(ctx context.Context, id string, upd interview.FinishUpdate) error {
	args := m.Called(ctx, id, upd)
	return args.Error(0)
}

func (m *InterviewRepository) Cancel(ctx context.Context, id string, endedAt time.Time) error {
	args := m.Called(ctx, id, endedAt)
	return args.Error(0)
}

func (m *InterviewRepository) ListByProcess(ctx context.Context, processID string) ([]interview.Interview, error) {
	args := m.Called(ctx, processID)
	if list, ok := args.Get(0).([]interview.Interview); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InterviewRepository) Stats(ctx context.Context, processID string) (*interview.Stats, error) {
	args := m.Called(ctx, processID)
	if stats, ok := args.Get(0).(*interview.Stats); ok {
		return stats, args.Error(1)
	}
	return nil, args.Error(1)
}

// TicketRepository is a mock for ticket.Repository.
type TicketRepository struct {
	mock.Mock
}

func (m *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) (*ticket.Ticket, error) {
	args := m.Called(ctx, t)
	if existing, ok := args.Get(0).(*ticket.Ticket); ok {
		return existing, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TicketRepository) Get(ctx context.Context, id string) (*ticket.Ticket, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*ticket.Ticket); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TicketRepository) GetOpenByUser(ctx context.Context, userID string) (*ticket.Ticket, error) {
	args := m.Called(ctx, userID)
	if t, ok := args.Get(0).(*ticket.Ticket); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TicketRepository) GetByThread(ctx context.Context, threadID string) (*ticket.Ticket, error) {
	args := m.Called(ctx, threadID)
	if t, ok := args.Get(0).(*ticket.Ticket); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TicketRepository) Close(ctx context.Context, id, closedBy string, closedAt time.Time) error {
	args := m.Called(ctx, id, closedBy, closedAt)
	return args.Error(0)
}

func (m *TicketRepository) AppendMessage(ctx context.Context, msg *ticket.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *TicketRepository) ListMessages(ctx context.Context, ticketID string) ([]ticket.Message, error) {
	args := m.Called(ctx, ticketID)
	if list, ok := args.Get(0).([]ticket.Message); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TicketRepository) SaveSummary(ctx context.Context, s *ticket.Summary) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *TicketRepository) GetSummary(ctx context.Context, ticketID string) (*ticket.Summary, error) {
	args := m.Called(ctx, ticketID)
	if s, ok := args.Get(0).(*ticket.Summary); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TicketRepository) Stats(ctx context.Context) (*ticket.Stats, error) {
	args := m.Called(ctx)
	if stats, ok := args.Get(0).(*ticket.Stats); ok {
		return stats, args.Error(1)
	}
	return nil, args.Error(1)
}

package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/hylexhq/guildflow/internal/domain/ticket"
	"github.com/hylexhq/guildflow/internal/repository"
	"github.com/stretchr/testify/require"
)

func newTicket(id, userID, threadID string) *ticket.Ticket {
	return &ticket.Ticket{
		ID:        id,
		UserID:    userID,
		Username:  "user-" + userID,
		Reason:    "needs help",
		ThreadID:  threadID,
		Status:    ticket.StatusOpen,
		CreatedAt: time.Now().Add(-90 * time.Minute),
	}
}

func TestTicketRepository_SingleOpenPerUser(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewTicketRepository(db)

	_, err := repo.Create(ctx, newTicket("t1", "u1", "th1"))
	require.NoError(t, err)

	existing, err := repo.Create(ctx, newTicket("t2", "u1", "th2"))
	require.ErrorIs(t, err, repository.ErrDuplicate)
	require.Equal(t, "t1", existing.ID)

	_, err = repo.Create(ctx, newTicket("t3", "u2", "th3"))
	require.NoError(t, err)
}

func TestTicketRepository_GetByThread(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewTicketRepository(db)

	_, err := repo.Create(ctx, newTicket("t1", "u1", "th1"))
	require.NoError(t, err)

	loaded, err := repo.GetByThread(ctx, "th1")
	require.NoError(t, err)
	require.Equal(t, "t1", loaded.ID)

	_, err = repo.GetByThread(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTicketRepository_CloseOnce(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewTicketRepository(db)

	_, err := repo.Create(ctx, newTicket("t1", "u1", "th1"))
	require.NoError(t, err)

	require.NoError(t, repo.Close(ctx, "t1", "staff-1", time.Now()))

	loaded, err := repo.Get(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, ticket.StatusClosed, loaded.Status)
	require.Equal(t, "staff-1", *loaded.ClosedBy)

	require.ErrorIs(t, repo.Close(ctx, "t1", "staff-2", time.Now()), repository.ErrConflict)
	require.ErrorIs(t, repo.Close(ctx, "missing", "staff-2", time.Now()), repository.ErrNotFound)

	// The user can open a new ticket after the old one closed.
	_, err = repo.Create(ctx, newTicket("t2", "u1", "th2"))
	require.NoError(t, err)
}

func TestTicketRepository_Transcript(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewTicketRepository(db)

	_, err := repo.Create(ctx, newTicket("t1", "u1", "th1"))
	require.NoError(t, err)

	base := time.Now()
	add := func(id string, kind ticket.MessageKind, offset time.Duration) {
		require.NoError(t, repo.AppendMessage(ctx, &ticket.Message{
			ID:         id,
			TicketID:   "t1",
			AuthorID:   "a1",
			AuthorName: "alice",
			Content:    "hello",
			Kind:       kind,
			CreatedAt:  base.Add(offset),
		}))
	}
	add("m2", ticket.KindStaff, time.Minute)
	add("m1", ticket.KindUser, 0)
	add("m3", ticket.KindSystem, 2*time.Minute)

	messages, err := repo.ListMessages(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, messages, 3)
	require.Equal(t, "m1", messages[0].ID)
	require.Equal(t, "m3", messages[2].ID)

	err = repo.AppendMessage(ctx, &ticket.Message{
		ID: "m4", TicketID: "missing", AuthorID: "a1", Content: "x", Kind: ticket.KindUser, CreatedAt: base,
	})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}

func TestTicketRepository_SummaryWriteOnce(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewTicketRepository(db)

	_, err := repo.Create(ctx, newTicket("t1", "u1", "th1"))
	require.NoError(t, err)

	summary := &ticket.Summary{
		TicketID:          "t1",
		UserID:            "u1",
		Username:          "user-u1",
		Reason:            "needs help",
		CreatedAt:         time.Now().Add(-90 * time.Minute),
		ClosedAt:          time.Now(),
		ClosedBy:          "staff-1",
		TotalMessages:     5,
		StaffMessages:     2,
		UserMessages:      3,
		ResolutionMinutes: 90,
	}
	require.NoError(t, repo.SaveSummary(ctx, summary))

	// A concurrent close's second save is a no-op.
	dup := *summary
	dup.ClosedBy = "staff-2"
	require.NoError(t, repo.SaveSummary(ctx, &dup))

	loaded, err := repo.GetSummary(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, "staff-1", loaded.ClosedBy)
	require.Equal(t, 5, loaded.TotalMessages)
	require.Equal(t, 90, loaded.ResolutionMinutes)
}

func TestTicketRepository_Stats(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewTicketRepository(db)

	_, err := repo.Create(ctx, newTicket("t1", "u1", "th1"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newTicket("t2", "u2", "th2"))
	require.NoError(t, err)

	require.NoError(t, repo.Close(ctx, "t2", "staff-1", time.Now()))
	require.NoError(t, repo.SaveSummary(ctx, &ticket.Summary{
		TicketID: "t2", UserID: "u2", ClosedBy: "staff-1",
		CreatedAt: time.Now().Add(-2 * time.Hour), ClosedAt: time.Now(),
		ResolutionMinutes: 120,
	}))

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Open)
	require.Equal(t, 1, stats.Closed)
	require.Equal(t, 2, stats.Total)
	require.InDelta(t, 2.0, stats.AverageResolutionHours, 0.001)
}

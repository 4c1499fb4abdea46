package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/hylexhq/guildflow/internal/domain/process"
	"github.com/hylexhq/guildflow/internal/repository"
	"github.com/stretchr/testify/require"
)

func newProcess(id, name string) *process.Process {
	return &process.Process{
		ID:        id,
		Name:      name,
		Status:    process.StatusActive,
		StartedBy: "staff-1",
		StartedAt: time.Now(),
	}
}

func TestProcessRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewProcessRepository(db)

	created, err := repo.Create(ctx, newProcess("p1", "spring drive"))
	require.NoError(t, err)
	require.Equal(t, "p1", created.ID)

	loaded, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "spring drive", loaded.Name)
	require.Equal(t, process.StatusActive, loaded.Status)
	require.Nil(t, loaded.EndedAt)
}

func TestProcessRepository_SingleActive(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewProcessRepository(db)

	_, err := repo.Create(ctx, newProcess("p1", "first"))
	require.NoError(t, err)

	existing, err := repo.Create(ctx, newProcess("p2", "second"))
	require.ErrorIs(t, err, repository.ErrDuplicate)
	require.NotNil(t, existing)
	require.Equal(t, "p1", existing.ID)

	// The conflicting row was not inserted.
	_, err = repo.Get(ctx, "p2")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProcessRepository_EndOnce(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewProcessRepository(db)

	_, err := repo.Create(ctx, newProcess("p1", "drive"))
	require.NoError(t, err)

	endedAt := time.Now()
	require.NoError(t, repo.End(ctx, "p1", "staff-2", endedAt))

	loaded, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, process.StatusCompleted, loaded.Status)
	require.NotNil(t, loaded.EndedBy)
	require.Equal(t, "staff-2", *loaded.EndedBy)

	// A second end observes the transition instead of overwriting it.
	err = repo.End(ctx, "p1", "staff-3", time.Now())
	require.ErrorIs(t, err, repository.ErrConflict)

	err = repo.End(ctx, "missing", "staff-3", time.Now())
	require.ErrorIs(t, err, repository.ErrNotFound)

	// A new process can start once the previous one completed.
	_, err = repo.Create(ctx, newProcess("p2", "next drive"))
	require.NoError(t, err)
}

func TestProcessRepository_GetActive(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewProcessRepository(db)

	_, err := repo.GetActive(ctx)
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.Create(ctx, newProcess("p1", "drive"))
	require.NoError(t, err)

	active, err := repo.GetActive(ctx)
	require.NoError(t, err)
	require.Equal(t, "p1", active.ID)
}

func TestParticipantRepository_AddUniquePerProcess(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	procRepo := NewProcessRepository(db)
	repo := NewParticipantRepository(db)

	_, err := procRepo.Create(ctx, newProcess("p1", "drive"))
	require.NoError(t, err)

	p := &process.Participant{
		ID:        "pa1",
		ProcessID: "p1",
		UserID:    "u1",
		Username:  "alice",
		Status:    process.ParticipantPending,
		JoinedAt:  time.Now(),
	}
	_, err = repo.Add(ctx, p)
	require.NoError(t, err)

	dup := &process.Participant{
		ID:        "pa2",
		ProcessID: "p1",
		UserID:    "u1",
		Status:    process.ParticipantPending,
		JoinedAt:  time.Now(),
	}
	existing, err := repo.Add(ctx, dup)
	require.ErrorIs(t, err, repository.ErrDuplicate)
	require.Equal(t, "pa1", existing.ID)
}

func TestParticipantRepository_UpdateStatus(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	procRepo := NewProcessRepository(db)
	repo := NewParticipantRepository(db)

	_, err := procRepo.Create(ctx, newProcess("p1", "drive"))
	require.NoError(t, err)
	_, err = repo.Add(ctx, &process.Participant{
		ID:        "pa1",
		ProcessID: "p1",
		UserID:    "u1",
		Status:    process.ParticipantPending,
		Notes:     "initial",
		JoinedAt:  time.Now(),
	})
	require.NoError(t, err)

	score := 8
	notes := "strong candidate"
	require.NoError(t, repo.UpdateStatus(ctx, "pa1", process.ParticipantApproved, &score, &notes))

	loaded, err := repo.Get(ctx, "pa1")
	require.NoError(t, err)
	require.Equal(t, process.ParticipantApproved, loaded.Status)
	require.NotNil(t, loaded.Score)
	require.Equal(t, 8, *loaded.Score)
	require.Equal(t, "strong candidate", loaded.Notes)

	// Nil score and notes leave the stored values alone.
	require.NoError(t, repo.UpdateStatus(ctx, "pa1", process.ParticipantRejected, nil, nil))
	loaded, err = repo.Get(ctx, "pa1")
	require.NoError(t, err)
	require.Equal(t, process.ParticipantRejected, loaded.Status)
	require.Equal(t, 8, *loaded.Score)
	require.Equal(t, "strong candidate", loaded.Notes)

	require.ErrorIs(t, repo.UpdateStatus(ctx, "missing", process.ParticipantApproved, nil, nil), repository.ErrNotFound)
}

func TestProcessRepository_Stats(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	procRepo := NewProcessRepository(db)
	repo := NewParticipantRepository(db)

	_, err := procRepo.Create(ctx, newProcess("p1", "drive"))
	require.NoError(t, err)

	add := func(id, user string, status process.ParticipantStatus, score *int) {
		_, err := repo.Add(ctx, &process.Participant{
			ID: id, ProcessID: "p1", UserID: user, Status: status, Score: score, JoinedAt: time.Now(),
		})
		require.NoError(t, err)
	}
	s1, s2 := 8, 4
	add("pa1", "u1", process.ParticipantApproved, &s1)
	add("pa2", "u2", process.ParticipantRejected, &s2)
	add("pa3", "u3", process.ParticipantPending, nil)

	stats, err := procRepo.Stats(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 3, stats.TotalParticipants)
	require.Equal(t, 1, stats.Approved)
	require.Equal(t, 1, stats.Rejected)
	require.Equal(t, 1, stats.Pending)
	require.InDelta(t, 6.0, stats.AverageScore, 0.001)

	_, err = procRepo.Stats(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

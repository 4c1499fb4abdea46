package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hylexhq/guildflow/internal/domain/process"
	"github.com/hylexhq/guildflow/internal/repository"
)

// ProcessRepository implements process.Repository for SQLite
type ProcessRepository struct {
	db *DB
}

// NewProcessRepository creates a new ProcessRepository
func NewProcessRepository(db *DB) *ProcessRepository {
	return &ProcessRepository{db: db}
}

// Create inserts a process. The partial unique index on active status
// rejects a second active process; in that case the existing active row
// is returned alongside repository.ErrDuplicate.
func (r *ProcessRepository) Create(ctx context.Context, proc *process.Process) (*process.Process, error) {
	query := `
		INSERT INTO processes (id, name, description, status, started_by, started_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		proc.ID,
		proc.Name,
		proc.Description,
		proc.Status,
		proc.StartedBy,
		proc.StartedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			existing, getErr := r.GetActive(ctx)
			if getErr != nil && !errors.Is(getErr, repository.ErrNotFound) {
				return nil, fmt.Errorf("failed to load conflicting process: %w", getErr)
			}
			return existing, repository.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create process: %w", err)
	}
	return proc, nil
}

// Get retrieves a process by ID
func (r *ProcessRepository) Get(ctx context.Context, id string) (*process.Process, error) {
	return r.getWhere(ctx, "id = ?", id)
}

// GetActive retrieves the active process
func (r *ProcessRepository) GetActive(ctx context.Context) (*process.Process, error) {
	return r.getWhere(ctx, "status = ?", process.StatusActive)
}

func (r *ProcessRepository) getWhere(ctx context.Context, where string, arg any) (*process.Process, error) {
	query := `
		SELECT id, name, description, status, started_by, started_at, ended_by, ended_at
		FROM processes
		WHERE ` + where

	proc, err := scanProcess(r.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get process: %w", err)
	}
	return proc, nil
}

// End completes the process. The write re-checks the active status; a
// process already ended by a concurrent call yields ErrConflict.
func (r *ProcessRepository) End(ctx context.Context, id, endedBy string, endedAt time.Time) error {
	query := `
		UPDATE processes
		SET status = ?, ended_by = ?, ended_at = ?
		WHERE id = ? AND status = ?
	`
	result, err := r.db.ExecContext(ctx, query, process.StatusCompleted, endedBy, endedAt, id, process.StatusActive)
	if err != nil {
		return fmt.Errorf("failed to end process: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		if _, getErr := r.Get(ctx, id); errors.Is(getErr, repository.ErrNotFound) {
			return repository.ErrNotFound
		}
		return repository.ErrConflict
	}
	return nil
}

// List returns recent processes, newest first
func (r *ProcessRepository) List(ctx context.Context, limit int) ([]process.Process, error) {
	query := `
		SELECT id, name, description, status, started_by, started_at, ended_by, ended_at
		FROM processes
		ORDER BY started_at DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}
	defer rows.Close()

	var procs []process.Process
	for rows.Next() {
		proc, err := scanProcess(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan process: %w", err)
		}
		procs = append(procs, *proc)
	}
	return procs, rows.Err()
}

// Stats aggregates the participant projection for a process
func (r *ProcessRepository) Stats(ctx context.Context, processID string) (*process.Stats, error) {
	if _, err := r.Get(ctx, processID); err != nil {
		return nil, err
	}

	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'approved' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'rejected' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'interviewing' THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(score), 0)
		FROM participants
		WHERE process_id = ?
	`
	var stats process.Stats
	err := r.db.QueryRowContext(ctx, query, processID).Scan(
		&stats.TotalParticipants,
		&stats.Approved,
		&stats.Rejected,
		&stats.Pending,
		&stats.Interviewing,
		&stats.AverageScore,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get process stats: %w", err)
	}
	return &stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProcess(row rowScanner) (*process.Process, error) {
	var (
		proc    process.Process
		endedBy sql.NullString
		endedAt sql.NullTime
	)
	err := row.Scan(
		&proc.ID,
		&proc.Name,
		&proc.Description,
		&proc.Status,
		&proc.StartedBy,
		&proc.StartedAt,
		&endedBy,
		&endedAt,
	)
	if err != nil {
		return nil, err
	}
	if endedBy.Valid {
		proc.EndedBy = &endedBy.String
	}
	if endedAt.Valid {
		proc.EndedAt = &endedAt.Time
	}
	return &proc, nil
}

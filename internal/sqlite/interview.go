package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hylexhq/guildflow/internal/domain/interview"
	"github.com/hylexhq/guildflow/internal/repository"
)

// InterviewRepository implements interview.Repository for SQLite
type InterviewRepository struct {
	db *DB
}

// NewInterviewRepository creates a new InterviewRepository
func NewInterviewRepository(db *DB) *InterviewRepository {
	return &InterviewRepository{db: db}
}

const interviewColumns = `
	id, process_id, participant_id, user_id, username, interviewer_id, interviewer_name,
	status, started_at, ended_at, result, score, comments, feedback, duration_minutes
`

// Create inserts an interview. The partial unique index on non-cancelled
// interviews per participant rejects a second live one; that row comes
// back with repository.ErrDuplicate.
func (r *InterviewRepository) Create(ctx context.Context, iv *interview.Interview) (*interview.Interview, error) {
	query := `
		INSERT INTO interviews (
			id, process_id, participant_id, user_id, username,
			interviewer_id, interviewer_name, status, started_at, result
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		iv.ID,
		iv.ProcessID,
		iv.ParticipantID,
		iv.UserID,
		iv.Username,
		iv.InterviewerID,
		iv.InterviewerName,
		iv.Status,
		iv.StartedAt,
		iv.Result,
	)
	if err != nil {
		if isUniqueViolation(err) {
			existing, getErr := r.getWhere(ctx, "participant_id = ? AND status != 'cancelled'", iv.ParticipantID)
			if getErr != nil && !errors.Is(getErr, repository.ErrNotFound) {
				return nil, fmt.Errorf("failed to load conflicting interview: %w", getErr)
			}
			return existing, repository.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return nil, repository.ErrForeignKeyViolation
		}
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}
	return iv, nil
}

// Get retrieves an interview by ID
func (r *InterviewRepository) Get(ctx context.Context, id string) (*interview.Interview, error) {
	return r.getWhere(ctx, "id = ?", id)
}

// GetInProgressByUser retrieves the user's in-progress interview in a
// process
func (r *InterviewRepository) GetInProgressByUser(ctx context.Context, processID, userID string) (*interview.Interview, error) {
	return r.getWhere(ctx, "process_id = ? AND user_id = ? AND status = 'in_progress'", processID, userID)
}

func (r *InterviewRepository) getWhere(ctx context.Context, where string, args ...any) (*interview.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE ` + where

	iv, err := scanInterview(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	return iv, nil
}

// Finish completes an interview and propagates the verdict to the
// participant in one transaction. The interview write re-checks the
// in_progress status; 0 rows yields ErrConflict and nothing is written.
func (r *InterviewRepository) Finish(ctx context.Context, id string, upd interview.FinishUpdate) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	finish := `
		UPDATE interviews
		SET status = ?, ended_at = ?, result = ?, score = ?, comments = ?, feedback = ?, duration_minutes = ?
		WHERE id = ? AND status = ?
	`
	result, err := tx.ExecContext(ctx, finish,
		interview.StatusCompleted,
		upd.EndedAt,
		upd.Result,
		upd.Score,
		upd.Comments,
		upd.Feedback,
		upd.DurationMinutes,
		id,
		interview.StatusInProgress,
	)
	if err != nil {
		return fmt.Errorf("failed to finish interview: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM interviews WHERE id = ?`, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check interview: %w", err)
		}
		if exists == 0 {
			return repository.ErrNotFound
		}
		return repository.ErrConflict
	}

	propagate := `
		UPDATE participants
		SET status = ?, score = ?, notes = ?
		WHERE id = (SELECT participant_id FROM interviews WHERE id = ?)
	`
	if _, err := tx.ExecContext(ctx, propagate, upd.ParticipantStatus, upd.Score, upd.Comments, id); err != nil {
		return fmt.Errorf("failed to propagate interview result: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Cancel abandons an in-progress interview. The write re-checks the
// status; a concurrent finish yields ErrConflict.
func (r *InterviewRepository) Cancel(ctx context.Context, id string, endedAt time.Time) error {
	query := `
		UPDATE interviews
		SET status = ?, ended_at = ?
		WHERE id = ? AND status = ?
	`
	result, err := r.db.ExecContext(ctx, query, interview.StatusCancelled, endedAt, id, interview.StatusInProgress)
	if err != nil {
		return fmt.Errorf("failed to cancel interview: %w", err)
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

// ListByProcess returns a process's interviews, newest first
func (r *InterviewRepository) ListByProcess(ctx context.Context, processID string) ([]interview.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE process_id = ? ORDER BY started_at DESC`

	rows, err := r.db.QueryContext(ctx, query, processID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	defer rows.Close()

	var interviews []interview.Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interview: %w", err)
		}
		interviews = append(interviews, *iv)
	}
	return interviews, rows.Err()
}

// Stats aggregates the interview projection for a process
func (r *InterviewRepository) Stats(ctx context.Context, processID string) (*interview.Stats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'in_progress' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'cancelled' THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(duration_minutes), 0),
			COALESCE(AVG(score), 0)
		FROM interviews
		WHERE process_id = ?
	`
	var stats interview.Stats
	err := r.db.QueryRowContext(ctx, query, processID).Scan(
		&stats.Total,
		&stats.InProgress,
		&stats.Completed,
		&stats.Cancelled,
		&stats.AverageDurationMinutes,
		&stats.AverageScore,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get interview stats: %w", err)
	}
	return &stats, nil
}

func scanInterview(row rowScanner) (*interview.Interview, error) {
	var (
		iv       interview.Interview
		endedAt  sql.NullTime
		score    sql.NullInt64
		duration sql.NullInt64
	)
	err := row.Scan(
		&iv.ID,
		&iv.ProcessID,
		&iv.ParticipantID,
		&iv.UserID,
		&iv.Username,
		&iv.InterviewerID,
		&iv.InterviewerName,
		&iv.Status,
		&iv.StartedAt,
		&endedAt,
		&iv.Result,
		&score,
		&iv.Comments,
		&iv.Feedback,
		&duration,
	)
	if err != nil {
		return nil, err
	}
	if endedAt.Valid {
		iv.EndedAt = &endedAt.Time
	}
	if score.Valid {
		v := int(score.Int64)
		iv.Score = &v
	}
	if duration.Valid {
		v := int(duration.Int64)
		iv.DurationMinutes = &v
	}
	return &iv, nil
}

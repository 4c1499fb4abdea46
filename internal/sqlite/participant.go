package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hylexhq/guildflow/internal/domain/process"
	"github.com/hylexhq/guildflow/internal/repository"
)

// ParticipantRepository implements process.ParticipantRepository for SQLite
type ParticipantRepository struct {
	db *DB
}

// NewParticipantRepository creates a new ParticipantRepository
func NewParticipantRepository(db *DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// Add inserts a participant. The (process, user) unique constraint turns
// a re-enrollment into repository.ErrDuplicate with the existing row.
func (r *ParticipantRepository) Add(ctx context.Context, p *process.Participant) (*process.Participant, error) {
	query := `
		INSERT INTO participants (id, process_id, user_id, username, status, phase, score, notes, joined_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.ProcessID,
		p.UserID,
		p.Username,
		p.Status,
		p.Phase,
		p.Score,
		p.Notes,
		p.JoinedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			existing, getErr := r.GetByUser(ctx, p.ProcessID, p.UserID)
			if getErr != nil {
				return nil, fmt.Errorf("failed to load conflicting participant: %w", getErr)
			}
			return existing, repository.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return nil, repository.ErrForeignKeyViolation
		}
		return nil, fmt.Errorf("failed to add participant: %w", err)
	}
	return p, nil
}

// Get retrieves a participant by ID
func (r *ParticipantRepository) Get(ctx context.Context, id string) (*process.Participant, error) {
	return r.getWhere(ctx, "id = ?", id)
}

// GetByUser retrieves a participant by process and user
func (r *ParticipantRepository) GetByUser(ctx context.Context, processID, userID string) (*process.Participant, error) {
	return r.getWhere(ctx, "process_id = ? AND user_id = ?", processID, userID)
}

func (r *ParticipantRepository) getWhere(ctx context.Context, where string, args ...any) (*process.Participant, error) {
	query := `
		SELECT id, process_id, user_id, username, status, phase, score, notes, joined_at
		FROM participants
		WHERE ` + where

	p, err := scanParticipant(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return p, nil
}

// ListByProcess returns a process's participants in join order
func (r *ParticipantRepository) ListByProcess(ctx context.Context, processID string) ([]process.Participant, error) {
	query := `
		SELECT id, process_id, user_id, username, status, phase, score, notes, joined_at
		FROM participants
		WHERE process_id = ?
		ORDER BY joined_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, processID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []process.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, *p)
	}
	return participants, rows.Err()
}

// UpdateStatus advances a participant's standing. Score and notes are
// left untouched when nil.
func (r *ParticipantRepository) UpdateStatus(ctx context.Context, id string, status process.ParticipantStatus, score *int, notes *string) error {
	query := `
		UPDATE participants
		SET status = ?,
		    score = COALESCE(?, score),
		    notes = COALESCE(?, notes)
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query, status, score, notes, id)
	if err != nil {
		return fmt.Errorf("failed to update participant: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanParticipant(row rowScanner) (*process.Participant, error) {
	var (
		p     process.Participant
		score sql.NullInt64
	)
	err := row.Scan(
		&p.ID,
		&p.ProcessID,
		&p.UserID,
		&p.Username,
		&p.Status,
		&p.Phase,
		&score,
		&p.Notes,
		&p.JoinedAt,
	)
	if err != nil {
		return nil, err
	}
	if score.Valid {
		v := int(score.Int64)
		p.Score = &v
	}
	return &p, nil
}

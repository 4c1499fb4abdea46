package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hylexhq/guildflow/internal/domain/ticket"
	"github.com/hylexhq/guildflow/internal/repository"
)

// TicketRepository implements ticket.Repository for SQLite
type TicketRepository struct {
	db *DB
}

// NewTicketRepository creates a new TicketRepository
func NewTicketRepository(db *DB) *TicketRepository {
	return &TicketRepository{db: db}
}

const ticketColumns = `
	id, user_id, username, display_name, reason, thread_id, status, created_at, closed_at, closed_by
`

// Create inserts a ticket. The partial unique index on open status per
// user rejects a second open ticket; that row comes back with
// repository.ErrDuplicate.
func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) (*ticket.Ticket, error) {
	query := `
		INSERT INTO tickets (id, user_id, username, display_name, reason, thread_id, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.UserID,
		t.Username,
		t.DisplayName,
		t.Reason,
		t.ThreadID,
		t.Status,
		t.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			existing, getErr := r.GetOpenByUser(ctx, t.UserID)
			if getErr != nil && !errors.Is(getErr, repository.ErrNotFound) {
				return nil, fmt.Errorf("failed to load conflicting ticket: %w", getErr)
			}
			return existing, repository.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}
	return t, nil
}

// Get retrieves a ticket by ID
func (r *TicketRepository) Get(ctx context.Context, id string) (*ticket.Ticket, error) {
	return r.getWhere(ctx, "id = ?", id)
}

// GetOpenByUser retrieves the user's open ticket
func (r *TicketRepository) GetOpenByUser(ctx context.Context, userID string) (*ticket.Ticket, error) {
	return r.getWhere(ctx, "user_id = ? AND status = 'open'", userID)
}

// GetByThread retrieves the ticket backed by a thread
func (r *TicketRepository) GetByThread(ctx context.Context, threadID string) (*ticket.Ticket, error) {
	return r.getWhere(ctx, "thread_id = ?", threadID)
}

func (r *TicketRepository) getWhere(ctx context.Context, where string, args ...any) (*ticket.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE ` + where

	t, err := scanTicket(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return t, nil
}

// Close marks a ticket closed. The write re-checks the open status; a
// ticket already closed concurrently yields ErrConflict.
func (r *TicketRepository) Close(ctx context.Context, id, closedBy string, closedAt time.Time) error {
	query := `
		UPDATE tickets
		SET status = ?, closed_by = ?, closed_at = ?
		WHERE id = ? AND status = ?
	`
	result, err := r.db.ExecContext(ctx, query, ticket.StatusClosed, closedBy, closedAt, id, ticket.StatusOpen)
	if err != nil {
		return fmt.Errorf("failed to close ticket: %w", err)
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

// AppendMessage adds a message to the ticket transcript
func (r *TicketRepository) AppendMessage(ctx context.Context, m *ticket.Message) error {
	query := `
		INSERT INTO ticket_messages (id, ticket_id, author_id, author_name, content, kind, attachments, embeds, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.TicketID,
		m.AuthorID,
		m.AuthorName,
		m.Content,
		m.Kind,
		m.Attachments,
		m.Embeds,
		m.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// ListMessages returns a ticket's transcript in arrival order
func (r *TicketRepository) ListMessages(ctx context.Context, ticketID string) ([]ticket.Message, error) {
	query := `
		SELECT id, ticket_id, author_id, author_name, content, kind, attachments, embeds, created_at
		FROM ticket_messages
		WHERE ticket_id = ?
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []ticket.Message
	for rows.Next() {
		var (
			m           ticket.Message
			attachments sql.NullString
			embeds      sql.NullString
		)
		err := rows.Scan(
			&m.ID,
			&m.TicketID,
			&m.AuthorID,
			&m.AuthorName,
			&m.Content,
			&m.Kind,
			&attachments,
			&embeds,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		if attachments.Valid {
			m.Attachments = &attachments.String
		}
		if embeds.Valid {
			m.Embeds = &embeds.String
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// SaveSummary archives the closing summary. Write-once per ticket; a
// concurrent close's second save is a no-op.
func (r *TicketRepository) SaveSummary(ctx context.Context, s *ticket.Summary) error {
	query := `
		INSERT INTO ticket_summaries (
			ticket_id, user_id, username, display_name, reason,
			created_at, closed_at, closed_by,
			total_messages, staff_messages, user_messages, resolution_minutes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (ticket_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query,
		s.TicketID,
		s.UserID,
		s.Username,
		s.DisplayName,
		s.Reason,
		s.CreatedAt,
		s.ClosedAt,
		s.ClosedBy,
		s.TotalMessages,
		s.StaffMessages,
		s.UserMessages,
		s.ResolutionMinutes,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to save summary: %w", err)
	}
	return nil
}

// GetSummary retrieves a closed ticket's summary
func (r *TicketRepository) GetSummary(ctx context.Context, ticketID string) (*ticket.Summary, error) {
	query := `
		SELECT ticket_id, user_id, username, display_name, reason,
		       created_at, closed_at, closed_by,
		       total_messages, staff_messages, user_messages, resolution_minutes
		FROM ticket_summaries
		WHERE ticket_id = ?
	`
	var s ticket.Summary
	err := r.db.QueryRowContext(ctx, query, ticketID).Scan(
		&s.TicketID,
		&s.UserID,
		&s.Username,
		&s.DisplayName,
		&s.Reason,
		&s.CreatedAt,
		&s.ClosedAt,
		&s.ClosedBy,
		&s.TotalMessages,
		&s.StaffMessages,
		&s.UserMessages,
		&s.ResolutionMinutes,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}
	return &s, nil
}

// Stats aggregates the ticket projection
func (r *TicketRepository) Stats(ctx context.Context) (*ticket.Stats, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'open' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'closed' THEN 1 ELSE 0 END), 0),
			COUNT(*),
			COALESCE((SELECT AVG(resolution_minutes) / 60.0 FROM ticket_summaries), 0)
		FROM tickets
	`
	var stats ticket.Stats
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.Open,
		&stats.Closed,
		&stats.Total,
		&stats.AverageResolutionHours,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket stats: %w", err)
	}
	return &stats, nil
}

func scanTicket(row rowScanner) (*ticket.Ticket, error) {
	var (
		t        ticket.Ticket
		closedAt sql.NullTime
		closedBy sql.NullString
	)
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Username,
		&t.DisplayName,
		&t.Reason,
		&t.ThreadID,
		&t.Status,
		&t.CreatedAt,
		&closedAt,
		&closedBy,
	)
	if err != nil {
		return nil, err
	}
	if closedAt.Valid {
		t.ClosedAt = &closedAt.Time
	}
	if closedBy.Valid {
		t.ClosedBy = &closedBy.String
	}
	return &t, nil
}

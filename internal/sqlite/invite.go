package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hylexhq/guildflow/internal/domain/invite"
	"github.com/hylexhq/guildflow/internal/repository"
)

// InviteRepository implements invite.Repository for SQLite
type InviteRepository struct {
	db *DB
}

// NewInviteRepository creates a new InviteRepository
func NewInviteRepository(db *DB) *InviteRepository {
	return &InviteRepository{db: db}
}

const inviteColumns = `
	id, user_id, username, message_id, sent_by, status, sent_at,
	responded_at, expires_at, invite_url, confirmation_channel_id, confirmation_message_id
`

// CreatePending inserts a pending invite. Stale pending rows for the
// user are expired inside the same transaction, so only a genuinely live
// pending invite trips the partial unique index; that row comes back
// with repository.ErrDuplicate.
func (r *InviteRepository) CreatePending(ctx context.Context, inv *invite.Invite) (*invite.Invite, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	expire := `
		UPDATE invites
		SET status = ?
		WHERE user_id = ? AND status = ? AND expires_at IS NOT NULL AND expires_at <= ?
	`
	if _, err := tx.ExecContext(ctx, expire, invite.StatusExpired, inv.UserID, invite.StatusPending, inv.SentAt); err != nil {
		return nil, fmt.Errorf("failed to expire stale invites: %w", err)
	}

	insert := `
		INSERT INTO invites (id, user_id, username, message_id, sent_by, status, sent_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, insert,
		inv.ID,
		inv.UserID,
		inv.Username,
		inv.MessageID,
		inv.SentBy,
		inv.Status,
		inv.SentAt,
		inv.ExpiresAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			existing, getErr := r.GetPendingByUser(ctx, inv.UserID)
			if getErr != nil && !errors.Is(getErr, repository.ErrNotFound) {
				return nil, fmt.Errorf("failed to load conflicting invite: %w", getErr)
			}
			return existing, repository.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return inv, nil
}

// Get retrieves an invite by ID
func (r *InviteRepository) Get(ctx context.Context, id string) (*invite.Invite, error) {
	return r.getWhere(ctx, "id = ?", id)
}

// GetPendingByUser retrieves the user's pending invite
func (r *InviteRepository) GetPendingByUser(ctx context.Context, userID string) (*invite.Invite, error) {
	return r.getWhere(ctx, "user_id = ? AND status = 'pending'", userID)
}

// GetByUserMessage retrieves the invite delivered to the user in the
// given message
func (r *InviteRepository) GetByUserMessage(ctx context.Context, userID, messageID string) (*invite.Invite, error) {
	return r.getWhere(ctx, "user_id = ? AND message_id = ? ORDER BY sent_at DESC LIMIT 1", userID, messageID)
}

// GetByConfirmationMessage resolves an invite from its status display
func (r *InviteRepository) GetByConfirmationMessage(ctx context.Context, confirmationMessageID string) (*invite.Invite, error) {
	return r.getWhere(ctx, "confirmation_message_id = ?", confirmationMessageID)
}

// GetLatestByUser retrieves the user's most recent invite
func (r *InviteRepository) GetLatestByUser(ctx context.Context, userID string) (*invite.Invite, error) {
	return r.getWhere(ctx, "user_id = ? ORDER BY sent_at DESC LIMIT 1", userID)
}

func (r *InviteRepository) getWhere(ctx context.Context, where string, args ...any) (*invite.Invite, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites WHERE ` + where

	inv, err := scanInvite(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}
	return inv, nil
}

// UpdateStatus transitions an invite. The write re-checks the expected
// current status; a row that moved on concurrently yields ErrConflict.
// inviteURL is only written when non-nil.
func (r *InviteRepository) UpdateStatus(ctx context.Context, id string, from, to invite.Status, respondedAt time.Time, inviteURL *string) error {
	query := `
		UPDATE invites
		SET status = ?, responded_at = ?, invite_url = COALESCE(?, invite_url)
		WHERE id = ? AND status = ?
	`
	result, err := r.db.ExecContext(ctx, query, to, respondedAt, inviteURL, id, from)
	if err != nil {
		return fmt.Errorf("failed to update invite: %w", err)
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

// SetConfirmationMessage records the status display locator
func (r *InviteRepository) SetConfirmationMessage(ctx context.Context, id, channelID, messageID string) error {
	query := `
		UPDATE invites
		SET confirmation_channel_id = ?, confirmation_message_id = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query, channelID, messageID, id)
	if err != nil {
		return fmt.Errorf("failed to set confirmation message: %w", err)
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

// ListRecent returns the latest invites, newest first
func (r *InviteRepository) ListRecent(ctx context.Context, limit int) ([]invite.Invite, error) {
	return r.listWhere(ctx, "1=1", limit)
}

// ListRecentByUser returns the user's latest invites, newest first
func (r *InviteRepository) ListRecentByUser(ctx context.Context, userID string, limit int) ([]invite.Invite, error) {
	return r.listWhere(ctx, "user_id = ?", limit, userID)
}

func (r *InviteRepository) listWhere(ctx context.Context, where string, limit int, args ...any) ([]invite.Invite, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites WHERE ` + where + ` ORDER BY sent_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	defer rows.Close()

	var invites []invite.Invite
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invite: %w", err)
		}
		invites = append(invites, *inv)
	}
	return invites, rows.Err()
}

// ExpirePending expires overdue pending invites. One guarded UPDATE, so
// an invite accepted between the sweep's read and write is untouched.
func (r *InviteRepository) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE invites
		SET status = ?, responded_at = ?
		WHERE status = ? AND expires_at IS NOT NULL AND expires_at <= ?
	`
	result, err := r.db.ExecContext(ctx, query, invite.StatusExpired, now, invite.StatusPending, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire invites: %w", err)
	}
	return result.RowsAffected()
}

// Stats aggregates invite counts since the given time
func (r *InviteRepository) Stats(ctx context.Context, since time.Time) (*invite.Stats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status IN ('accepted', 'entered', 'confirmed') THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'declined' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'expired' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status IN ('entered', 'confirmed') THEN 1 ELSE 0 END), 0)
		FROM invites
		WHERE sent_at >= ?
	`
	var stats invite.Stats
	err := r.db.QueryRowContext(ctx, query, since).Scan(
		&stats.Total,
		&stats.Accepted,
		&stats.Declined,
		&stats.Pending,
		&stats.Expired,
		&stats.Entered,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get invite stats: %w", err)
	}
	return &stats, nil
}

func scanInvite(row rowScanner) (*invite.Invite, error) {
	var (
		inv         invite.Invite
		respondedAt sql.NullTime
		expiresAt   sql.NullTime
		inviteURL   sql.NullString
		confChannel sql.NullString
		confMessage sql.NullString
	)
	err := row.Scan(
		&inv.ID,
		&inv.UserID,
		&inv.Username,
		&inv.MessageID,
		&inv.SentBy,
		&inv.Status,
		&inv.SentAt,
		&respondedAt,
		&expiresAt,
		&inviteURL,
		&confChannel,
		&confMessage,
	)
	if err != nil {
		return nil, err
	}
	if respondedAt.Valid {
		inv.RespondedAt = &respondedAt.Time
	}
	if expiresAt.Valid {
		inv.ExpiresAt = &expiresAt.Time
	}
	if inviteURL.Valid {
		inv.InviteURL = &inviteURL.String
	}
	if confChannel.Valid {
		inv.ConfirmationChannelID = &confChannel.String
	}
	if confMessage.Valid {
		inv.ConfirmationMessageID = &confMessage.String
	}
	return &inv, nil
}

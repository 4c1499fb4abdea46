package invite

import "time"

// Status represents the lifecycle status of a recruitment invite.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusExpired   Status = "expired"
	StatusEntered   Status = "entered"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// MessageUnavailable is the message locator sentinel recorded when the
// invite could not be delivered to the candidate's direct-message channel.
// The invite row is still persisted so the recruitment action is not lost.
const MessageUnavailable = "unavailable"

// Invite is an offer sent to a candidate to join a recruitment process.
// Rows are never hard-deleted; terminal statuses are retained for audit.
type Invite struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Username    string     `json:"username"`
	MessageID   string     `json:"message_id"`
	SentBy      string     `json:"sent_by"`
	Status      Status     `json:"status"`
	SentAt      time.Time  `json:"sent_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	InviteURL   *string    `json:"invite_url,omitempty"`

	// Locator of a previously sent status display, so it can be edited
	// after the platform's reply window has closed.
	ConfirmationChannelID *string `json:"confirmation_channel_id,omitempty"`
	ConfirmationMessageID *string `json:"confirmation_message_id,omitempty"`
}

// Expired reports whether the invite's expiry time has passed.
func (i *Invite) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && !now.Before(*i.ExpiresAt)
}

// Stats is a read-only projection over invites sent in a time window.
type Stats struct {
	Total    int `json:"total"`
	Accepted int `json:"accepted"`
	Declined int `json:"declined"`
	Pending  int `json:"pending"`
	Expired  int `json:"expired"`
	Entered  int `json:"entered"`
}

// ConflictInfo describes the pending invite that blocked a send attempt.
type ConflictInfo struct {
	Existing Invite `json:"existing"`
	Message  string `json:"message"`
}

package ticket

import "time"

// Status represents the lifecycle status of a support ticket.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// MessageKind classifies who produced a relayed message.
type MessageKind string

const (
	KindUser   MessageKind = "user"
	KindStaff  MessageKind = "staff"
	KindSystem MessageKind = "system"
)

// Ticket is a support conversation between one user and staff, carried
// over a dedicated thread. At most one ticket is open per user.
type Ticket struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Reason      string     `json:"reason"`
	ThreadID    string     `json:"thread_id"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
	ClosedBy    *string    `json:"closed_by,omitempty"`
}

// Message is one relayed entry in a ticket's transcript. Append-only.
type Message struct {
	ID          string      `json:"id"`
	TicketID    string      `json:"ticket_id"`
	AuthorID    string      `json:"author_id"`
	AuthorName  string      `json:"author_name"`
	Content     string      `json:"content"`
	Kind        MessageKind `json:"kind"`
	Attachments *string     `json:"attachments,omitempty"`
	Embeds      *string     `json:"embeds,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Summary is the archival record written exactly once when a ticket
// closes.
type Summary struct {
	TicketID          string    `json:"ticket_id"`
	UserID            string    `json:"user_id"`
	Username          string    `json:"username"`
	DisplayName       string    `json:"display_name"`
	Reason            string    `json:"reason"`
	CreatedAt         time.Time `json:"created_at"`
	ClosedAt          time.Time `json:"closed_at"`
	ClosedBy          string    `json:"closed_by"`
	TotalMessages     int       `json:"total_messages"`
	StaffMessages     int       `json:"staff_messages"`
	UserMessages      int       `json:"user_messages"`
	ResolutionMinutes int       `json:"resolution_minutes"`
}

// Stats is a read-only projection over all tickets.
type Stats struct {
	Open                   int     `json:"open"`
	Closed                 int     `json:"closed"`
	Total                  int     `json:"total"`
	AverageResolutionHours float64 `json:"average_resolution_hours"`
}

// ConflictInfo describes the open ticket that blocked an open attempt.
type ConflictInfo struct {
	Existing Ticket `json:"existing"`
	Message  string `json:"message"`
}

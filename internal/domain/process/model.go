package process

import "time"

// Status represents the lifecycle status of a recruitment process.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Process represents one recruitment cycle. At most one process is active
// at any time; the store enforces that, not the engine.
type Process struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	StartedBy   string     `json:"started_by"`
	StartedAt   time.Time  `json:"started_at"`
	EndedBy     *string    `json:"ended_by,omitempty"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
}

// ParticipantStatus represents a candidate's standing inside a process.
type ParticipantStatus string

const (
	ParticipantPending      ParticipantStatus = "pending"
	ParticipantInterviewing ParticipantStatus = "interviewing"
	ParticipantApproved     ParticipantStatus = "approved"
	ParticipantRejected     ParticipantStatus = "rejected"
	ParticipantWithdrawn    ParticipantStatus = "withdrawn"
)

// Participant is a candidate enrolled in a specific process.
// Unique per (process, user); the score, when present, is bounded to [0,10].
type Participant struct {
	ID        string            `json:"id"`
	ProcessID string            `json:"process_id"`
	UserID    string            `json:"user_id"`
	Username  string            `json:"username"`
	Status    ParticipantStatus `json:"status"`
	Phase     string            `json:"phase"`
	Score     *int              `json:"score,omitempty"`
	Notes     string            `json:"notes"`
	JoinedAt  time.Time         `json:"joined_at"`
}

// Stats is a read-only projection over a process's participants.
type Stats struct {
	TotalParticipants int     `json:"total_participants"`
	Approved          int     `json:"approved"`
	Rejected          int     `json:"rejected"`
	Pending           int     `json:"pending"`
	Interviewing      int     `json:"interviewing"`
	AverageScore      float64 `json:"average_score"`
}

// ConflictInfo describes the active process that blocked a start attempt.
type ConflictInfo struct {
	Existing Process `json:"existing"`
	Message  string  `json:"message"`
}

package interview

import "time"

// Status represents the lifecycle status of an interview.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Result is the verdict recorded when an interview finishes.
type Result string

const (
	ResultPending  Result = "pending"
	ResultApproved Result = "approved"
	ResultRejected Result = "rejected"
)

// Interview is a staff conversation with one participant. A participant
// has at most one non-cancelled interview per process.
type Interview struct {
	ID              string     `json:"id"`
	ProcessID       string     `json:"process_id"`
	ParticipantID   string     `json:"participant_id"`
	UserID          string     `json:"user_id"`
	Username        string     `json:"username"`
	InterviewerID   string     `json:"interviewer_id"`
	InterviewerName string     `json:"interviewer_name"`
	Status          Status     `json:"status"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	Result          Result     `json:"result"`
	Score           *int       `json:"score,omitempty"`
	Comments        string     `json:"comments"`
	Feedback        string     `json:"feedback"`

	// Whole minutes between start and end, rounded half away from zero.
	DurationMinutes *int `json:"duration_minutes,omitempty"`
}

// Stats is a read-only projection over a process's interviews.
type Stats struct {
	Total                  int     `json:"total"`
	InProgress             int     `json:"in_progress"`
	Completed              int     `json:"completed"`
	Cancelled              int     `json:"cancelled"`
	AverageDurationMinutes float64 `json:"average_duration_minutes"`
	AverageScore           float64 `json:"average_score"`
}

// ConflictInfo describes the interview that blocked a begin attempt.
type ConflictInfo struct {
	Existing Interview `json:"existing"`
	Message  string    `json:"message"`
}

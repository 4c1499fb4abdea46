package interview

import "errors"

var (
	// ErrInterviewNotFound indicates the interview doesn't exist.
	ErrInterviewNotFound = errors.New("interview not found")
	// ErrNoActiveInterview indicates the participant has no interview in progress.
	ErrNoActiveInterview = errors.New("no interview in progress")
	// ErrInvalidResult indicates the verdict is neither approved nor rejected.
	ErrInvalidResult = errors.New("result must be approved or rejected")
	// ErrInvalidScore indicates the score is outside the 0 to 10 range.
	ErrInvalidScore = errors.New("score must be between 0 and 10")
	// ErrInvalidInput indicates invalid interview input.
	ErrInvalidInput = errors.New("invalid interview input")
)

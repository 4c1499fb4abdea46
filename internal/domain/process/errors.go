package process

import "errors"

var (
	// ErrProcessNotFound indicates the process doesn't exist.
	ErrProcessNotFound = errors.New("process not found")
	// ErrNoActiveProcess indicates no process is currently active.
	ErrNoActiveProcess = errors.New("no active process")
	// ErrParticipantNotFound indicates the participant doesn't exist.
	ErrParticipantNotFound = errors.New("participant not found")
	// ErrInvalidInput indicates invalid process input.
	ErrInvalidInput = errors.New("invalid process input")
)

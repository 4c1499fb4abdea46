package dispatch

import "errors"

var (
	// ErrDeadlineExceeded indicates the event is too old to acknowledge.
	ErrDeadlineExceeded = errors.New("acknowledgement deadline exceeded")
	// ErrAcknowledgeTimeout indicates the platform did not confirm the
	// acknowledgement in time.
	ErrAcknowledgeTimeout = errors.New("acknowledgement timed out")
	// ErrAlreadyFinalized indicates the response has already been delivered.
	ErrAlreadyFinalized = errors.New("response already finalized")
	// ErrInvalidState indicates a gate call out of order.
	ErrInvalidState = errors.New("invalid response state")
	// ErrAlreadyScheduled indicates a countdown with the same id is running.
	ErrAlreadyScheduled = errors.New("countdown already scheduled")
)

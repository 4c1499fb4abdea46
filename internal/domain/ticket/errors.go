package ticket

import "errors"

var (
	// ErrTicketNotFound indicates the ticket doesn't exist.
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrTicketClosed indicates the ticket has already been closed.
	ErrTicketClosed = errors.New("ticket already closed")
	// ErrClosePending indicates a close countdown is already running.
	ErrClosePending = errors.New("close already pending")
	// ErrInvalidInput indicates invalid ticket input.
	ErrInvalidInput = errors.New("invalid ticket input")
)

package invite

import "errors"

var (
	// ErrInviteNotFound indicates the invite doesn't exist.
	ErrInviteNotFound = errors.New("invite not found")
	// ErrAlreadyResponded indicates the invite already left the pending state.
	ErrAlreadyResponded = errors.New("invite already responded")
	// ErrInviteExpired indicates the invite's expiry time has passed.
	ErrInviteExpired = errors.New("invite expired")
	// ErrInvalidInput indicates invalid invite input.
	ErrInvalidInput = errors.New("invalid invite input")
)

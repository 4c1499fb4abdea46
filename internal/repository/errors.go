package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a create collides with an existing row
	// protected by a uniqueness invariant
	ErrDuplicate = errors.New("duplicate: entity already exists")

	// ErrConflict is returned when a guarded status transition finds the
	// row no longer in the expected state
	ErrConflict = errors.New("conflict: entity was modified by another session")

	// ErrForeignKeyViolation is returned when a foreign key constraint fails
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

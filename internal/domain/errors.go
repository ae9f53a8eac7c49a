package domain

import "errors"

var (
	// ErrNotFound is returned when a referenced user, item, booking or request does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned when a precondition or authorization rule does not hold.
	ErrValidation = errors.New("validation failed")
	// ErrConflict is returned when a uniqueness rule would be violated.
	ErrConflict = errors.New("conflict")
)

package repository

import "errors"

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint is violated
	// (currently only users.email).
	ErrDuplicate = errors.New("duplicate")
)

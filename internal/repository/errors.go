package repository

import "errors"

var (
	// ErrNotFound is returned when the addressed row does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write
	ErrDuplicate = errors.New("duplicate record")
	// ErrStateConflict is returned when a conditional update matched the row but not its precondition
	ErrStateConflict = errors.New("record is not in the expected state")
)

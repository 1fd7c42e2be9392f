package services

import (
	"errors"
	"fmt"
)

// ValidationError represents missing or invalid input
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if an error is a ValidationError
func IsValidationError(err error) (*ValidationError, bool) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr, true
	}
	return nil, false
}

// NotFoundError represents a reference to a record that does not exist
type NotFoundError struct {
	Resource string `json:"resource"`
	ID       uint   `json:"id"`
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, id uint) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// IsNotFoundError checks if an error is a NotFoundError
func IsNotFoundError(err error) (*NotFoundError, bool) {
	var notFoundErr *NotFoundError
	if errors.As(err, &notFoundErr) {
		return notFoundErr, true
	}
	return nil, false
}

// InvalidStateError represents an illegal state transition
type InvalidStateError struct {
	Resource string `json:"resource"`
	ID       uint   `json:"id"`
	Message  string `json:"message"`
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %d: %s", e.Resource, e.ID, e.Message)
}

// NewInvalidStateError creates a new invalid state error
func NewInvalidStateError(resource string, id uint, message string) *InvalidStateError {
	return &InvalidStateError{
		Resource: resource,
		ID:       id,
		Message:  message,
	}
}

// IsInvalidStateError checks if an error is an InvalidStateError
func IsInvalidStateError(err error) (*InvalidStateError, bool) {
	var stateErr *InvalidStateError
	if errors.As(err, &stateErr) {
		return stateErr, true
	}
	return nil, false
}

// StorageError represents a failure of the photo store
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageError checks if an error is a StorageError
func IsStorageError(err error) (*StorageError, bool) {
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return storageErr, true
	}
	return nil, false
}

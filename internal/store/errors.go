package store

import (
	"errors"
	"fmt"
)

// Common store errors.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrNotLoaded is returned when the store is used before a successful Load.
	ErrNotLoaded = errors.New("store not loaded")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrLoadFailed is returned when the initial snapshot cannot be fetched.
	ErrLoadFailed = errors.New("load failed")

	// Entity-specific "not found" errors

	// ErrWordNotFound indicates that the requested word does not exist.
	ErrWordNotFound = fmt.Errorf("%w: word", ErrNotFound)

	// ErrKnowledgePointNotFound indicates that the requested knowledge point does not exist.
	ErrKnowledgePointNotFound = fmt.Errorf("%w: knowledge point", ErrNotFound)

	// ErrCategoryNotFound indicates that the requested category does not exist.
	ErrCategoryNotFound = fmt.Errorf("%w: category", ErrNotFound)

	// ErrTaskNotFound indicates that the requested task does not exist.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// invalid wraps a validation failure so callers can match ErrInvalidEntity
// as well as the domain sentinel.
func invalid(entity string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInvalidEntity, entity, err)
}

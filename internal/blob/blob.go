package blob

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
)

// DefaultKey is the key under which the knowledge base is stored.
const DefaultKey = "main-data"

// Common blob errors.
var (
	// ErrNotFound is returned by Get when nothing is stored under the key.
	ErrNotFound = errors.New("blob not found")

	// ErrInvalidKey is returned for keys outside [A-Za-z0-9._-]{1,128}.
	ErrInvalidKey = errors.New("invalid blob key")

	// ErrInvalidDocument is returned when a document fails validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrUnavailable is returned when the backend cannot be reached.
	ErrUnavailable = errors.New("blob backend unavailable")

	// ErrUnsupported is returned for optional capabilities a backend lacks.
	ErrUnsupported = errors.New("not supported by blob backend")
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

// ValidateKey checks that key is safe for every backend, including file names.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) || key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Store holds one opaque JSON document per key.
type Store interface {
	// Get returns the document stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the document stored under key.
	Put(ctx context.Context, key string, data []byte) error
}

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Revision describes an archived copy of a document.
type Revision struct {
	ID         int64     `json:"id"`
	ArchivedAt time.Time `json:"archivedAt"`
	Bytes      int       `json:"bytes"`
}

// Historian is implemented by backends that archive replaced documents.
type Historian interface {
	// History lists the newest archived revisions of key, newest first.
	History(ctx context.Context, key string, limit int) ([]Revision, error)
}

// StoreError is a custom error type for backend failures with additional context.
type StoreError struct {
	Backend   string // The backend (e.g., "postgres", "diskv")
	Operation string // The operation that failed (e.g., "get", "put")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %s failed: %s: %v", e.Operation, e.Backend, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Backend, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given backend, operation, message, and wrapped error.
func NewStoreError(backend, operation, message string, err error) *StoreError {
	return &StoreError{
		Backend:   backend,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

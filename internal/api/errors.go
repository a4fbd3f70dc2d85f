package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/lumina/internal/api/shared"
	"github.com/phrazzld/lumina/internal/blob"
	"github.com/phrazzld/lumina/internal/platform/dictionary"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes.
func MapErrorToStatusCode(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge

	case errors.Is(err, shared.ErrEmptyBody),
		errors.Is(err, blob.ErrInvalidDocument),
		errors.Is(err, blob.ErrInvalidKey),
		errors.Is(err, dictionary.ErrEmptyWord):
		return http.StatusBadRequest

	case errors.Is(err, blob.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, blob.ErrUnsupported):
		return http.StatusNotImplemented

	case errors.Is(err, blob.ErrUnavailable),
		errors.Is(err, dictionary.ErrCircuitOpen):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return "Request body too large"
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is missing"
	case errors.Is(err, blob.ErrInvalidDocument):
		return "Invalid data structure received"
	case errors.Is(err, blob.ErrInvalidKey):
		return "Invalid storage key"
	case errors.Is(err, dictionary.ErrEmptyWord):
		return "Word is required"
	case errors.Is(err, blob.ErrNotFound):
		return "Not found"
	case errors.Is(err, blob.ErrUnsupported):
		return "Not supported by this storage backend"
	case errors.Is(err, blob.ErrUnavailable):
		return "Storage is temporarily unavailable"
	case errors.Is(err, dictionary.ErrCircuitOpen):
		return "Dictionary is temporarily unavailable"
	default:
		return "An internal server error occurred"
	}
}

// respondWithMappedError writes the status and safe message for err.
func respondWithMappedError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

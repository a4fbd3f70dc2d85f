package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/lumina/internal/api/shared"
	"github.com/phrazzld/lumina/internal/blob"
	"github.com/phrazzld/lumina/internal/platform/dictionary"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge, "Request body too large"},
		{"empty body", shared.ErrEmptyBody, http.StatusBadRequest, "Request body is missing"},
		{"invalid document", fmt.Errorf("%w: missing tasks", blob.ErrInvalidDocument), http.StatusBadRequest, "Invalid data structure received"},
		{"invalid key", blob.ErrInvalidKey, http.StatusBadRequest, "Invalid storage key"},
		{"empty word", dictionary.ErrEmptyWord, http.StatusBadRequest, "Word is required"},
		{"not found", blob.ErrNotFound, http.StatusNotFound, "Not found"},
		{"unsupported", blob.ErrUnsupported, http.StatusNotImplemented, "Not supported by this storage backend"},
		{
			"unavailable wrapped in store error",
			blob.NewStoreError("postgres", "get", "query failed", blob.ErrUnavailable),
			http.StatusServiceUnavailable,
			"Storage is temporarily unavailable",
		},
		{"circuit open", dictionary.ErrCircuitOpen, http.StatusServiceUnavailable, "Dictionary is temporarily unavailable"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "An internal server error occurred"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.status, MapErrorToStatusCode(tc.err))
			assert.Equal(t, tc.message, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestGetSafeErrorMessageNil(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}

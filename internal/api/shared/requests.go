package shared

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ErrEmptyBody is returned by ReadBody when there is nothing to read.
var ErrEmptyBody = errors.New("request body is missing")

var queryValidator = validator.New()

// ReadBody returns the request body, refusing more than limit bytes with an
// *http.MaxBytesError.
func ReadBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	if r.Body == nil {
		return nil, ErrEmptyBody
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	switch {
	case err != nil:
		return nil, err
	case len(body) == 0:
		return nil, ErrEmptyBody
	}
	return body, nil
}

// ValidateQuery checks q against its `validate` struct tags.
func ValidateQuery(q interface{}) error {
	return queryValidator.Struct(q)
}

package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/phrazzld/lumina/internal/blob"
)

// SQLSTATE codes the blob store cares about.
const (
	invalidTextRepresentationCode = "22P02" // jsonb cast of malformed text
	invalidJSONTextCode           = "22032"
	notNullViolationCode          = "23502"
	tooManyConnectionsCode        = "53300"
	adminShutdownCode             = "57P01"
)

var codeErrors = map[string]error{
	invalidTextRepresentationCode: blob.ErrInvalidDocument,
	invalidJSONTextCode:           blob.ErrInvalidDocument,
	notNullViolationCode:          blob.ErrInvalidDocument,
	tooManyConnectionsCode:        blob.ErrUnavailable,
	adminShutdownCode:             blob.ErrUnavailable,
}

// MapError wraps err in the blob error matching its SQLSTATE, or in
// blob.ErrUnavailable when the server could not be reached. Other errors are
// returned as is.
func MapError(err error) error {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %v", blob.ErrUnavailable, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	sentinel, ok := codeErrors[pgErr.Code]
	if !ok {
		return err
	}
	if pgErr.ColumnName != "" {
		return fmt.Errorf("%w: column %s: %v", sentinel, pgErr.ColumnName, err)
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}

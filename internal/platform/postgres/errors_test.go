package postgres

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/lumina/internal/blob"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	plain := errors.New("plain error")

	tests := []struct {
		name    string
		err     error
		wantIs  error
		wantRaw bool
	}{
		{"nil", nil, nil, false},
		{"invalid json", &pgconn.PgError{Code: invalidTextRepresentationCode}, blob.ErrInvalidDocument, false},
		{"invalid json text", &pgconn.PgError{Code: invalidJSONTextCode}, blob.ErrInvalidDocument, false},
		{"not null", &pgconn.PgError{Code: notNullViolationCode, ColumnName: "data"}, blob.ErrInvalidDocument, false},
		{"too many connections", &pgconn.PgError{Code: tooManyConnectionsCode}, blob.ErrUnavailable, false},
		{"shutdown", &pgconn.PgError{Code: adminShutdownCode}, blob.ErrUnavailable, false},
		{"unmapped pg error", &pgconn.PgError{Code: "42P01"}, nil, true},
		{"plain error", plain, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := MapError(tt.err)
			switch {
			case tt.err == nil:
				assert.NoError(t, got)
			case tt.wantRaw:
				assert.Same(t, tt.err, got)
			default:
				assert.ErrorIs(t, got, tt.wantIs)
				assert.Contains(t, got.Error(), tt.err.Error())
				var pgErr *pgconn.PgError
				if errors.As(tt.err, &pgErr) && pgErr.ColumnName != "" {
					assert.Contains(t, got.Error(), "column "+pgErr.ColumnName)
				}
			}
		})
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	t.Parallel()

	fsys := Migrations()
	for _, name := range []string{"00001_create_blobs.sql", "00002_create_blob_history.sql"} {
		data, err := fs.ReadFile(fsys, name)
		assert.NoError(t, err, name)
		assert.Contains(t, string(data), "-- +goose Up")
	}
}

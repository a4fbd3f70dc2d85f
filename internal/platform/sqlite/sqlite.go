// Package sqlite stores the knowledge-base document in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"
	"github.com/mitchellh/go-homedir"
	"github.com/pressly/goose/v3"

	"github.com/phrazzld/lumina/internal/blob"
	"github.com/phrazzld/lumina/internal/platform/sqlblob"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Dialect is the SQLite statement set for sqlblob.Store.
var Dialect = sqlblob.Dialect{
	Name:    "sqlite",
	Get:     `SELECT data FROM blobs WHERE key = ?`,
	Archive: `INSERT INTO blob_history (key, data) SELECT key, data FROM blobs WHERE key = ?`,
	Upsert: `INSERT INTO blobs (key, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
	Prune: `DELETE FROM blob_history WHERE key = ?1 AND id NOT IN (
		SELECT id FROM blob_history WHERE key = ?1 ORDER BY id DESC LIMIT ?2)`,
	History: `SELECT id, archived_at, length(CAST(data AS BLOB))
		FROM blob_history WHERE key = ? ORDER BY id DESC LIMIT ?`,
	MapError: MapError,
}

// Open opens (creating if needed) the database file at path. A leading ~ is
// expanded to the home directory.
func Open(path string, logger *slog.Logger) (*sql.DB, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand sqlite path: %w", err)
	}
	if dir := filepath.Dir(expanded); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", "file:"+expanded+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// One writer at a time.
	db.SetMaxOpenConns(1)

	logger.Info("database connection established",
		slog.String("backend", "sqlite"),
		slog.String("path", expanded))
	return db, nil
}

// Migrations returns the embedded migration files.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Migrate brings the schema up to date.
func Migrate(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	return sqlblob.Migrate(ctx, goose.DialectSQLite3, db, Migrations(), logger)
}

// NewBlobStore opens path, migrates it and returns a blob store over it. The
// caller closes the returned *sql.DB.
func NewBlobStore(ctx context.Context, path string, historyLimit int, logger *slog.Logger) (*sqlblob.Store, *sql.DB, error) {
	db, err := Open(path, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := Migrate(ctx, db, logger); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return sqlblob.New(db, Dialect, historyLimit, logger), db, nil
}

// MapError maps SQLite result codes onto blob errors.
func MapError(err error) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}
	switch sqliteErr.Code {
	case sqlite3.ErrConstraint:
		return fmt.Errorf("%w: %v", blob.ErrInvalidDocument, err)
	case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrCantOpen:
		return fmt.Errorf("%w: %v", blob.ErrUnavailable, err)
	}
	return err
}

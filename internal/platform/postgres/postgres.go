package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/pressly/goose/v3"

	"github.com/phrazzld/lumina/internal/platform/sqlblob"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Dialect is the PostgreSQL statement set for sqlblob.Store.
var Dialect = sqlblob.Dialect{
	Name:    "postgres",
	Get:     `SELECT data FROM blobs WHERE key = $1`,
	Archive: `INSERT INTO blob_history (key, data) SELECT key, data FROM blobs WHERE key = $1`,
	Upsert: `INSERT INTO blobs (key, data, updated_at) VALUES ($1, $2::jsonb, now())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
	Prune: `DELETE FROM blob_history WHERE key = $1 AND id NOT IN (
		SELECT id FROM blob_history WHERE key = $1 ORDER BY id DESC LIMIT $2)`,
	History: `SELECT id, archived_at, octet_length(data::text)
		FROM blob_history WHERE key = $1 ORDER BY id DESC LIMIT $2`,
	MapError: MapError,
}

// Open establishes a connection to the database and configures connection pools.
func Open(ctx context.Context, url string, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established", slog.String("backend", "postgres"))
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
	return sqlblob.Migrate(ctx, goose.DialectPostgres, db, Migrations(), logger)
}

// NewBlobStore opens url, migrates it and returns a blob store over it. The
// caller closes the returned *sql.DB.
func NewBlobStore(ctx context.Context, url string, historyLimit int, logger *slog.Logger) (*sqlblob.Store, *sql.DB, error) {
	db, err := Open(ctx, url, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := Migrate(ctx, db, logger); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return sqlblob.New(db, Dialect, historyLimit, logger), db, nil
}

// Package sqlblob implements blob.Store on database/sql. The SQL text comes
// from a Dialect so the same store serves PostgreSQL and SQLite.
package sqlblob

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/lumina/internal/blob"
	"github.com/phrazzld/lumina/internal/platform/logger"
	"github.com/phrazzld/lumina/internal/redact"
)

// Dialect holds the statements for one database.
type Dialect struct {
	// Name identifies the backend in errors and logs.
	Name string

	// Get selects data for key ($1/?).
	Get string
	// Archive copies the current row for key into the history table.
	Archive string
	// Upsert inserts or replaces data (arg 2) for key (arg 1).
	Upsert string
	// Prune keeps the newest N (arg 2) history rows for key (arg 1).
	Prune string
	// History lists id, archived_at and data length for key, newest first, limited by arg 2.
	History string

	// MapError translates driver errors into blob errors. May be nil.
	MapError func(error) error
}

// DefaultHistoryLimit is the number of replaced documents kept per key.
const DefaultHistoryLimit = 10

// Store is a SQL-backed blob.Store that archives replaced documents.
type Store struct {
	db           *sql.DB
	dialect      Dialect
	historyLimit int
	logger       *slog.Logger
}

// New creates a Store. A historyLimit of 0 disables archiving.
func New(db *sql.DB, dialect Dialect, historyLimit int, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	if historyLimit < 0 {
		historyLimit = 0
	}
	return &Store{
		db:           db,
		dialect:      dialect,
		historyLimit: historyLimit,
		logger:       log.With(slog.String("component", dialect.Name+"_blob_store")),
	}
}

var (
	_ blob.Store     = (*Store)(nil)
	_ blob.Historian = (*Store)(nil)
	_ blob.Pinger    = (*Store)(nil)
)

func (s *Store) mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return blob.ErrNotFound
	}
	if s.dialect.MapError != nil {
		return s.dialect.MapError(err)
	}
	return err
}

// Get implements blob.Store.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if err := blob.ValidateKey(key); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.QueryRowContext(ctx, s.dialect.Get, key).Scan(&data)
	if err != nil {
		mapped := s.mapError(err)
		if errors.Is(mapped, blob.ErrNotFound) {
			return nil, blob.ErrNotFound
		}
		log.Error("failed to read blob",
			slog.String("key", key),
			redact.Attr(err))
		return nil, blob.NewStoreError(s.dialect.Name, "get", "failed to read blob", mapped)
	}
	return data, nil
}

// Put implements blob.Store. The previous document, if any, is archived in
// the same transaction.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if err := blob.ValidateKey(key); err != nil {
		return err
	}

	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		if s.historyLimit > 0 {
			if _, err := tx.ExecContext(ctx, s.dialect.Archive, key); err != nil {
				return fmt.Errorf("archive: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx, s.dialect.Upsert, key, string(data)); err != nil {
			return fmt.Errorf("upsert: %w", err)
		}
		if s.historyLimit > 0 {
			if _, err := tx.ExecContext(ctx, s.dialect.Prune, key, s.historyLimit); err != nil {
				return fmt.Errorf("prune: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to write blob",
			slog.String("key", key),
			slog.Int("bytes", len(data)),
			redact.Attr(err))
		return blob.NewStoreError(s.dialect.Name, "put", "failed to write blob", s.mapError(err))
	}

	log.Debug("blob written", slog.String("key", key), slog.Int("bytes", len(data)))
	return nil
}

// History implements blob.Historian.
func (s *Store) History(ctx context.Context, key string, limit int) ([]blob.Revision, error) {
	if err := blob.ValidateKey(key); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.History, key, limit)
	if err != nil {
		return nil, blob.NewStoreError(s.dialect.Name, "history", "failed to query history", s.mapError(err))
	}
	defer func() { _ = rows.Close() }()

	revisions := make([]blob.Revision, 0)
	for rows.Next() {
		var (
			r  blob.Revision
			at time.Time
		)
		if err := rows.Scan(&r.ID, &at, &r.Bytes); err != nil {
			return nil, blob.NewStoreError(s.dialect.Name, "history", "failed to scan history row", err)
		}
		r.ArchivedAt = at.UTC()
		revisions = append(revisions, r)
	}
	if err := rows.Err(); err != nil {
		return nil, blob.NewStoreError(s.dialect.Name, "history", "failed to iterate history", err)
	}
	return revisions, nil
}

// Ping implements blob.Pinger.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", blob.ErrUnavailable, err)
	}
	return nil
}

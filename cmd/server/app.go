package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/lumina/internal/blob"
	"github.com/phrazzld/lumina/internal/config"
	"github.com/phrazzld/lumina/internal/platform/dictionary"
	"github.com/phrazzld/lumina/internal/platform/disk"
	"github.com/phrazzld/lumina/internal/platform/gemini"
	"github.com/phrazzld/lumina/internal/platform/memory"
	"github.com/phrazzld/lumina/internal/platform/metrics"
	"github.com/phrazzld/lumina/internal/platform/postgres"
	"github.com/phrazzld/lumina/internal/platform/sqlite"
	"github.com/phrazzld/lumina/internal/redact"
)

// application holds the server's shared dependencies so they can be closed
// together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	db         *sql.DB
	store      blob.Store
	metrics    *metrics.Collector
	dictionary dictionary.Provider
}

// newApplication opens the configured blob backend and builds the
// dictionary provider chain.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		metrics: metrics.NewCollector(),
	}

	if err := blob.ValidateKey(cfg.Storage.BlobKey); err != nil {
		return nil, fmt.Errorf("invalid storage.blob_key: %w", err)
	}

	store, db, err := openBlobStore(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s blob store: %w", cfg.Storage.Backend, err)
	}
	app.db = db
	app.store = metrics.InstrumentStore(store, cfg.Storage.Backend, app.metrics)
	logger.Info("blob store ready",
		slog.String("backend", cfg.Storage.Backend),
		slog.String("key", cfg.Storage.BlobKey))

	app.dictionary = newDictionary(ctx, cfg, logger)
	return app, nil
}

// openBlobStore returns the store for cfg.Backend. The *sql.DB is non-nil
// only for SQL backends.
func openBlobStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (blob.Store, *sql.DB, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		logger.Warn("using in-memory blob store; data is lost on restart")
		return memory.NewBlobStore(), nil, nil
	case config.BackendPostgres:
		s, db, err := postgres.NewBlobStore(ctx, cfg.DatabaseURL, cfg.HistoryLimit, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, db, nil
	case config.BackendSQLite:
		s, db, err := sqlite.NewBlobStore(ctx, cfg.SQLitePath, cfg.HistoryLimit, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, db, nil
	case config.BackendDisk:
		d, err := disk.Open(cfg.DiskPath)
		if err != nil {
			return nil, nil, err
		}
		return disk.NewBlobStore(d, logger), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// newDictionary builds the lookup chain: the public dictionary first, then
// Gemini when an API key is configured.
func newDictionary(ctx context.Context, cfg *config.Config, logger *slog.Logger) dictionary.Provider {
	client := dictionary.NewClient(dictionary.Config{
		BaseURL:        cfg.Dictionary.URL,
		Timeout:        cfg.Dictionary.Timeout,
		MaxDefinitions: cfg.Dictionary.MaxDefinitions,
	}, logger)

	if cfg.LLM.GeminiAPIKey == "" {
		return client
	}
	gen, err := gemini.NewGenerator(ctx, logger, cfg.LLM)
	if err != nil {
		logger.Warn("gemini fallback disabled", redact.Attr(err))
		return client
	}
	logger.Info("gemini fallback enabled", slog.String("model", cfg.LLM.ModelName))
	return dictionary.Chain{client, gen}
}

// migrate applies schema migrations for SQL backends.
func migrate(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) error {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.Backend {
	case config.BackendPostgres:
		if db, err = postgres.Open(ctx, cfg.DatabaseURL, logger); err == nil {
			defer db.Close()
			err = postgres.Migrate(ctx, db, logger)
		}
	case config.BackendSQLite:
		if db, err = sqlite.Open(cfg.SQLitePath, logger); err == nil {
			defer db.Close()
			err = sqlite.Migrate(ctx, db, logger)
		}
	default:
		logger.Info("backend has no schema; nothing to migrate", slog.String("backend", cfg.Backend))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db == nil {
		return
	}
	if err := app.db.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		app.logger.Error("failed to close database connection", redact.Attr(err))
		return
	}
	app.db = nil
	app.logger.Info("database connection closed")
}

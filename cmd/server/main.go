// Package main runs the Lumina persistence endpoint: it stores the whole
// knowledge base as one JSON document and proxies dictionary lookups.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/lumina/internal/config"
	"github.com/phrazzld/lumina/internal/platform/logger"
	"github.com/spf13/viper"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("lumina server: %v", err)
	}
}

// run parses flags, loads configuration and either migrates the schema or
// serves until ctx is canceled.
func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(out)
	configFile := fs.String("config", "", "Path to a config file (default: ./config.yaml or ~/.lumina/config.yaml)")
	migrateOnly := fs.Bool("migrate", false, "Apply database migrations for the configured backend and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadFrom(viper.New(), *configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.SetupWithWriter(cfg.Server, out)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	l.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("backend", cfg.Storage.Backend),
		slog.Bool("llm_fallback", cfg.LLM.GeminiAPIKey != ""))

	if *migrateOnly {
		return migrate(ctx, cfg.Storage, l)
	}

	app, err := newApplication(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer app.cleanup()

	return app.startHTTPServer(ctx, app.setupRouter())
}

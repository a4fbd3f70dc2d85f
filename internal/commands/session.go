package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mitchellh/go-homedir"
	"github.com/phrazzld/lumina/internal/config"
	"github.com/phrazzld/lumina/internal/domain/srs"
	"github.com/phrazzld/lumina/internal/events"
	"github.com/phrazzld/lumina/internal/platform/dictionary"
	"github.com/phrazzld/lumina/internal/platform/disk"
	"github.com/phrazzld/lumina/internal/platform/gemini"
	"github.com/phrazzld/lumina/internal/platform/logger"
	"github.com/phrazzld/lumina/internal/platform/remote"
	"github.com/phrazzld/lumina/internal/redact"
	"github.com/phrazzld/lumina/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// session holds what a single command invocation needs.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	remote *remote.Client
	out    io.Writer
}

// newSession loads configuration and applies flag overrides.
func newSession(cmd *cobra.Command, o *rootOptions) (*session, error) {
	level, ok := logger.ParseLevel(o.logLevel)
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", o.logLevel)
	}
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cfg, err := config.LoadFrom(viper.New(), o.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if o.endpoint != "" {
		cfg.Client.Endpoint = o.endpoint
	}
	if o.stateDir != "" {
		dir, err := homedir.Expand(o.stateDir)
		if err != nil {
			return nil, fmt.Errorf("invalid state directory: %w", err)
		}
		cfg.Client.StateDir = dir
	}

	return &session{
		cfg:    cfg,
		logger: log,
		remote: remote.New(cfg.Client.Endpoint,
			remote.WithTimeout(cfg.Client.RequestTimeout),
			remote.WithLogger(log)),
		out: cmd.OutOrStdout(),
	}, nil
}

// openStore builds the domain store over the remote gateway, loads it and
// runs the once-a-day task clear.
func (s *session) openStore(ctx context.Context) (*store.Store, error) {
	d, err := disk.Open(s.cfg.Client.StateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open state directory: %w", err)
	}

	loc := s.cfg.Review.Location()
	scheduler := srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{
		Offsets:  s.cfg.Review.Offsets,
		Location: loc,
	}))

	st := store.New(s.remote,
		store.WithLogger(s.logger),
		store.WithLocation(loc),
		store.WithScheduler(scheduler),
		store.WithMarkerStore(disk.NewMarkers(d)),
		store.WithSaveDelay(s.cfg.Client.SaveDebounce),
		store.WithSaveTimeout(s.cfg.Client.RequestTimeout))

	if err := st.Load(ctx); err != nil {
		var se *remote.StatusError
		if errors.As(err, &se) {
			return nil, fmt.Errorf("could not load knowledge base from %s: %s", s.remote.Endpoint(), se.Message)
		}
		return nil, fmt.Errorf("could not load knowledge base from %s: %w", s.remote.Endpoint(), err)
	}
	st.Subscribe(events.Only(events.HandlerFunc(func(ctx context.Context, e *events.ChangeEvent) error {
		if e.Action != events.ActionPruned {
			return nil
		}
		var counts struct {
			Dropped int `json:"dropped"`
		}
		if err := e.UnmarshalPayload(&counts); err != nil {
			return err
		}
		s.logger.InfoContext(ctx, "cleared stale tasks from previous days", slog.Int("dropped", counts.Dropped))
		return nil
	}), events.CollectionTasks))

	if _, err := st.RunDailyClear(ctx); err != nil {
		s.logger.Warn("daily task clear failed", redact.Attr(err))
	}
	return st, nil
}

// withStore runs fn against a loaded store and flushes pending saves. A
// failed save is reported even when fn succeeded.
func withStore(cmd *cobra.Command, o *rootOptions, fn func(s *session, st *store.Store) error) error {
	s, err := newSession(cmd, o)
	if err != nil {
		return err
	}
	st, err := s.openStore(cmd.Context())
	if err != nil {
		return err
	}

	runErr := fn(s, st)
	if closeErr := st.Close(); closeErr != nil {
		return errors.Join(runErr, fmt.Errorf("changes were not saved: %w", closeErr))
	}
	return runErr
}

// dictionaryProvider returns the public dictionary, with Gemini as a
// fallback when an API key is configured.
func (s *session) dictionaryProvider(ctx context.Context) dictionary.Provider {
	client := dictionary.NewClient(dictionary.Config{
		BaseURL:        s.cfg.Dictionary.URL,
		Timeout:        s.cfg.Dictionary.Timeout,
		MaxDefinitions: s.cfg.Dictionary.MaxDefinitions,
	}, s.logger)
	if s.cfg.LLM.GeminiAPIKey == "" {
		return client
	}
	gen, err := gemini.NewGenerator(ctx, s.logger, s.cfg.LLM)
	if err != nil {
		s.logger.Warn("gemini fallback disabled", redact.Attr(err))
		return client
	}
	return dictionary.Chain{client, gen}
}

package dictionary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/phrazzld/lumina/internal/domain"
	"github.com/phrazzld/lumina/internal/redact"
)

// Defaults for the public dictionary API.
const (
	DefaultBaseURL        = "https://api.dictionaryapi.dev/api/v2/entries/en"
	DefaultTimeout        = 4 * time.Second
	DefaultMaxDefinitions = 3
	MaxExampleLength      = 200
)

// notFoundTitle marks a 404 that means "word has no definitions" rather than
// a missing endpoint.
const notFoundTitle = "No Definitions Found"

// Config configures a Client.
type Config struct {
	BaseURL        string
	Timeout        time.Duration
	MaxDefinitions int
}

// Client queries dictionaryapi.dev-compatible endpoints.
type Client struct {
	baseURL string
	max     int
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// apiEntry mirrors one element of the API's top-level array.
type apiEntry struct {
	Word     string       `json:"word"`
	Meanings []apiMeaning `json:"meanings"`
}

type apiMeaning struct {
	PartOfSpeech string          `json:"partOfSpeech"`
	Definitions  []apiDefinition `json:"definitions"`
}

type apiDefinition struct {
	Definition string `json:"definition"`
	Example    string `json:"example"`
}

type apiError struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// NewClient creates a Client. Zero config fields take the defaults.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxDefinitions <= 0 {
		cfg.MaxDefinitions = DefaultMaxDefinitions
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "dictionary_client"))

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		max:     cfg.MaxDefinitions,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "dictionary",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})
	return c
}

// Lookup implements Provider. A "No Definitions Found" 404 yields an empty
// slice; any other failure yields an error wrapping ErrLookupFailed.
func (c *Client) Lookup(ctx context.Context, word string) ([]domain.WordDefinition, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, ErrEmptyWord
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, word)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		c.logger.WarnContext(ctx, "dictionary lookup failed",
			slog.String("word", word),
			redact.Attr(err))
		return nil, err
	}
	return result.([]domain.WordDefinition), nil
}

func (c *Client) fetch(ctx context.Context, word string) ([]domain.WordDefinition, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+url.PathEscape(word), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrLookupFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound {
			var apiErr apiError
			if json.Unmarshal(body, &apiErr) == nil && apiErr.Title == notFoundTitle {
				return []domain.WordDefinition{}, nil
			}
		}
		return nil, fmt.Errorf("%w: status %d", ErrLookupFailed, resp.StatusCode)
	}

	var entries []apiEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrLookupFailed, err)
	}
	return extract(entries, c.max), nil
}

// extract converts the first API entry into at most max local definitions,
// mapping parts of speech and truncating examples.
func extract(entries []apiEntry, max int) []domain.WordDefinition {
	defs := make([]domain.WordDefinition, 0, max)
	if len(entries) == 0 {
		return defs
	}
	for _, meaning := range entries[0].Meanings {
		pos := domain.NormalizePartOfSpeech(meaning.PartOfSpeech)
		for _, d := range meaning.Definitions {
			if len(defs) >= max {
				return defs
			}
			defs = append(defs, domain.WordDefinition{
				PartOfSpeech: pos,
				Definition:   d.Definition,
				Example:      truncate(d.Example, MaxExampleLength),
			})
		}
	}
	return defs
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Package dictionary looks up English word definitions to prefill new
// vocabulary entries. Lookups are a convenience: every failure degrades to
// "no result" and never blocks manual entry.
package dictionary

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/phrazzld/lumina/internal/domain"
	"github.com/phrazzld/lumina/internal/redact"
)

// Common lookup errors.
var (
	// ErrEmptyWord is returned for a blank lookup term.
	ErrEmptyWord = errors.New("word cannot be empty")

	// ErrLookupFailed wraps transport, status and decoding failures.
	ErrLookupFailed = errors.New("dictionary lookup failed")

	// ErrCircuitOpen is returned while the breaker rejects calls.
	ErrCircuitOpen = errors.New("dictionary temporarily unavailable")
)

// Provider returns definitions for a word. A nil error with an empty,
// non-nil slice means the word is known to have no definitions.
type Provider interface {
	Lookup(ctx context.Context, word string) ([]domain.WordDefinition, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, word string) ([]domain.WordDefinition, error)

// Lookup implements Provider.
func (f ProviderFunc) Lookup(ctx context.Context, word string) ([]domain.WordDefinition, error) {
	return f(ctx, word)
}

// Chain asks each provider in turn and returns the first non-empty result.
// If every provider fails, the last error is returned; if some succeeded with
// no definitions, an empty slice is returned.
type Chain []Provider

// Lookup implements Provider.
func (c Chain) Lookup(ctx context.Context, word string) ([]domain.WordDefinition, error) {
	var (
		lastErr error
		empty   bool
	)
	for _, p := range c {
		defs, err := p.Lookup(ctx, word)
		if err != nil {
			lastErr = err
			continue
		}
		if len(defs) > 0 {
			return defs, nil
		}
		empty = true
	}
	if empty {
		return []domain.WordDefinition{}, nil
	}
	return nil, lastErr
}

// Prefill runs a lookup and swallows failures: it returns nil for "no result"
// and logs the reason.
func Prefill(ctx context.Context, p Provider, word string, logger *slog.Logger) []domain.WordDefinition {
	word = strings.TrimSpace(word)
	if word == "" || p == nil {
		return nil
	}
	defs, err := p.Lookup(ctx, word)
	if err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "dictionary lookup degraded to manual entry",
				slog.String("word", word),
				redact.Attr(err))
		}
		return nil
	}
	return defs
}

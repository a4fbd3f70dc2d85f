package dictionary

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/lumina/internal/domain"
	"github.com/phrazzld/lumina/internal/platform/logger"
)

const serendipityJSON = `[{
  "word": "serendipity",
  "meanings": [
    {"partOfSpeech": "noun", "definitions": [
      {"definition": "An unsought, unintended discovery.", "example": "It was pure serendipity."},
      {"definition": "The faculty of making such discoveries."}
    ]},
    {"partOfSpeech": "Verb", "definitions": [
      {"definition": "To find by chance."},
      {"definition": "Never reached."}
    ]}
  ]
}]`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, Timeout: time.Second}, logger.Discard())
}

func TestClientLookup(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/serendipity", r.URL.Path)
		_, _ = w.Write([]byte(serendipityJSON))
	})

	defs, err := c.Lookup(context.Background(), "  serendipity ")
	require.NoError(t, err)
	require.Len(t, defs, DefaultMaxDefinitions, "results are capped")
	assert.Equal(t, domain.PartOfSpeechNoun, defs[0].PartOfSpeech)
	assert.Equal(t, "It was pure serendipity.", defs[0].Example)
	assert.Empty(t, defs[1].Example)
	assert.Equal(t, domain.PartOfSpeechVerb, defs[2].PartOfSpeech, "part of speech is matched case-insensitively")
	assert.Equal(t, "To find by chance.", defs[2].Definition)
}

func TestClientLookupNoDefinitions(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"title":"No Definitions Found","message":"Sorry pal"}`))
	})

	defs, err := c.Lookup(context.Background(), "qwzx")
	require.NoError(t, err)
	assert.NotNil(t, defs)
	assert.Empty(t, defs)
}

func TestClientLookupFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"plain 404", func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) }},
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) }},
		{"bad json", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"not":"an array"`)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newTestClient(t, tt.handler)
			defs, err := c.Lookup(context.Background(), "word")
			assert.Nil(t, defs)
			assert.ErrorIs(t, err, ErrLookupFailed)
		})
	}
}

func TestClientLookupTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	c := NewClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, logger.Discard())
	start := time.Now()
	defs, err := c.Lookup(context.Background(), "slow")
	assert.Nil(t, defs)
	assert.ErrorIs(t, err, ErrLookupFailed)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestClientCircuitBreakerOpens(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 3; i++ {
		_, err := c.Lookup(context.Background(), "word")
		assert.ErrorIs(t, err, ErrLookupFailed)
	}
	_, err := c.Lookup(context.Background(), "word")
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(3), calls.Load(), "open breaker short-circuits the request")
}

func TestClientLookupEmptyWord(t *testing.T) {
	t.Parallel()

	c := NewClient(Config{}, nil)
	_, err := c.Lookup(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyWord)
}

func TestExtractTruncatesExamples(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("é", MaxExampleLength+50)
	entries := []apiEntry{{
		Word: "x",
		Meanings: []apiMeaning{{
			PartOfSpeech: "gerund",
			Definitions:  []apiDefinition{{Definition: "d", Example: long}},
		}},
	}}

	defs := extract(entries, 3)
	require.Len(t, defs, 1)
	assert.Equal(t, domain.PartOfSpeechOther, defs[0].PartOfSpeech)
	assert.Equal(t, MaxExampleLength, len([]rune(defs[0].Example)))

	assert.Empty(t, extract(nil, 3))
}

func TestChain(t *testing.T) {
	t.Parallel()

	failing := ProviderFunc(func(ctx context.Context, word string) ([]domain.WordDefinition, error) {
		return nil, ErrLookupFailed
	})
	empty := ProviderFunc(func(ctx context.Context, word string) ([]domain.WordDefinition, error) {
		return []domain.WordDefinition{}, nil
	})
	found := ProviderFunc(func(ctx context.Context, word string) ([]domain.WordDefinition, error) {
		return []domain.WordDefinition{{PartOfSpeech: "noun", Definition: "d"}}, nil
	})

	tests := []struct {
		name      string
		chain     Chain
		wantLen   int
		wantNil   bool
		wantError bool
	}{
		{"first hit wins", Chain{found, failing}, 1, false, false},
		{"falls through failures", Chain{failing, found}, 1, false, false},
		{"falls through empty", Chain{empty, found}, 1, false, false},
		{"empty beats failure", Chain{failing, empty}, 0, false, false},
		{"all failing", Chain{failing, failing}, 0, true, true},
		{"no providers", Chain{}, 0, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			defs, err := tt.chain.Lookup(context.Background(), "w")
			assert.Len(t, defs, tt.wantLen)
			assert.Equal(t, tt.wantNil, defs == nil)
			assert.Equal(t, tt.wantError, err != nil)
		})
	}
}

func TestPrefill(t *testing.T) {
	t.Parallel()

	log, buf := logger.GetTestLogger(t)
	failing := ProviderFunc(func(ctx context.Context, word string) ([]domain.WordDefinition, error) {
		return nil, errors.New("boom")
	})

	assert.Nil(t, Prefill(context.Background(), failing, "word", log))
	logger.AssertLogContains(t, buf, "degraded to manual entry")
	assert.Nil(t, Prefill(context.Background(), failing, "  ", log))
	assert.Nil(t, Prefill(context.Background(), nil, "word", log))
}

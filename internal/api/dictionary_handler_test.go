package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/lumina/internal/domain"
	"github.com/phrazzld/lumina/internal/platform/dictionary"
	"github.com/phrazzld/lumina/internal/platform/logger"
	"github.com/stretchr/testify/assert"
)

type recordingObserver struct {
	mu      sync.Mutex
	results []string
}

func (o *recordingObserver) ObserveLookup(result string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.results = append(o.results, result)
}

func serveLookup(h *DictionaryHandler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get("/api/dictionary/{word}", h.Lookup)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestDictionaryHandler_Lookup(t *testing.T) {
	t.Parallel()

	found := []domain.WordDefinition{{PartOfSpeech: "noun", Definition: "a happy accident"}}

	tests := []struct {
		name        string
		path        string
		provider    dictionary.ProviderFunc
		wantStatus  int
		wantBody    string
		wantObserve []string
	}{
		{
			name: "found",
			path: "/api/dictionary/serendipity",
			provider: func(_ context.Context, word string) ([]domain.WordDefinition, error) {
				if word != "serendipity" {
					return nil, fmt.Errorf("unexpected word %q", word)
				}
				return found, nil
			},
			wantStatus:  http.StatusOK,
			wantBody:    `{"word":"serendipity","definitions":[{"partOfSpeech":"noun","definition":"a happy accident"}]}`,
			wantObserve: []string{LookupFound},
		},
		{
			name: "no definitions",
			path: "/api/dictionary/qwzx",
			provider: func(context.Context, string) ([]domain.WordDefinition, error) {
				return nil, nil
			},
			wantStatus:  http.StatusOK,
			wantBody:    `{"word":"qwzx","definitions":[]}`,
			wantObserve: []string{LookupEmpty},
		},
		{
			name: "upstream failure degrades to null",
			path: "/api/dictionary/cat",
			provider: func(context.Context, string) ([]domain.WordDefinition, error) {
				return nil, fmt.Errorf("%w: status 500", dictionary.ErrLookupFailed)
			},
			wantStatus:  http.StatusOK,
			wantBody:    `{"word":"cat","definitions":null}`,
			wantObserve: []string{LookupFailed},
		},
		{
			name: "circuit open degrades to null",
			path: "/api/dictionary/cat",
			provider: func(context.Context, string) ([]domain.WordDefinition, error) {
				return nil, dictionary.ErrCircuitOpen
			},
			wantStatus:  http.StatusOK,
			wantBody:    `{"word":"cat","definitions":null}`,
			wantObserve: []string{LookupFailed},
		},
		{
			name: "blank word",
			path: "/api/dictionary/%20%20",
			provider: func(context.Context, string) ([]domain.WordDefinition, error) {
				return nil, errors.New("must not be called")
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			obs := &recordingObserver{}
			h := NewDictionaryHandler(tc.provider, obs, logger.Discard())
			w := serveLookup(h, tc.path)

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantBody != "" {
				assert.JSONEq(t, tc.wantBody, w.Body.String())
			}
			assert.Equal(t, tc.wantObserve, obs.results)
		})
	}
}

func TestDictionaryHandler_NilObserver(t *testing.T) {
	t.Parallel()

	h := NewDictionaryHandler(dictionary.ProviderFunc(func(context.Context, string) ([]domain.WordDefinition, error) {
		return nil, nil
	}), nil, nil)
	w := serveLookup(h, "/api/dictionary/cat")
	assert.Equal(t, http.StatusOK, w.Code)
}

package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/lumina/internal/api/shared"
	"github.com/phrazzld/lumina/internal/domain"
	"github.com/phrazzld/lumina/internal/platform/dictionary"
	"github.com/phrazzld/lumina/internal/platform/logger"
	"github.com/phrazzld/lumina/internal/redact"
)

// Lookup outcomes reported to a LookupObserver.
const (
	LookupFound  = "found"
	LookupEmpty  = "empty"
	LookupFailed = "failed"
)

// LookupObserver records dictionary lookup outcomes.
type LookupObserver interface {
	ObserveLookup(result string)
}

// DefinitionsResponse is the body of GET /api/dictionary/{word}. A nil
// Definitions means the lookup failed and the client should fall back to
// manual entry; an empty list means the word has no definitions.
type DefinitionsResponse struct {
	Word        string                  `json:"word"`
	Definitions []domain.WordDefinition `json:"definitions"`
}

// DictionaryHandler proxies definition lookups so browsers and the CLI share
// one rate-limited, circuit-broken upstream.
type DictionaryHandler struct {
	provider dictionary.Provider
	observer LookupObserver
	logger   *slog.Logger
}

// NewDictionaryHandler creates a DictionaryHandler. observer may be nil.
func NewDictionaryHandler(p dictionary.Provider, observer LookupObserver, log *slog.Logger) *DictionaryHandler {
	if log == nil {
		log = slog.Default()
	}
	return &DictionaryHandler{
		provider: p,
		observer: observer,
		logger:   log.With(slog.String("component", "dictionary_handler")),
	}
}

func (h *DictionaryHandler) observe(result string) {
	if h.observer != nil {
		h.observer.ObserveLookup(result)
	}
}

// Lookup handles GET /api/dictionary/{word}. Upstream failures degrade to a
// 200 with null definitions.
func (h *DictionaryHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	word := strings.TrimSpace(chi.URLParam(r, "word"))
	if word == "" {
		respondWithMappedError(w, r, dictionary.ErrEmptyWord)
		return
	}

	defs, err := h.provider.Lookup(r.Context(), word)
	switch {
	case errors.Is(err, dictionary.ErrEmptyWord):
		respondWithMappedError(w, r, err)
		return
	case err != nil:
		h.observe(LookupFailed)
		logger.FromContextOrDefault(r.Context(), h.logger).Warn("dictionary lookup degraded",
			slog.String("word", word),
			redact.Attr(err))
		shared.RespondWithJSON(w, r, http.StatusOK, DefinitionsResponse{Word: word})
		return
	case len(defs) == 0:
		h.observe(LookupEmpty)
		defs = []domain.WordDefinition{}
	default:
		h.observe(LookupFound)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DefinitionsResponse{Word: word, Definitions: defs})
}

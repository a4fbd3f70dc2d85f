package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/phrazzld/lumina/internal/api/shared"
	"github.com/phrazzld/lumina/internal/blob"
	"github.com/phrazzld/lumina/internal/platform/logger"
)

// DefaultHistoryLimit is used when GET /api/data/history has no limit.
const DefaultHistoryLimit = 10

// BlobHandler serves the single knowledge-base document stored under key.
type BlobHandler struct {
	store  blob.Store
	key    string
	logger *slog.Logger
}

// NewBlobHandler creates a BlobHandler. key must satisfy blob.ValidateKey.
func NewBlobHandler(store blob.Store, key string, log *slog.Logger) (*BlobHandler, error) {
	if store == nil {
		return nil, errors.New("blob store cannot be nil")
	}
	if err := blob.ValidateKey(key); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &BlobHandler{
		store:  store,
		key:    key,
		logger: log.With(slog.String("component", "blob_handler")),
	}, nil
}

func (h *BlobHandler) log(r *http.Request) *slog.Logger {
	return logger.FromContextOrDefault(r.Context(), h.logger)
}

// GetData handles GET /api/data. A key that holds nothing yet yields the
// empty document.
func (h *BlobHandler) GetData(w http.ResponseWriter, r *http.Request) {
	data, err := h.store.Get(r.Context(), h.key)
	if errors.Is(err, blob.ErrNotFound) {
		h.log(r).Info("no document stored, returning empty structure", slog.String("key", h.key))
		shared.RespondWithRawJSON(w, r, http.StatusOK, blob.EmptyDocument())
		return
	}
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}
	h.log(r).Debug("document retrieved", slog.String("key", h.key), slog.Int("bytes", len(data)))
	shared.RespondWithRawJSON(w, r, http.StatusOK, data)
}

// SaveData handles POST /api/data. The body must carry all four arrays.
func (h *BlobHandler) SaveData(w http.ResponseWriter, r *http.Request) {
	body, err := shared.ReadBody(w, r, blob.MaxDocumentBytes)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	doc, err := blob.ParseDocument(body)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}
	canonical, err := doc.Canonical()
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	if err := h.store.Put(r.Context(), h.key, canonical); err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	h.log(r).Info("document saved",
		slog.String("key", h.key),
		slog.Int("bytes", len(canonical)),
		slog.Int("words", len(doc.Words)),
		slog.Int("knowledge_points", len(doc.KnowledgePoints)),
		slog.Int("categories", len(doc.Categories)),
		slog.Int("tasks", len(doc.Tasks)))
	shared.RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{Message: "Data saved successfully"})
}

// Options answers CORS preflight requests that reach the handler.
func (h *BlobHandler) Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

type historyQuery struct {
	Limit int `validate:"min=1,max=100"`
}

// History handles GET /api/data/history?limit=N.
func (h *BlobHandler) History(w http.ResponseWriter, r *http.Request) {
	q := historyQuery{Limit: DefaultHistoryLimit}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "limit must be an integer")
			return
		}
		q.Limit = n
	}
	if err := shared.ValidateQuery(q); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "limit must be between 1 and 100")
		return
	}

	historian, ok := h.store.(blob.Historian)
	if !ok {
		respondWithMappedError(w, r, blob.ErrUnsupported)
		return
	}
	revs, err := historian.History(r.Context(), h.key, q.Limit)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}
	if revs == nil {
		revs = []blob.Revision{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, revs)
}

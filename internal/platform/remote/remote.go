// Package remote is the client side of the persistence endpoint: it loads and
// saves the whole knowledge base with one GET and one POST against a single
// URL.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/lumina/internal/blob"
	"github.com/phrazzld/lumina/internal/domain"
	"github.com/phrazzld/lumina/internal/platform/logger"
	"github.com/phrazzld/lumina/internal/redact"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 10 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = blob.MaxDocumentBytes + 1024

// ErrUnavailable is returned when the endpoint cannot be reached at all.
var ErrUnavailable = errors.New("persistence endpoint unavailable")

// StatusError is a non-2xx response from the endpoint.
type StatusError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("persistence endpoint returned %d: %s", e.Status, e.Message)
}

// Client talks to the persistence endpoint. It implements store.Gateway.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client for endpoint, e.g. http://localhost:8080/api/data.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     &http.Client{Timeout: DefaultTimeout},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(slog.String("component", "remote_gateway"))
	return c
}

// Endpoint returns the URL the client talks to.
func (c *Client) Endpoint() string { return c.endpoint }

// LoadAll fetches the full snapshot. Missing arrays come back empty.
func (c *Client) LoadAll(ctx context.Context) (domain.Snapshot, error) {
	body, err := c.do(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return domain.Snapshot{}, err
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	snap = snap.WithDefaults()

	logger.FromContextOrDefault(ctx, c.logger).Debug("snapshot loaded",
		slog.Int("words", len(snap.Words)),
		slog.Int("knowledge_points", len(snap.KnowledgePoints)),
		slog.Int("categories", len(snap.Categories)),
		slog.Int("tasks", len(snap.Tasks)))
	return snap, nil
}

// SaveAll overwrites the stored snapshot.
func (c *Client) SaveAll(ctx context.Context, snap domain.Snapshot) error {
	payload, err := json.Marshal(snap.WithDefaults())
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if _, err := c.do(ctx, http.MethodPost, c.endpoint, payload); err != nil {
		return err
	}
	logger.FromContextOrDefault(ctx, c.logger).Debug("snapshot saved", slog.Int("bytes", len(payload)))
	return nil
}

// History lists archived revisions kept by the endpoint, newest first.
func (c *Client) History(ctx context.Context, limit int) ([]blob.Revision, error) {
	url := c.endpoint + "/history"
	if limit > 0 {
		url += "?limit=" + strconv.Itoa(limit)
	}
	body, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	var revs []blob.Revision
	if err := json.Unmarshal(body, &revs); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	return revs, nil
}

func (c *Client) do(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logger.FromContextOrDefault(ctx, c.logger).Warn("persistence request failed",
			slog.String("method", method),
			redact.Attr(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Status: resp.StatusCode, Message: errorMessage(body, resp.Status)}
	}
	return body, nil
}

// errorMessage extracts {"error": "..."} from body, falling back to the raw
// text or the status line.
func errorMessage(body []byte, status string) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		if len(text) > 200 {
			text = text[:200]
		}
		return text
	}
	return status
}

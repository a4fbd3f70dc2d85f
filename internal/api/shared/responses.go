package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/lumina/internal/platform/logger"
	"github.com/phrazzld/lumina/internal/redact"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"-"`
	TraceID string `json:"trace_id,omitempty"`
}

// MessageResponse is the body of a successful write.
type MessageResponse struct {
	Message string `json:"message"`
}

func writeHeader(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
}

// RespondWithJSON encodes v as the response body.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	writeHeader(w, status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode JSON response", redact.Attr(err))
	}
}

// RespondWithRawJSON writes body, which must already be JSON.
func RespondWithRawJSON(w http.ResponseWriter, r *http.Request, status int, body []byte) {
	writeHeader(w, status)
	if _, err := w.Write(body); err != nil {
		logger.FromContext(r.Context()).Warn("failed to write response body", redact.Attr(err))
	}
}

func errorBody(r *http.Request, status int, message string) ErrorResponse {
	return ErrorResponse{Error: message, Code: status, TraceID: GetTraceID(r.Context())}
}

// RespondWithError replies with message and the request's trace ID.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	logger.FromContext(r.Context()).Debug("rejecting request",
		slog.Int("status_code", status),
		slog.String("message", message),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path))
	RespondWithJSON(w, r, status, errorBody(r, status, message))
}

// errorLevel picks the log level for a failed request: server faults are
// errors, throttling and unavailability are warnings, client mistakes debug.
func errorLevel(status int) slog.Level {
	switch {
	case status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable:
		return slog.LevelWarn
	case status >= 500:
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

// RespondWithErrorAndLog replies with userMessage and logs err redacted.
func RespondWithErrorAndLog(w http.ResponseWriter, r *http.Request, status int, userMessage string, err error) {
	ctx := r.Context()
	attrs := make([]slog.Attr, 0, 6)
	attrs = append(attrs,
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path))
	if err != nil {
		attrs = append(attrs, redact.Attr(err), slog.String("error_type", fmt.Sprintf("%T", err)))
	}
	logger.FromContext(ctx).LogAttrs(ctx, errorLevel(status), "request failed", attrs...)

	RespondWithJSON(w, r, status, errorBody(r, status, userMessage))
}

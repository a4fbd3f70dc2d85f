package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/lumina/internal/api/shared"
	"github.com/phrazzld/lumina/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()

	log, buf := logger.GetTestLogger(t)

	var seenTrace, seenRequestID string
	handler := NewTraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTrace = shared.GetTraceID(r.Context())
		seenRequestID = logger.RequestIDFromContext(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/data", nil))

	require.NotEmpty(t, seenTrace)
	assert.Equal(t, seenTrace, seenRequestID)
	assert.Equal(t, seenTrace, w.Header().Get(shared.TraceIDHeader))
	logger.AssertLogField(t, buf, "trace_id", seenTrace)
	logger.AssertLogField(t, buf, "msg", "inside handler")
}

func TestTraceMiddlewareReusesInboundID(t *testing.T) {
	t.Parallel()

	var seen string
	handler := NewTraceMiddleware(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = shared.GetTraceID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(shared.TraceIDHeader, "client-trace-0001")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "client-trace-0001", seen)
}

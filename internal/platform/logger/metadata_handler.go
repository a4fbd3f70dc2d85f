package logger

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"sort"
)

// ServiceName is stamped on every record written by the server logger.
const ServiceName = "lumina-server"

// MetadataHandler wraps a slog.Handler and stamps every record with a fixed
// set of process attributes. With addSource it also records the caller as
// flat source_file/source_line/source_func fields.
type MetadataHandler struct {
	next      slog.Handler
	metadata  []slog.Attr
	addSource bool
}

// NewMetadataHandler wraps next. Keys of metadata are emitted in sorted order.
func NewMetadataHandler(next slog.Handler, metadata map[string]string, addSource bool) *MetadataHandler {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.String(k, metadata[k]))
	}
	return &MetadataHandler{next: next, metadata: attrs, addSource: addSource}
}

// Enabled implements slog.Handler.
func (h *MetadataHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// WithAttrs implements slog.Handler.
func (h *MetadataHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &MetadataHandler{next: h.next.WithAttrs(attrs), metadata: h.metadata, addSource: h.addSource}
}

// WithGroup implements slog.Handler. Metadata of a grouped logger is written
// inside the group.
func (h *MetadataHandler) WithGroup(name string) slog.Handler {
	return &MetadataHandler{next: h.next.WithGroup(name), metadata: h.metadata, addSource: h.addSource}
}

// Handle implements slog.Handler.
func (h *MetadataHandler) Handle(ctx context.Context, record slog.Record) error {
	r := record.Clone()
	if h.addSource && record.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{record.PC}).Next()
		r.AddAttrs(
			slog.String("source_file", frame.File),
			slog.Int("source_line", frame.Line),
			slog.String("source_func", frame.Function),
		)
	}
	r.AddAttrs(h.metadata...)
	return h.next.Handle(ctx, r)
}

var ciEnvVars = map[string]string{
	"ci_run_id": "GITHUB_RUN_ID",
	"ci_ref":    "GITHUB_REF",
	"ci_sha":    "GITHUB_SHA",
	"ci_job":    "CI_JOB_ID",
}

func isInCIEnvironment() bool {
	return os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != ""
}

// processMetadata returns the attributes stamped on server logs: the service
// name, the hostname, and CI run details when running under CI.
func processMetadata() map[string]string {
	md := map[string]string{"service": ServiceName}
	if host, err := os.Hostname(); err == nil && host != "" {
		md["host"] = host
	}
	if !isInCIEnvironment() {
		return md
	}
	for attr, env := range ciEnvVars {
		if v := os.Getenv(env); v != "" {
			md[attr] = v
		}
	}
	return md
}

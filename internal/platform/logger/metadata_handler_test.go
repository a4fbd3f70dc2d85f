package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/phrazzld/lumina/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMetadataLogger(buf *bytes.Buffer, level slog.Level, addSource bool) *slog.Logger {
	inner := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: level})
	return slog.New(logger.NewMetadataHandler(inner, map[string]string{"service": "test", "backend": "sqlite"}, addSource))
}

func TestMetadataHandlerStampsRecords(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	newMetadataLogger(&buf, slog.LevelInfo, false).With("component", "blob").Info("saved", "bytes", 12)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "test", rec["service"])
	assert.Equal(t, "sqlite", rec["backend"])
	assert.Equal(t, "blob", rec["component"])
	assert.EqualValues(t, 12, rec["bytes"])
	assert.NotContains(t, rec, "source_line")
}

func TestMetadataHandlerSource(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	newMetadataLogger(&buf, slog.LevelInfo, true).Info("with source")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Contains(t, rec["source_file"], "metadata_handler_test.go")
	assert.Contains(t, rec["source_func"], "TestMetadataHandlerSource")
}

func TestMetadataHandlerGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	newMetadataLogger(&buf, slog.LevelInfo, false).WithGroup("req").Info("grouped", "path", "/api/data")

	out := buf.String()
	assert.Contains(t, out, `"req":{`)
	assert.Contains(t, out, `"path":"/api/data"`)
}

func TestMetadataHandlerRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	newMetadataLogger(&buf, slog.LevelWarn, false).Info("dropped")
	assert.Empty(t, buf.String())
}

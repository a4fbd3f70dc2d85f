package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/lumina/internal/api"
	"github.com/phrazzld/lumina/internal/api/shared"
	"github.com/phrazzld/lumina/internal/config"
	"github.com/phrazzld/lumina/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, dictionaryURL string) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{
			Port:           8080,
			LogLevel:       "debug",
			AllowedOrigins: []string{"*"},
		},
		Storage: config.StorageConfig{
			Backend:      config.BackendMemory,
			BlobKey:      "main-data",
			HistoryLimit: 10,
		},
		Dictionary: config.DictionaryConfig{
			URL:            dictionaryURL,
			Timeout:        time.Second,
			MaxDefinitions: 3,
		},
		LLM: config.LLMConfig{ModelName: "gemini-2.0-flash"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	app, err := newApplication(context.Background(), cfg, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(app.cleanup)

	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(srv.Close)
	return srv
}

func fakeDictionary(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/serendipity") {
			fmt.Fprint(w, `[{"word":"serendipity","meanings":[{"partOfSpeech":"noun","definitions":[{"definition":"a happy accident"}]}]}]`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"title":"No Definitions Found"}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestServer_DataRoundTrip(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, testConfig(t, "http://127.0.0.1:1"))

	resp, err := http.Get(srv.URL + "/api/data")
	require.NoError(t, err)
	var empty map[string][]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&empty))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, empty, 4)

	doc := `{"words":[{"id":"w1"}],"knowledgePoints":[],"categories":[],"tasks":[]}`
	resp, err = http.Post(srv.URL+"/api/data", "application/json", strings.NewReader(doc))
	require.NoError(t, err)
	var msg shared.MessageResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&msg))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Data saved successfully", msg.Message)
	assert.NotEmpty(t, resp.Header.Get(shared.TraceIDHeader))

	resp, err = http.Get(srv.URL + "/api/data")
	require.NoError(t, err)
	var got map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	resp.Body.Close()
	assert.Len(t, got["words"], 1)
}

func TestServer_RejectsIncompleteDocument(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, testConfig(t, "http://127.0.0.1:1"))

	resp, err := http.Post(srv.URL+"/api/data", "application/json", strings.NewReader(`{"words":[]}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body shared.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Invalid data structure received", body.Error)
	assert.NotEmpty(t, body.TraceID)
}

func TestServer_CORS(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, testConfig(t, "http://127.0.0.1:1"))

	t.Run("preflight", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/data", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "https://notes.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("simple request", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/data", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "https://notes.example.com")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	})
}

func TestServer_Dictionary(t *testing.T) {
	t.Parallel()

	dict := fakeDictionary(t)
	srv := newTestServer(t, testConfig(t, dict.URL))

	resp, err := http.Get(srv.URL + "/api/dictionary/serendipity")
	require.NoError(t, err)
	var found api.DefinitionsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&found))
	resp.Body.Close()
	require.Len(t, found.Definitions, 1)
	assert.Equal(t, "a happy accident", found.Definitions[0].Definition)

	resp, err = http.Get(srv.URL + "/api/dictionary/qwzx")
	require.NoError(t, err)
	var none api.DefinitionsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&none))
	resp.Body.Close()
	assert.NotNil(t, none.Definitions)
	assert.Empty(t, none.Definitions)
}

func TestServer_HealthHistoryAndMetrics(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, testConfig(t, "http://127.0.0.1:1"))

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/data/history")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode, "memory backend keeps no history")

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	buf := new(strings.Builder)
	_, err = io.Copy(buf, resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `lumina_http_requests_total{method="GET",route="/health",status="200"} 1`)
	assert.Contains(t, buf.String(), `lumina_http_requests_total{method="GET",route="/api/data/history",status="501"} 1`)
}

func TestServer_SQLiteHistory(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.Storage.Backend = config.BackendSQLite
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "lumina.db")
	srv := newTestServer(t, cfg)

	for i := 0; i < 3; i++ {
		doc := fmt.Sprintf(`{"words":[],"knowledgePoints":[],"categories":[],"tasks":[{"id":"t%d"}]}`, i)
		resp, err := http.Post(srv.URL+"/api/data", "application/json", strings.NewReader(doc))
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := http.Get(srv.URL + "/api/data/history?limit=5")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var revs []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&revs))
	assert.Len(t, revs, 2, "the first save has nothing to archive")
}

func TestNewApplicationRejectsBadKey(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.Storage.BlobKey = "not a key"
	_, err := newApplication(context.Background(), cfg, logger.Discard())
	assert.Error(t, err)
}

func TestMigrateWithoutSchema(t *testing.T) {
	t.Parallel()

	err := migrate(context.Background(), config.StorageConfig{Backend: config.BackendMemory}, logger.Discard())
	assert.NoError(t, err)
}

func TestMigrateSQLite(t *testing.T) {
	t.Parallel()

	cfg := config.StorageConfig{
		Backend:    config.BackendSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "lumina.db"),
	}
	require.NoError(t, migrate(context.Background(), cfg, logger.Discard()))
	require.NoError(t, migrate(context.Background(), cfg, logger.Discard()), "migrations are idempotent")
}

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	homedir.DisableCache = true
}

func TestRunRejectsUnknownFlag(t *testing.T) {
	isolateEnv(t)

	var out bytes.Buffer
	err := run(context.Background(), []string{"-bogus"}, &out)
	assert.Error(t, err)
}

func TestRunMigrateOnly(t *testing.T) {
	isolateEnv(t)

	dbPath := filepath.Join(t.TempDir(), "lumina.db")
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("storage:\n  backend: sqlite\n  sqlite_path: "+dbPath+"\n"), 0o600))

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-config", cfgPath, "-migrate"}, &out))

	_, err := os.Stat(dbPath)
	assert.NoError(t, err)
	assert.Contains(t, out.String(), "server configuration loaded")
}

func TestRunServesUntilCanceled(t *testing.T) {
	isolateEnv(t)
	t.Setenv("LUMINA_SERVER_PORT", "18089")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	assert.NoError(t, run(ctx, nil, &out))
}

// Package disk stores blobs and small client-side markers as files using diskv.
package disk

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/peterbourgon/diskv/v3"
	"github.com/phrazzld/lumina/internal/blob"
	"github.com/phrazzld/lumina/internal/redact"
)

const backendName = "diskv"

// cacheSizeMax bounds the in-memory read cache.
const cacheSizeMax = 4 << 20

// Open creates a diskv rooted at basePath. A leading ~ is expanded to the
// home directory. Keys map to files directly under basePath.
func Open(basePath string) (*diskv.Diskv, error) {
	expanded, err := homedir.Expand(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to expand path %q: %w", basePath, err)
	}
	if err := os.MkdirAll(expanded, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create directory %q: %w", expanded, err)
	}
	return diskv.New(diskv.Options{
		BasePath:     expanded,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: cacheSizeMax,
		TempDir:      filepath.Join(expanded, ".tmp"),
		FilePerm:     0o600,
		PathPerm:     0o700,
	}), nil
}

// BlobStore implements blob.Store on top of diskv. Writes go through a temp
// file so a crash never leaves a half-written document.
type BlobStore struct {
	d      *diskv.Diskv
	logger *slog.Logger
}

// NewBlobStore creates a BlobStore.
func NewBlobStore(d *diskv.Diskv, logger *slog.Logger) *BlobStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &BlobStore{d: d, logger: logger.With(slog.String("component", "disk_blob_store"))}
}

var _ blob.Store = (*BlobStore)(nil)

// Get implements blob.Store.
func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := blob.ValidateKey(key); err != nil {
		return nil, err
	}
	data, err := s.d.Read(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, blob.ErrNotFound
		}
		s.logger.ErrorContext(ctx, "failed to read blob", slog.String("key", key), redact.Attr(err))
		return nil, blob.NewStoreError(backendName, "get", "failed to read blob", err)
	}
	return data, nil
}

// Put implements blob.Store.
func (s *BlobStore) Put(ctx context.Context, key string, data []byte) error {
	if err := blob.ValidateKey(key); err != nil {
		return err
	}
	if err := s.d.Write(key, data); err != nil {
		s.logger.ErrorContext(ctx, "failed to write blob", slog.String("key", key), redact.Attr(err))
		return blob.NewStoreError(backendName, "put", "failed to write blob", err)
	}
	return nil
}

// Ping implements blob.Pinger by checking the base directory.
func (s *BlobStore) Ping(context.Context) error {
	if _, err := os.Stat(s.d.BasePath); err != nil {
		return fmt.Errorf("%w: %v", blob.ErrUnavailable, err)
	}
	return nil
}

// lastClearKey is the marker written by the daily task clear.
const lastClearKey = "last-tasks-clear-date"

// Markers persists client-side markers such as the last daily clear date.
type Markers struct {
	d *diskv.Diskv
}

// NewMarkers creates a marker store.
func NewMarkers(d *diskv.Diskv) *Markers {
	return &Markers{d: d}
}

// LastClearDate implements daily.MarkerStore.
func (m *Markers) LastClearDate(context.Context) (string, error) {
	data, err := m.d.Read(lastClearKey)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// SetLastClearDate implements daily.MarkerStore.
func (m *Markers) SetLastClearDate(_ context.Context, date string) error {
	return m.d.Write(lastClearKey, []byte(date))
}

// Package memory provides an in-process blob backend for development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/phrazzld/lumina/internal/blob"
)

// BlobStore keeps documents in a map.
type BlobStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewBlobStore creates an empty BlobStore.
func NewBlobStore() *BlobStore {
	return &BlobStore{data: make(map[string][]byte)}
}

var _ blob.Store = (*BlobStore)(nil)

// Get implements blob.Store.
func (s *BlobStore) Get(_ context.Context, key string) ([]byte, error) {
	if err := blob.ValidateKey(key); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.data[key]
	if !ok {
		return nil, blob.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Put implements blob.Store.
func (s *BlobStore) Put(_ context.Context, key string, data []byte) error {
	if err := blob.ValidateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), data...)
	return nil
}

// Ping implements blob.Pinger.
func (s *BlobStore) Ping(context.Context) error { return nil }

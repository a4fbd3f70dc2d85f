package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/phrazzld/lumina/internal/blob"
)

// InstrumentedStore decorates a blob.Store with operation metrics.
type InstrumentedStore struct {
	next      blob.Store
	backend   string
	collector *Collector
}

// InstrumentStore wraps next. History and Ping pass through when next
// supports them.
func InstrumentStore(next blob.Store, backend string, c *Collector) *InstrumentedStore {
	return &InstrumentedStore{next: next, backend: backend, collector: c}
}

var (
	_ blob.Store     = (*InstrumentedStore)(nil)
	_ blob.Historian = (*InstrumentedStore)(nil)
	_ blob.Pinger    = (*InstrumentedStore)(nil)
)

func (s *InstrumentedStore) observe(op string, start time.Time, err error) {
	status := "ok"
	switch {
	case err == nil:
	case errors.Is(err, blob.ErrNotFound):
		status = "not_found"
	default:
		status = "error"
	}
	s.collector.BlobOperations.WithLabelValues(op, s.backend, status).Inc()
	s.collector.BlobDuration.WithLabelValues(op, s.backend).Observe(time.Since(start).Seconds())
}

// Get implements blob.Store.
func (s *InstrumentedStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	data, err := s.next.Get(ctx, key)
	s.observe("get", start, err)
	if err == nil {
		s.collector.DocumentBytes.WithLabelValues(key).Set(float64(len(data)))
	}
	return data, err
}

// Put implements blob.Store.
func (s *InstrumentedStore) Put(ctx context.Context, key string, data []byte) error {
	start := time.Now()
	err := s.next.Put(ctx, key, data)
	s.observe("put", start, err)
	if err == nil {
		s.collector.DocumentBytes.WithLabelValues(key).Set(float64(len(data)))
	}
	return err
}

// History implements blob.Historian.
func (s *InstrumentedStore) History(ctx context.Context, key string, limit int) ([]blob.Revision, error) {
	h, ok := s.next.(blob.Historian)
	if !ok {
		return nil, blob.ErrUnsupported
	}
	start := time.Now()
	revs, err := h.History(ctx, key, limit)
	s.observe("history", start, err)
	return revs, err
}

// Ping implements blob.Pinger. Backends without a health check are healthy.
func (s *InstrumentedStore) Ping(ctx context.Context) error {
	p, ok := s.next.(blob.Pinger)
	if !ok {
		return nil
	}
	return p.Ping(ctx)
}

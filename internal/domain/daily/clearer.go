package daily

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/lumina/internal/domain"
)

// MarkerStore persists the date (YYYY-MM-DD) of the last daily prune.
type MarkerStore interface {
	// LastClearDate returns the stored date, or "" when none is recorded.
	LastClearDate(ctx context.Context) (string, error)

	// SetLastClearDate records date as the last prune date.
	SetLastClearDate(ctx context.Context, date string) error
}

// Clearer runs Prune at most once per local calendar date.
type Clearer struct {
	markers MarkerStore
	loc     *time.Location
	logger  *slog.Logger
}

// NewClearer creates a Clearer. A nil loc means time.Local.
func NewClearer(markers MarkerStore, loc *time.Location, logger *slog.Logger) *Clearer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Clearer{
		markers: markers,
		loc:     location(loc),
		logger:  logger.With("component", "daily_clearer"),
	}
}

// RunOnce prunes tasks unless the marker already holds today's date. ran
// reports whether the prune happened; when it did not, tasks is returned as is.
func (c *Clearer) RunOnce(ctx context.Context, tasks []domain.Task, now time.Time) ([]domain.Task, bool, error) {
	today := domain.DateKey(now.In(c.loc))

	last, err := c.markers.LastClearDate(ctx)
	if err != nil {
		return tasks, false, fmt.Errorf("failed to read last clear date: %w", err)
	}
	if last == today {
		return tasks, false, nil
	}

	kept, dropped := Prune(tasks, now, c.loc)
	if err := c.markers.SetLastClearDate(ctx, today); err != nil {
		return tasks, false, fmt.Errorf("failed to record clear date: %w", err)
	}

	c.logger.InfoContext(ctx, "daily task clear completed",
		slog.String("date", today),
		slog.String("previous", last),
		slog.Int("dropped", dropped),
		slog.Int("kept", len(kept)))
	return kept, true, nil
}

// MemoryMarkers is an in-process MarkerStore.
type MemoryMarkers struct {
	mu   sync.Mutex
	date string
}

// LastClearDate implements MarkerStore.
func (m *MemoryMarkers) LastClearDate(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.date, nil
}

// SetLastClearDate implements MarkerStore.
func (m *MemoryMarkers) SetLastClearDate(_ context.Context, date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.date = date
	return nil
}

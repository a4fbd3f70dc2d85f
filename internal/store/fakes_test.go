package store

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/lumina/internal/debounce"
	"github.com/phrazzld/lumina/internal/domain"
	"github.com/phrazzld/lumina/internal/domain/daily"
	"github.com/stretchr/testify/require"
)

// fakeGateway records saves and can be told to fail.
type fakeGateway struct {
	mu      sync.Mutex
	initial domain.Snapshot
	loadErr error
	saveErr error
	saves   []domain.Snapshot
}

func (g *fakeGateway) LoadAll(context.Context) (domain.Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.loadErr != nil {
		return domain.Snapshot{}, g.loadErr
	}
	return g.initial, nil
}

func (g *fakeGateway) SaveAll(_ context.Context, snap domain.Snapshot) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.saveErr != nil {
		return g.saveErr
	}
	g.saves = append(g.saves, snap)
	return nil
}

func (g *fakeGateway) saveCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.saves)
}

func (g *fakeGateway) lastSave() domain.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.saves[len(g.saves)-1]
}

func (g *fakeGateway) failSaves(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.saveErr = err
}

var testLoc = time.FixedZone("test", 2*3600)

// start is mid-morning so that same-day arithmetic stays on one date.
var start = time.Date(2024, time.September, 3, 9, 30, 0, 0, testLoc)

type harness struct {
	store   *Store
	gateway *fakeGateway
	clock   *debounce.FakeClock
	markers *daily.MemoryMarkers
}

// newHarness builds a loaded store over a fake gateway. A nil initial
// snapshot loads a non-empty, category-only knowledge base so no seed save
// is scheduled.
func newHarness(t *testing.T, initial *domain.Snapshot) *harness {
	t.Helper()
	snap := domain.Snapshot{Categories: []domain.Category{{ID: "cat-x", Name: "X"}}}
	if initial != nil {
		snap = *initial
	}
	h := &harness{
		gateway: &fakeGateway{initial: snap},
		clock:   debounce.NewFakeClock(start),
		markers: &daily.MemoryMarkers{},
	}
	h.store = New(h.gateway,
		WithClock(h.clock),
		WithLocation(testLoc),
		WithMarkerStore(h.markers),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, h.store.Load(context.Background()))
	return h
}

// settle advances past the debounce window.
func (h *harness) settle() {
	h.clock.Advance(DefaultSaveDelay + time.Millisecond)
}

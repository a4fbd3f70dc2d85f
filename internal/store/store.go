package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/phrazzld/lumina/internal/debounce"
	"github.com/phrazzld/lumina/internal/domain"
	"github.com/phrazzld/lumina/internal/domain/daily"
	"github.com/phrazzld/lumina/internal/domain/srs"
	"github.com/phrazzld/lumina/internal/events"
	"github.com/phrazzld/lumina/internal/redact"
)

// Gateway loads and saves the full snapshot.
type Gateway interface {
	// LoadAll fetches the snapshot. An empty remote store yields an empty
	// snapshot, not an error.
	LoadAll(ctx context.Context) (domain.Snapshot, error)

	// SaveAll overwrites the remote snapshot.
	SaveAll(ctx context.Context, snapshot domain.Snapshot) error
}

// Default timings.
const (
	DefaultSaveDelay   = 1500 * time.Millisecond
	DefaultSaveTimeout = 10 * time.Second
)

// SaveStatus reports the outcome of background saves. Err stays set until a
// later save succeeds.
type SaveStatus struct {
	Err         error
	LastSavedAt time.Time
	Saves       int
	Failures    int
}

// OK reports whether the last save succeeded (or none has run yet).
func (s SaveStatus) OK() bool { return s.Err == nil }

// Store is the in-memory owner of the knowledge base.
type Store struct {
	gateway Gateway
	clock   debounce.Clock
	loc     *time.Location
	srs     srs.Service
	markers daily.MarkerStore
	clearer *daily.Clearer
	emitter events.EventEmitter
	logger  *slog.Logger

	saveDelay   time.Duration
	saveTimeout time.Duration
	saver       *debounce.Debouncer

	mu         sync.RWMutex
	loaded     bool
	words      []domain.Word
	notes      []domain.KnowledgePoint
	categories []domain.Category
	tasks      []domain.Task

	statusMu sync.Mutex
	status   SaveStatus
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for timestamps and the save timer.
func WithClock(c debounce.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithLocation sets the time zone for day boundaries.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

// WithScheduler replaces the default review schedule.
func WithScheduler(svc srs.Service) Option {
	return func(s *Store) { s.srs = svc }
}

// WithMarkerStore enables RunDailyClear with the given marker persistence.
func WithMarkerStore(m daily.MarkerStore) Option {
	return func(s *Store) { s.markers = m }
}

// WithEmitter replaces the in-memory event emitter.
func WithEmitter(e events.EventEmitter) Option {
	return func(s *Store) { s.emitter = e }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithSaveDelay sets the debounce quiet period.
func WithSaveDelay(d time.Duration) Option {
	return func(s *Store) { s.saveDelay = d }
}

// WithSaveTimeout bounds each background save.
func WithSaveTimeout(d time.Duration) Option {
	return func(s *Store) { s.saveTimeout = d }
}

// New creates a Store that persists through gateway.
func New(gateway Gateway, opts ...Option) *Store {
	s := &Store{
		gateway:     gateway,
		clock:       debounce.RealClock(),
		loc:         time.Local,
		logger:      slog.Default(),
		saveDelay:   DefaultSaveDelay,
		saveTimeout: DefaultSaveTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	s.logger = s.logger.With("component", "domain_store")
	if s.srs == nil {
		s.srs = srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{Location: s.loc}))
	}
	if s.emitter == nil {
		s.emitter = events.NewInMemoryEventEmitter(s.logger)
	}
	if s.markers != nil {
		s.clearer = daily.NewClearer(s.markers, s.loc, s.logger)
	}
	s.saver = debounce.New(s.saveDelay, s.save, debounce.WithClock(s.clock))
	return s
}

func (s *Store) now() time.Time {
	return s.clock.Now().In(s.loc)
}

// Location returns the time zone used for day boundaries.
func (s *Store) Location() *time.Location { return s.loc }

// Scheduler returns the review schedule.
func (s *Store) Scheduler() srs.Service { return s.srs }

// Subscribe registers a handler for change events.
func (s *Store) Subscribe(handler events.EventHandler) {
	s.emitter.RegisterHandler(handler)
}

// Load fetches the snapshot from the gateway and replaces the in-memory
// collections. An empty knowledge base is seeded with the default outline.
func (s *Store) Load(ctx context.Context) error {
	snap, err := s.gateway.LoadAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load knowledge base", redact.Attr(err))
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	snap = snap.WithDefaults()

	seeded := false
	if snap.IsEmpty() {
		snap.Categories = domain.DefaultCategories()
		seeded = true
	}

	s.mu.Lock()
	s.replaceLocked(snap)
	s.loaded = true
	counts := s.countsLocked()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "knowledge base loaded",
		slog.Int("words", counts[0]),
		slog.Int("knowledge_points", counts[1]),
		slog.Int("categories", counts[2]),
		slog.Int("tasks", counts[3]),
		slog.Bool("seeded", seeded))

	s.emit(ctx, events.CollectionAll, events.ActionLoaded, "", nil)
	if seeded {
		s.scheduleSave()
	}
	return nil
}

// Loaded reports whether Load has succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Store) countsLocked() [4]int {
	return [4]int{len(s.words), len(s.notes), len(s.categories), len(s.tasks)}
}

// replaceLocked installs snap. Caller holds s.mu.
func (s *Store) replaceLocked(snap domain.Snapshot) {
	s.words = append([]domain.Word(nil), snap.Words...)
	s.notes = append([]domain.KnowledgePoint(nil), snap.KnowledgePoints...)
	s.categories = append([]domain.Category(nil), snap.Categories...)
	s.tasks = append([]domain.Task(nil), snap.Tasks...)
	sortWords(s.words)
	sortNotes(s.notes)
	sortTasks(s.tasks)
}

// Snapshot returns a copy of all four collections.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() domain.Snapshot {
	return domain.Snapshot{
		Words:           append([]domain.Word{}, s.words...),
		KnowledgePoints: append([]domain.KnowledgePoint{}, s.notes...),
		Categories:      append([]domain.Category{}, s.categories...),
		Tasks:           append([]domain.Task{}, s.tasks...),
	}
}

// ImportAll replaces every collection with snap and saves immediately. The
// returned error is the save error; the in-memory import has happened even
// when it is non-nil.
func (s *Store) ImportAll(ctx context.Context, snap domain.Snapshot) error {
	snap = snap.WithDefaults()

	s.mu.Lock()
	s.replaceLocked(snap)
	s.loaded = true
	counts := s.countsLocked()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "knowledge base imported",
		slog.Int("words", counts[0]),
		slog.Int("knowledge_points", counts[1]),
		slog.Int("categories", counts[2]),
		slog.Int("tasks", counts[3]))
	s.emit(ctx, events.CollectionAll, events.ActionImported, "", nil)

	s.saver.Now()
	return s.SaveStatus().Err
}

// SaveStatus returns the state of background saves.
func (s *Store) SaveStatus() SaveStatus {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	return s.status
}

// SavePending reports whether a debounced save is waiting.
func (s *Store) SavePending() bool {
	return s.saver.Pending()
}

// Flush runs a pending save now, waits for one already in progress, and
// returns the resulting save error, if any.
func (s *Store) Flush() error {
	if !s.saver.Flush() {
		return nil
	}
	return s.SaveStatus().Err
}

// Close flushes a pending save and stops the save timer.
func (s *Store) Close() error {
	err := s.Flush()
	s.saver.Close()
	return err
}

func (s *Store) scheduleSave() {
	s.saver.Trigger()
}

// save writes the full snapshot. It runs on the debouncer and never overlaps
// with itself.
func (s *Store) save() {
	ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
	defer cancel()

	snap := s.Snapshot()
	err := s.gateway.SaveAll(ctx, snap)

	s.statusMu.Lock()
	if err != nil {
		s.status.Err = err
		s.status.Failures++
	} else {
		s.status.Err = nil
		s.status.Saves++
		s.status.LastSavedAt = s.clock.Now()
	}
	s.statusMu.Unlock()

	if err != nil {
		s.logger.Error("failed to save knowledge base", redact.Attr(err))
		return
	}
	s.logger.Debug("knowledge base saved",
		slog.Int("words", len(snap.Words)),
		slog.Int("tasks", len(snap.Tasks)))
	s.emit(ctx, events.CollectionAll, events.ActionSaved, "", nil)
}

// emit publishes a change event. Handler failures are logged by the emitter
// and never fail the mutation.
func (s *Store) emit(ctx context.Context, c events.Collection, a events.Action, id string, payload interface{}) {
	event, err := events.NewChangeEvent(c, a, id, payload)
	if err != nil {
		s.logger.Warn("failed to build change event", slog.Any("error", err), slog.String("collection", string(c)))
		return
	}
	_ = s.emitter.EmitEvent(ctx, event)
}

// mutated emits the change and schedules a save.
func (s *Store) mutated(c events.Collection, a events.Action, id string, payload interface{}) {
	s.emit(context.Background(), c, a, id, payload)
	s.scheduleSave()
}

func sortWords(ws []domain.Word) {
	sort.SliceStable(ws, func(i, j int) bool { return ws[i].CreatedAt > ws[j].CreatedAt })
}

func sortNotes(ns []domain.KnowledgePoint) {
	sort.SliceStable(ns, func(i, j int) bool { return ns[i].CreatedAt > ns[j].CreatedAt })
}

func sortTasks(ts []domain.Task) {
	sort.SliceStable(ts, func(i, j int) bool { return ts[i].CreatedAt > ts[j].CreatedAt })
}

// RunDailyClear prunes stale tasks once per local date. It reports whether
// the prune ran. Without a marker store it does nothing.
func (s *Store) RunDailyClear(ctx context.Context) (bool, error) {
	if s.clearer == nil {
		return false, nil
	}
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return false, ErrNotLoaded
	}
	kept, ran, err := s.clearer.RunOnce(ctx, s.tasks, s.now())
	if err != nil || !ran {
		s.mu.Unlock()
		return false, err
	}
	dropped := len(s.tasks) - len(kept)
	s.tasks = kept
	s.mu.Unlock()

	s.emit(ctx, events.CollectionTasks, events.ActionPruned, "", map[string]int{"dropped": dropped})
	s.scheduleSave()
	return true, nil
}

// errIfNotLoaded guards mutators. Caller holds s.mu.
func (s *Store) errIfNotLoaded() error {
	if !s.loaded {
		return ErrNotLoaded
	}
	return nil
}

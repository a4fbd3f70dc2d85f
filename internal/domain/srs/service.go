package srs

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/phrazzld/lumina/internal/domain"
)

// Common errors
var (
	// ErrInvalidStage is returned for a stage outside 0..6.
	ErrInvalidStage = domain.ErrInvalidStage

	// ErrNothingToUndo is returned when undoing a review at stage 0.
	ErrNothingToUndo = errors.New("no review to undo at the first stage")
)

// Service defines the interface for spaced-repetition scheduling.
// All methods are pure: they never mutate their input.
type Service interface {
	// IsDue reports whether the item is due for review at now.
	IsDue(state domain.ReviewState, now time.Time) (bool, error)

	// DueDate returns the day the item becomes due; ok is false once mastered.
	DueDate(state domain.ReviewState) (due time.Time, ok bool, err error)

	// MarkRemembered advances the stage by one (clamped at mastered).
	MarkRemembered(state domain.ReviewState, now time.Time) (domain.ReviewState, error)

	// MarkForgotten resets the stage to 0.
	MarkForgotten(state domain.ReviewState, now time.Time) (domain.ReviewState, error)

	// UndoLastReview steps the stage back by one. Returns ErrNothingToUndo at stage 0.
	UndoLastReview(state domain.ReviewState, now time.Time) (domain.ReviewState, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduling service with default parameters.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates a new scheduling service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{params: params}
}

func checkStage(state domain.ReviewState) error {
	if !state.ReviewStage.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidStage, int(state.ReviewStage))
	}
	return nil
}

// IsDue implements Service.
func (s *defaultService) IsDue(state domain.ReviewState, now time.Time) (bool, error) {
	if err := checkStage(state); err != nil {
		return false, err
	}
	return calculateIsDue(state, now, s.params), nil
}

// DueDate implements Service.
func (s *defaultService) DueDate(state domain.ReviewState) (time.Time, bool, error) {
	if err := checkStage(state); err != nil {
		return time.Time{}, false, err
	}
	due, ok := calculateDueDate(state, s.params)
	return due, ok, nil
}

// MarkRemembered implements Service.
func (s *defaultService) MarkRemembered(state domain.ReviewState, now time.Time) (domain.ReviewState, error) {
	if err := checkStage(state); err != nil {
		return state, err
	}
	return calculateRemembered(state, now), nil
}

// MarkForgotten implements Service.
func (s *defaultService) MarkForgotten(state domain.ReviewState, now time.Time) (domain.ReviewState, error) {
	if err := checkStage(state); err != nil {
		return state, err
	}
	return calculateForgotten(now), nil
}

// UndoLastReview implements Service.
func (s *defaultService) UndoLastReview(state domain.ReviewState, now time.Time) (domain.ReviewState, error) {
	if err := checkStage(state); err != nil {
		return state, err
	}
	if state.ReviewStage == domain.StageLearned {
		return state, ErrNothingToUndo
	}
	return calculateUndo(state, now), nil
}

// SortByDue orders items in place by ascending due date. Items without a due
// date (mastered) sort last; ties keep their relative order.
func SortByDue[T domain.Reviewable](svc Service, items []T) error {
	type keyed struct {
		due time.Time
		ok  bool
	}
	keys := make(map[string]keyed, len(items))
	for _, it := range items {
		due, ok, err := svc.DueDate(it.Review())
		if err != nil {
			return fmt.Errorf("item %s: %w", it.ItemID(), err)
		}
		keys[it.ItemID()] = keyed{due: due, ok: ok}
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := keys[items[i].ItemID()], keys[items[j].ItemID()]
		if a.ok != b.ok {
			return a.ok
		}
		return a.due.Before(b.due)
	})
	return nil
}

// DueItems returns the items due at now, sorted by due date.
func DueItems[T domain.Reviewable](svc Service, items []T, now time.Time) ([]T, error) {
	due := make([]T, 0, len(items))
	for _, it := range items {
		ok, err := svc.IsDue(it.Review(), now)
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", it.ItemID(), err)
		}
		if ok {
			due = append(due, it)
		}
	}
	if err := SortByDue(svc, due); err != nil {
		return nil, err
	}
	return due, nil
}

// Stats summarises a collection of reviewable items.
type Stats struct {
	Total    int
	Due      int
	Mastered int
	ByStage  map[domain.Stage]int
}

// ComputeStats counts items per stage and how many are due at now.
func ComputeStats[T domain.Reviewable](svc Service, items []T, now time.Time) (Stats, error) {
	stats := Stats{ByStage: make(map[domain.Stage]int)}
	for _, it := range items {
		state := it.Review()
		due, err := svc.IsDue(state, now)
		if err != nil {
			return Stats{}, fmt.Errorf("item %s: %w", it.ItemID(), err)
		}
		stats.Total++
		stats.ByStage[state.ReviewStage]++
		if due {
			stats.Due++
		}
		if state.ReviewStage == domain.StageMastered {
			stats.Mastered++
		}
	}
	return stats, nil
}

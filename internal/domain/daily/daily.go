// Package daily decides which tasks belong to today and prunes stale ones
// once per calendar day.
package daily

import (
	"sort"
	"time"

	"github.com/phrazzld/lumina/internal/domain"
)

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}

// InToday reports whether the task is shown in today's view: long-term,
// carried over, or created on today's local date.
func InToday(t domain.Task, now time.Time, loc *time.Location) bool {
	if t.IsLongTerm || t.IsCarriedOver {
		return true
	}
	loc = location(loc)
	return domain.SameDay(domain.TimeOf(t.CreatedAt, loc), now, loc)
}

// TodayView filters tasks to today's view and orders them incomplete first,
// newest first within each group. The input slice is not modified.
func TodayView(tasks []domain.Task, now time.Time, loc *time.Location) []domain.Task {
	view := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if InToday(t, now, loc) {
			view = append(view, t)
		}
	}
	sort.SliceStable(view, func(i, j int) bool {
		if view[i].IsCompleted != view[j].IsCompleted {
			return !view[i].IsCompleted
		}
		return view[i].CreatedAt > view[j].CreatedAt
	})
	return view
}

// ByQuadrant groups tasks by quadrant, preserving their order.
func ByQuadrant(tasks []domain.Task) map[domain.TaskQuadrant][]domain.Task {
	groups := make(map[domain.TaskQuadrant][]domain.Task, len(domain.Quadrants))
	for _, t := range tasks {
		groups[t.Quadrant] = append(groups[t.Quadrant], t)
	}
	return groups
}

// Prune applies the end-of-day rule: long-term tasks stay, carried-over tasks
// created before today stay, tasks created today stay, everything else is
// dropped. It returns the surviving tasks in their original order and the
// number removed.
func Prune(tasks []domain.Task, now time.Time, loc *time.Location) ([]domain.Task, int) {
	loc = location(loc)
	todayStart := domain.StartOfDay(now.In(loc))
	todayMillis := domain.Millis(todayStart)
	tomorrowMillis := domain.Millis(todayStart.AddDate(0, 0, 1))

	kept := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		switch {
		case t.IsLongTerm:
		case t.IsCarriedOver && t.CreatedAt < todayMillis:
		case t.CreatedAt >= todayMillis && t.CreatedAt < tomorrowMillis:
		default:
			continue
		}
		kept = append(kept, t)
	}
	return kept, len(tasks) - len(kept)
}

// ToggleCompleted flips completion, stamping or clearing CompletedAt.
func ToggleCompleted(t domain.Task, now time.Time) domain.Task {
	t.IsCompleted = !t.IsCompleted
	if t.IsCompleted {
		ms := domain.Millis(now)
		t.CompletedAt = &ms
	} else {
		t.CompletedAt = nil
	}
	return t
}

// ToggleCarryOver flips the carry-over flag. Long-term tasks are returned unchanged.
func ToggleCarryOver(t domain.Task) domain.Task {
	if t.IsLongTerm {
		return t
	}
	t.IsCarriedOver = !t.IsCarriedOver
	return t
}

// ToggleLongTerm flips the long-term flag; becoming long-term clears carry-over.
func ToggleLongTerm(t domain.Task) domain.Task {
	t.IsLongTerm = !t.IsLongTerm
	if t.IsLongTerm {
		t.IsCarriedOver = false
	}
	return t
}

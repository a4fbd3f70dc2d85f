package srs

import (
	"time"

	"github.com/phrazzld/lumina/internal/domain"
)

// calculateDueDate returns the calendar day on which an item becomes due:
// the local midnight of lastReviewedAt plus the stage offset in days.
// ok is false for the terminal stage, which has no due date.
func calculateDueDate(state domain.ReviewState, params *Params) (time.Time, bool) {
	if state.ReviewStage >= domain.StageMastered {
		return time.Time{}, false
	}
	days, ok := params.offsetFor(state.ReviewStage)
	if !ok {
		return time.Time{}, false
	}
	last := domain.StartOfDay(domain.TimeOf(state.LastReviewedAt, params.Location))
	return last.AddDate(0, 0, days), true
}

// calculateIsDue reports whether now has reached the due date.
func calculateIsDue(state domain.ReviewState, now time.Time, params *Params) bool {
	due, ok := calculateDueDate(state, params)
	if !ok {
		return false
	}
	return !now.Before(due)
}

// calculateRemembered advances one stage, clamped at mastered.
func calculateRemembered(state domain.ReviewState, now time.Time) domain.ReviewState {
	next := state.ReviewStage + 1
	if next > domain.StageMastered {
		next = domain.StageMastered
	}
	return domain.ReviewState{ReviewStage: next, LastReviewedAt: domain.Millis(now)}
}

// calculateForgotten resets to the first stage.
func calculateForgotten(now time.Time) domain.ReviewState {
	return domain.ReviewState{ReviewStage: domain.StageLearned, LastReviewedAt: domain.Millis(now)}
}

// calculateUndo steps back one stage. The caller guarantees stage > 0.
func calculateUndo(state domain.ReviewState, now time.Time) domain.ReviewState {
	return domain.ReviewState{ReviewStage: state.ReviewStage - 1, LastReviewedAt: domain.Millis(now)}
}

package domain

import "fmt"

// Stage is a checkpoint in the spaced-repetition progression.
type Stage int

// Review stages. StageMastered is terminal: mastered items are never due.
const (
	StageLearned Stage = iota
	StageReviewAfter1Day
	StageReviewAfter2Days
	StageReviewAfter4Days
	StageReviewAfter8Days
	StageReviewAfter15Days
	StageMastered
)

// Valid reports whether s lies within StageLearned..StageMastered.
func (s Stage) Valid() bool {
	return s >= StageLearned && s <= StageMastered
}

// String implements fmt.Stringer.
func (s Stage) String() string {
	switch s {
	case StageLearned:
		return "learned"
	case StageMastered:
		return "mastered"
	default:
		if s.Valid() {
			return fmt.Sprintf("review-%d", int(s))
		}
		return fmt.Sprintf("invalid(%d)", int(s))
	}
}

// ReviewState is the scheduling state shared by every reviewable item.
// Timestamps are milliseconds since the Unix epoch.
type ReviewState struct {
	ReviewStage    Stage `json:"reviewStage"`
	LastReviewedAt int64 `json:"lastReviewedAt"`
}

// Validate checks that the stage is in range.
func (r ReviewState) Validate() error {
	if !r.ReviewStage.Valid() {
		return NewValidationError("reviewStage", fmt.Sprintf("must be between 0 and 6, got %d", r.ReviewStage), ErrInvalidStage)
	}
	return nil
}

// Reviewable is implemented by entities subject to spaced repetition.
type Reviewable interface {
	ItemID() string
	Review() ReviewState
}

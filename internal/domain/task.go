package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrEmptyTaskText is returned when a task's text is blank.
var ErrEmptyTaskText = errors.New("task text cannot be empty")

// TaskQuadrant is the priority bucket of a task on the urgency/importance matrix.
type TaskQuadrant string

// The four quadrants. QuadrantUrgentImportant is the default for new tasks.
const (
	QuadrantUrgentImportant       TaskQuadrant = "urgent-important"
	QuadrantImportantNotUrgent    TaskQuadrant = "important-not-urgent"
	QuadrantUrgentNotImportant    TaskQuadrant = "urgent-not-important"
	QuadrantNotImportantNotUrgent TaskQuadrant = "not-important-not-urgent"
)

// Quadrants lists the quadrants in display order.
var Quadrants = []TaskQuadrant{
	QuadrantUrgentImportant,
	QuadrantImportantNotUrgent,
	QuadrantUrgentNotImportant,
	QuadrantNotImportantNotUrgent,
}

// Valid reports whether q is one of the four quadrants.
func (q TaskQuadrant) Valid() bool {
	switch q {
	case QuadrantUrgentImportant, QuadrantImportantNotUrgent,
		QuadrantUrgentNotImportant, QuadrantNotImportantNotUrgent:
		return true
	default:
		return false
	}
}

// Label returns a human readable name for the quadrant.
func (q TaskQuadrant) Label() string {
	switch q {
	case QuadrantUrgentImportant:
		return "Urgent & important"
	case QuadrantImportantNotUrgent:
		return "Important, not urgent"
	case QuadrantUrgentNotImportant:
		return "Urgent, not important"
	case QuadrantNotImportantNotUrgent:
		return "Neither urgent nor important"
	default:
		return string(q)
	}
}

// Task is a to-do item. CreatedAt marks the day the task belongs to.
// CompletedAt is set exactly while IsCompleted is true.
type Task struct {
	ID            string       `json:"id"`
	Text          string       `json:"text"`
	Quadrant      TaskQuadrant `json:"quadrant"`
	IsCompleted   bool         `json:"isCompleted"`
	CompletedAt   *int64       `json:"completedAt,omitempty"`
	CreatedAt     int64        `json:"createdAt"`
	IsCarriedOver bool         `json:"isCarriedOver,omitempty"`
	IsLongTerm    bool         `json:"isLongTerm,omitempty"`
}

// Normalize trims the text and applies the default quadrant.
func (t *Task) Normalize() {
	t.Text = strings.TrimSpace(t.Text)
	if t.Quadrant == "" {
		t.Quadrant = QuadrantUrgentImportant
	}
	if t.IsLongTerm {
		t.IsCarriedOver = false
	}
}

// StampCompletion keeps CompletedAt set exactly when the task is completed,
// using now for a completed task that has no timestamp yet.
func (t *Task) StampCompletion(now time.Time) {
	switch {
	case !t.IsCompleted:
		t.CompletedAt = nil
	case t.CompletedAt == nil:
		ms := Millis(now)
		t.CompletedAt = &ms
	}
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == "" {
		return NewValidationError("id", "is required", ErrInvalidID)
	}
	if strings.TrimSpace(t.Text) == "" {
		return NewValidationError("text", "is required", ErrEmptyTaskText)
	}
	if !t.Quadrant.Valid() {
		return NewValidationError("quadrant", "must be one of the four quadrants", ErrInvalidQuadrant)
	}
	return nil
}

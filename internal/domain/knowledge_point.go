package domain

import (
	"errors"
	"strings"
)

// Note-specific validation errors
var (
	// ErrEmptyNoteTitle is returned when a knowledge point has a blank title.
	ErrEmptyNoteTitle = errors.New("note title cannot be empty")

	// ErrEmptyNoteContent is returned when a knowledge point has blank content.
	ErrEmptyNoteContent = errors.New("note content cannot be empty")
)

// KnowledgePoint is a short note filed under an optional category and
// scheduled for review like a word. Source is free text whose meaning depends
// on the category, for example a literature citation.
type KnowledgePoint struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Notes      string  `json:"notes"`
	CategoryID *string `json:"categoryId"`
	Source     *string `json:"source,omitempty"`
	CreatedAt  int64   `json:"createdAt"`
	ReviewState
}

// ItemID implements Reviewable.
func (kp KnowledgePoint) ItemID() string { return kp.ID }

// Review implements Reviewable.
func (kp KnowledgePoint) Review() ReviewState { return kp.ReviewState }

// InCategory reports whether the note is filed directly under categoryID.
func (kp KnowledgePoint) InCategory(categoryID string) bool {
	return kp.CategoryID != nil && *kp.CategoryID == categoryID
}

// Normalize trims free-text fields. A blank source becomes absent.
func (kp *KnowledgePoint) Normalize() {
	kp.Title = strings.TrimSpace(kp.Title)
	kp.Content = strings.TrimSpace(kp.Content)
	kp.Notes = strings.TrimSpace(kp.Notes)
	if kp.Source != nil {
		s := strings.TrimSpace(*kp.Source)
		if s == "" {
			kp.Source = nil
		} else {
			kp.Source = &s
		}
	}
	if kp.CategoryID != nil && *kp.CategoryID == "" {
		kp.CategoryID = nil
	}
}

// Validate checks if the KnowledgePoint has valid data.
func (kp *KnowledgePoint) Validate() error {
	if kp.ID == "" {
		return NewValidationError("id", "is required", ErrInvalidID)
	}
	if strings.TrimSpace(kp.Title) == "" {
		return NewValidationError("title", "is required", ErrEmptyNoteTitle)
	}
	if strings.TrimSpace(kp.Content) == "" {
		return NewValidationError("content", "is required", ErrEmptyNoteContent)
	}
	return kp.ReviewState.Validate()
}

// Matches reports whether term occurs, case-insensitively, in the title,
// content, notes or source.
func (kp KnowledgePoint) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	fields := []string{kp.Title, kp.Content, kp.Notes}
	if kp.Source != nil {
		fields = append(fields, *kp.Source)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

package domain

import (
	"errors"
	"strings"
)

// Word-specific validation errors
var (
	// ErrEmptyWordText is returned when a word's text is blank.
	ErrEmptyWordText = errors.New("word text cannot be empty")

	// ErrNoDefinitions is returned when a word has no usable definition.
	ErrNoDefinitions = errors.New("word needs at least one definition with part of speech and meaning")
)

// WordDefinition is one sense of a vocabulary word. PartOfSpeech holds the
// local-language part-of-speech label.
type WordDefinition struct {
	PartOfSpeech string `json:"partOfSpeech"`
	Definition   string `json:"definition"`
	Example      string `json:"example,omitempty"`
}

// Usable reports whether both the part of speech and the definition are non-blank.
func (d WordDefinition) Usable() bool {
	return strings.TrimSpace(d.PartOfSpeech) != "" && strings.TrimSpace(d.Definition) != ""
}

// ReadingRecordSource links a word to a reading-log category and the
// reference (book, paper, article) it was met in.
type ReadingRecordSource struct {
	CategoryID    string `json:"readingRecordCategoryId"`
	ReferenceName string `json:"referenceName"`
}

// Word is a vocabulary entry under spaced repetition.
type Word struct {
	ID                  string               `json:"id"`
	Text                string               `json:"text"`
	Definitions         []WordDefinition     `json:"definitions"`
	Notes               string               `json:"notes"`
	ReadingRecordSource *ReadingRecordSource `json:"readingRecordSource,omitempty"`
	CreatedAt           int64                `json:"createdAt"`
	ReviewState
}

// ItemID implements Reviewable.
func (w Word) ItemID() string { return w.ID }

// Review implements Reviewable.
func (w Word) Review() ReviewState { return w.ReviewState }

// Normalize trims free-text fields, drops unusable definitions and clears a
// reading-record source that has no reference name.
func (w *Word) Normalize() {
	w.Text = strings.TrimSpace(w.Text)
	w.Notes = strings.TrimSpace(w.Notes)

	defs := make([]WordDefinition, 0, len(w.Definitions))
	for _, d := range w.Definitions {
		if !d.Usable() {
			continue
		}
		defs = append(defs, WordDefinition{
			PartOfSpeech: strings.TrimSpace(d.PartOfSpeech),
			Definition:   strings.TrimSpace(d.Definition),
			Example:      strings.TrimSpace(d.Example),
		})
	}
	w.Definitions = defs

	if w.ReadingRecordSource != nil && strings.TrimSpace(w.ReadingRecordSource.ReferenceName) == "" {
		w.ReadingRecordSource = nil
	}
}

// Validate checks if the Word has valid data.
func (w *Word) Validate() error {
	if w.ID == "" {
		return NewValidationError("id", "is required", ErrInvalidID)
	}
	if strings.TrimSpace(w.Text) == "" {
		return NewValidationError("text", "is required", ErrEmptyWordText)
	}
	usable := false
	for _, d := range w.Definitions {
		if d.Usable() {
			usable = true
			break
		}
	}
	if !usable {
		return NewValidationError("definitions", "must contain a part of speech and a definition", ErrNoDefinitions)
	}
	return w.ReviewState.Validate()
}

// Matches reports whether term occurs, case-insensitively, in the word text,
// its notes or any definition.
func (w Word) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(w.Text), term) || strings.Contains(strings.ToLower(w.Notes), term) {
		return true
	}
	for _, d := range w.Definitions {
		if strings.Contains(strings.ToLower(d.Definition), term) {
			return true
		}
	}
	return false
}

package domain

import "github.com/google/uuid"

// ID prefixes used when the store generates identifiers.
const (
	WordIDPrefix     = "word"
	NoteIDPrefix     = "kp"
	CategoryIDPrefix = "cat"
	TaskIDPrefix     = "task"
)

// NewID returns a fresh identifier of the form "<prefix>-<uuid>".
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

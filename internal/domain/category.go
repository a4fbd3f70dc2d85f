package domain

import (
	"errors"
	"strings"
)

// ErrEmptyCategoryName is returned when a category name is blank.
var ErrEmptyCategoryName = errors.New("category name cannot be empty")

// Category is a node of the outline forest. A nil ParentID marks a root.
type Category struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parentId"`
}

// IsRoot reports whether the category has no parent.
func (c Category) IsRoot() bool {
	return c.ParentID == nil
}

// HasParent reports whether the category's parent is parentID.
func (c Category) HasParent(parentID string) bool {
	return c.ParentID != nil && *c.ParentID == parentID
}

// Validate checks if the Category has valid data.
func (c *Category) Validate() error {
	if c.ID == "" {
		return NewValidationError("id", "is required", ErrInvalidID)
	}
	if strings.TrimSpace(c.Name) == "" {
		return NewValidationError("name", "is required", ErrEmptyCategoryName)
	}
	return nil
}

// Ref returns a pointer to a copy of s, for optional id fields.
func Ref(s string) *string {
	return &s
}

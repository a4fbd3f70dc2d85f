package store

import (
	"fmt"

	"github.com/phrazzld/lumina/internal/domain"
	"github.com/phrazzld/lumina/internal/domain/outline"
	"github.com/phrazzld/lumina/internal/events"
)

// Categories returns the categories in insertion order.
func (s *Store) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Category{}, s.categories...)
}

// Outline returns a forest index over the current categories.
func (s *Store) Outline() *outline.Forest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return outline.New(s.categories)
}

// CategoryUsage counts notes filed directly under id.
func (s *Store) CategoryUsage(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return outline.UsageCount(s.notes, id)
}

// AddCategory inserts a category. A missing id is generated. The parent, if
// any, must exist.
func (s *Store) AddCategory(c domain.Category) (domain.Category, error) {
	if c.ID == "" {
		c.ID = domain.NewID(domain.CategoryIDPrefix)
	}
	if c.ParentID != nil && *c.ParentID == "" {
		c.ParentID = nil
	}
	if err := c.Validate(); err != nil {
		return domain.Category{}, invalid("category", err)
	}

	s.mu.Lock()
	if err := s.errIfNotLoaded(); err != nil {
		s.mu.Unlock()
		return domain.Category{}, err
	}
	forest := outline.New(s.categories)
	if forest.Has(c.ID) {
		s.mu.Unlock()
		return domain.Category{}, invalid("category", fmt.Errorf("id %q already exists", c.ID))
	}
	if err := forest.ValidateParent(c.ID, c.ParentID); err != nil {
		s.mu.Unlock()
		return domain.Category{}, err
	}
	s.categories = append(s.categories, c)
	s.mu.Unlock()

	s.mutated(events.CollectionCategories, events.ActionAdded, c.ID, c)
	return c, nil
}

// UpdateCategory replaces the category with the same id. A parent change that
// would make the category its own ancestor is rejected with outline.ErrSelfParent
// or outline.ErrCycle. It reports false, without error, when no such category exists.
func (s *Store) UpdateCategory(c domain.Category) (bool, error) {
	if c.ParentID != nil && *c.ParentID == "" {
		c.ParentID = nil
	}
	if err := c.Validate(); err != nil {
		return false, invalid("category", err)
	}

	s.mu.Lock()
	idx := -1
	for i := range s.categories {
		if s.categories[i].ID == c.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}
	if err := outline.New(s.categories).ValidateParent(c.ID, c.ParentID); err != nil {
		s.mu.Unlock()
		return false, err
	}
	s.categories[idx] = c
	s.mu.Unlock()

	s.mutated(events.CollectionCategories, events.ActionUpdated, c.ID, c)
	return true, nil
}

// CanDeleteCategory explains why id cannot be deleted, or returns nil.
func (s *Store) CanDeleteCategory(id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return outline.New(s.categories).CheckDelete(id, s.notes)
}

// DeleteCategory removes a category that has no notes and no subcategories.
// It reports false and leaves the store unchanged otherwise.
func (s *Store) DeleteCategory(id string) bool {
	s.mu.Lock()
	if err := outline.New(s.categories).CheckDelete(id, s.notes); err != nil {
		s.mu.Unlock()
		s.logger.Info("category deletion refused",
			"category_id", id,
			"reason", err.Error())
		return false
	}
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.mutated(events.CollectionCategories, events.ActionDeleted, id, nil)
	return true
}

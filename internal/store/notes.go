package store

import (
	"strings"

	"github.com/phrazzld/lumina/internal/domain"
	"github.com/phrazzld/lumina/internal/domain/outline"
	"github.com/phrazzld/lumina/internal/events"
)

// KnowledgePoints returns the knowledge points, newest first.
func (s *Store) KnowledgePoints() []domain.KnowledgePoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.KnowledgePoint{}, s.notes...)
}

// KnowledgePoint returns the knowledge point with id.
func (s *Store) KnowledgePoint(id string) (domain.KnowledgePoint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, kp := range s.notes {
		if kp.ID == id {
			return kp, true
		}
	}
	return domain.KnowledgePoint{}, false
}

// NoteFilter selects knowledge points.
type NoteFilter struct {
	// CategoryID keeps notes filed under the category or any descendant.
	CategoryID string
	// Unassigned keeps only notes without a category. It wins over CategoryID.
	Unassigned bool
	// Query is matched case-insensitively against title, content, notes and source.
	Query string
}

// FilterKnowledgePoints returns the notes matching f, newest first.
func (s *Store) FilterKnowledgePoints(f NoteFilter) []domain.KnowledgePoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var subtree map[string]struct{}
	if f.CategoryID != "" && !f.Unassigned {
		subtree = outline.New(s.categories).Subtree(f.CategoryID)
	}

	out := make([]domain.KnowledgePoint, 0)
	for _, kp := range s.notes {
		switch {
		case f.Unassigned:
			if kp.CategoryID != nil {
				continue
			}
		case subtree != nil:
			if kp.CategoryID == nil {
				continue
			}
			if _, ok := subtree[*kp.CategoryID]; !ok {
				continue
			}
		}
		if !kp.Matches(f.Query) {
			continue
		}
		out = append(out, kp)
	}
	return out
}

// AddKnowledgePoint inserts a new note. A missing id is generated, a zero
// createdAt is set to now, and review starts at stage 0 reviewed now. A Daily
// Thoughts note without a title is titled with today's date.
func (s *Store) AddKnowledgePoint(kp domain.KnowledgePoint) (domain.KnowledgePoint, error) {
	nowTime := s.now()
	now := domain.Millis(nowTime)
	kp.Normalize()
	if kp.InCategory(domain.DailyThoughtsCategoryID) && strings.TrimSpace(kp.Title) == "" {
		kp.Title = domain.DateKey(nowTime)
	}
	if kp.ID == "" {
		kp.ID = domain.NewID(domain.NoteIDPrefix)
	}
	if kp.CreatedAt == 0 {
		kp.CreatedAt = now
	}
	kp.ReviewState = domain.ReviewState{ReviewStage: domain.StageLearned, LastReviewedAt: now}
	if err := kp.Validate(); err != nil {
		return domain.KnowledgePoint{}, invalid("knowledge point", err)
	}

	s.mu.Lock()
	if err := s.errIfNotLoaded(); err != nil {
		s.mu.Unlock()
		return domain.KnowledgePoint{}, err
	}
	s.notes = append(s.notes, kp)
	sortNotes(s.notes)
	s.mu.Unlock()

	s.mutated(events.CollectionKnowledgePoints, events.ActionAdded, kp.ID, kp)
	return kp, nil
}

// UpdateKnowledgePoint replaces the note with the same id. It reports false,
// without error, when no such note exists.
func (s *Store) UpdateKnowledgePoint(kp domain.KnowledgePoint) (bool, error) {
	kp.Normalize()
	if err := kp.Validate(); err != nil {
		return false, invalid("knowledge point", err)
	}

	s.mu.Lock()
	found := false
	for i := range s.notes {
		if s.notes[i].ID == kp.ID {
			s.notes[i] = kp
			found = true
			break
		}
	}
	if found {
		sortNotes(s.notes)
	}
	s.mu.Unlock()

	if found {
		s.mutated(events.CollectionKnowledgePoints, events.ActionUpdated, kp.ID, kp)
	}
	return found, nil
}

// DeleteKnowledgePoint removes the note with id and reports whether it existed.
func (s *Store) DeleteKnowledgePoint(id string) bool {
	s.mu.Lock()
	found := false
	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if found {
		s.mutated(events.CollectionKnowledgePoints, events.ActionDeleted, id, nil)
	}
	return found
}

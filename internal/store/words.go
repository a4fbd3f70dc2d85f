package store

import (
	"github.com/phrazzld/lumina/internal/domain"
	"github.com/phrazzld/lumina/internal/events"
)

// Words returns the words, newest first.
func (s *Store) Words() []domain.Word {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Word{}, s.words...)
}

// Word returns the word with id.
func (s *Store) Word(id string) (domain.Word, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, w := range s.words {
		if w.ID == id {
			return w, true
		}
	}
	return domain.Word{}, false
}

// SearchWords returns words matching term in their text, notes or definitions.
func (s *Store) SearchWords(term string) []domain.Word {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Word, 0)
	for _, w := range s.words {
		if w.Matches(term) {
			out = append(out, w)
		}
	}
	return out
}

// AddWord inserts a new word. A missing id is generated, a zero createdAt is
// set to now, and review starts at stage 0 reviewed now.
func (s *Store) AddWord(w domain.Word) (domain.Word, error) {
	now := domain.Millis(s.now())
	w.Normalize()
	if w.ID == "" {
		w.ID = domain.NewID(domain.WordIDPrefix)
	}
	if w.CreatedAt == 0 {
		w.CreatedAt = now
	}
	w.ReviewState = domain.ReviewState{ReviewStage: domain.StageLearned, LastReviewedAt: now}
	if err := w.Validate(); err != nil {
		return domain.Word{}, invalid("word", err)
	}

	s.mu.Lock()
	if err := s.errIfNotLoaded(); err != nil {
		s.mu.Unlock()
		return domain.Word{}, err
	}
	s.words = append(s.words, w)
	sortWords(s.words)
	s.mu.Unlock()

	s.mutated(events.CollectionWords, events.ActionAdded, w.ID, w)
	return w, nil
}

// UpdateWord replaces the word with the same id. It reports false, without
// error, when no such word exists.
func (s *Store) UpdateWord(w domain.Word) (bool, error) {
	w.Normalize()
	if err := w.Validate(); err != nil {
		return false, invalid("word", err)
	}

	s.mu.Lock()
	found := false
	for i := range s.words {
		if s.words[i].ID == w.ID {
			s.words[i] = w
			found = true
			break
		}
	}
	if found {
		sortWords(s.words)
	}
	s.mu.Unlock()

	if found {
		s.mutated(events.CollectionWords, events.ActionUpdated, w.ID, w)
	}
	return found, nil
}

// DeleteWord removes the word with id and reports whether it existed.
func (s *Store) DeleteWord(id string) bool {
	s.mu.Lock()
	found := false
	for i := range s.words {
		if s.words[i].ID == id {
			s.words = append(s.words[:i], s.words[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if found {
		s.mutated(events.CollectionWords, events.ActionDeleted, id, nil)
	}
	return found
}

package store

import (
	"fmt"

	"github.com/phrazzld/lumina/internal/domain"
	"github.com/phrazzld/lumina/internal/domain/srs"
	"github.com/phrazzld/lumina/internal/events"
)

// Outcome is the result of reviewing an item.
type Outcome string

// Review outcomes.
const (
	Remembered Outcome = "remembered"
	Forgotten  Outcome = "forgotten"
	Undo       Outcome = "undo"
)

func (s *Store) apply(outcome Outcome, state domain.ReviewState) (domain.ReviewState, error) {
	now := s.now()
	switch outcome {
	case Remembered:
		return s.srs.MarkRemembered(state, now)
	case Forgotten:
		return s.srs.MarkForgotten(state, now)
	case Undo:
		return s.srs.UndoLastReview(state, now)
	default:
		return state, fmt.Errorf("unknown review outcome %q", outcome)
	}
}

// ReviewWord records a review outcome for the word with id.
func (s *Store) ReviewWord(id string, outcome Outcome) (domain.Word, error) {
	s.mu.Lock()
	idx := -1
	for i := range s.words {
		if s.words[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return domain.Word{}, ErrWordNotFound
	}
	next, err := s.apply(outcome, s.words[idx].ReviewState)
	if err != nil {
		s.mu.Unlock()
		return domain.Word{}, err
	}
	s.words[idx].ReviewState = next
	w := s.words[idx]
	s.mu.Unlock()

	s.mutated(events.CollectionWords, events.ActionUpdated, id, w)
	return w, nil
}

// ReviewKnowledgePoint records a review outcome for the note with id.
func (s *Store) ReviewKnowledgePoint(id string, outcome Outcome) (domain.KnowledgePoint, error) {
	s.mu.Lock()
	idx := -1
	for i := range s.notes {
		if s.notes[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return domain.KnowledgePoint{}, ErrKnowledgePointNotFound
	}
	next, err := s.apply(outcome, s.notes[idx].ReviewState)
	if err != nil {
		s.mu.Unlock()
		return domain.KnowledgePoint{}, err
	}
	s.notes[idx].ReviewState = next
	kp := s.notes[idx]
	s.mu.Unlock()

	s.mutated(events.CollectionKnowledgePoints, events.ActionUpdated, id, kp)
	return kp, nil
}

// DueWords returns the words due now, earliest due first.
func (s *Store) DueWords() ([]domain.Word, error) {
	s.mu.RLock()
	words := append([]domain.Word{}, s.words...)
	s.mu.RUnlock()
	return srs.DueItems(s.srs, words, s.now())
}

// DueKnowledgePoints returns the notes due now, earliest due first. Daily
// Thoughts notes are journal entries and never enter review.
func (s *Store) DueKnowledgePoints() ([]domain.KnowledgePoint, error) {
	s.mu.RLock()
	notes := make([]domain.KnowledgePoint, 0, len(s.notes))
	for _, kp := range s.notes {
		if kp.InCategory(domain.DailyThoughtsCategoryID) {
			continue
		}
		notes = append(notes, kp)
	}
	s.mu.RUnlock()
	return srs.DueItems(s.srs, notes, s.now())
}

// ReviewStats summarises words and knowledge points.
type ReviewStats struct {
	Words           srs.Stats
	KnowledgePoints srs.Stats
}

// Stats computes review statistics at the current time.
func (s *Store) Stats() (ReviewStats, error) {
	s.mu.RLock()
	words := append([]domain.Word{}, s.words...)
	notes := make([]domain.KnowledgePoint, 0, len(s.notes))
	for _, kp := range s.notes {
		if !kp.InCategory(domain.DailyThoughtsCategoryID) {
			notes = append(notes, kp)
		}
	}
	s.mu.RUnlock()

	now := s.now()
	ws, err := srs.ComputeStats(s.srs, words, now)
	if err != nil {
		return ReviewStats{}, err
	}
	ns, err := srs.ComputeStats(s.srs, notes, now)
	if err != nil {
		return ReviewStats{}, err
	}
	return ReviewStats{Words: ws, KnowledgePoints: ns}, nil
}

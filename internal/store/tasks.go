package store

import (
	"github.com/phrazzld/lumina/internal/domain"
	"github.com/phrazzld/lumina/internal/domain/daily"
	"github.com/phrazzld/lumina/internal/events"
)

// Tasks returns all tasks, newest first.
func (s *Store) Tasks() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Task{}, s.tasks...)
}

// Task returns the task with id.
func (s *Store) Task(id string) (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Task{}, false
}

// TodayTasks returns today's view: incomplete first, newest first.
func (s *Store) TodayTasks() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return daily.TodayView(s.tasks, s.now(), s.loc)
}

// AddTask inserts a new task. A missing id is generated, a zero createdAt is
// set to now and an empty quadrant defaults to urgent-important.
func (s *Store) AddTask(t domain.Task) (domain.Task, error) {
	now := s.now()
	t.Normalize()
	if t.ID == "" {
		t.ID = domain.NewID(domain.TaskIDPrefix)
	}
	if t.CreatedAt == 0 {
		t.CreatedAt = domain.Millis(now)
	}
	t.StampCompletion(now)
	if err := t.Validate(); err != nil {
		return domain.Task{}, invalid("task", err)
	}

	s.mu.Lock()
	if err := s.errIfNotLoaded(); err != nil {
		s.mu.Unlock()
		return domain.Task{}, err
	}
	s.tasks = append(s.tasks, t)
	sortTasks(s.tasks)
	s.mu.Unlock()

	s.mutated(events.CollectionTasks, events.ActionAdded, t.ID, t)
	return t, nil
}

// UpdateTask replaces the task with the same id. It reports false, without
// error, when no such task exists.
func (s *Store) UpdateTask(t domain.Task) (bool, error) {
	t.Normalize()
	t.StampCompletion(s.now())
	if err := t.Validate(); err != nil {
		return false, invalid("task", err)
	}

	s.mu.Lock()
	found := s.replaceTaskLocked(t)
	s.mu.Unlock()

	if found {
		s.mutated(events.CollectionTasks, events.ActionUpdated, t.ID, t)
	}
	return found, nil
}

func (s *Store) replaceTaskLocked(t domain.Task) bool {
	for i := range s.tasks {
		if s.tasks[i].ID == t.ID {
			s.tasks[i] = t
			sortTasks(s.tasks)
			return true
		}
	}
	return false
}

// DeleteTask removes the task with id and reports whether it existed.
func (s *Store) DeleteTask(id string) bool {
	s.mu.Lock()
	found := false
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if found {
		s.mutated(events.CollectionTasks, events.ActionDeleted, id, nil)
	}
	return found
}

// ToggleTaskCompleted flips completion, stamping or clearing completedAt.
func (s *Store) ToggleTaskCompleted(id string) (domain.Task, error) {
	return s.toggleTask(id, func(t domain.Task) domain.Task {
		return daily.ToggleCompleted(t, s.now())
	})
}

// ToggleTaskCarryOver flips the carry-over flag; long-term tasks are unchanged.
func (s *Store) ToggleTaskCarryOver(id string) (domain.Task, error) {
	return s.toggleTask(id, daily.ToggleCarryOver)
}

// ToggleTaskLongTerm flips the long-term flag, clearing carry-over when set.
func (s *Store) ToggleTaskLongTerm(id string) (domain.Task, error) {
	return s.toggleTask(id, daily.ToggleLongTerm)
}

func (s *Store) toggleTask(id string, fn func(domain.Task) domain.Task) (domain.Task, error) {
	s.mu.Lock()
	var updated domain.Task
	found := false
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			updated = fn(s.tasks[i])
			s.tasks[i] = updated
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return domain.Task{}, ErrTaskNotFound
	}
	s.mutated(events.CollectionTasks, events.ActionUpdated, id, updated)
	return updated, nil
}

package manager

import (
	"fmt"

	"github.com/forsidenis/kanban/internal/domain"
)

// Tasks returns copies of all plain tasks sorted by id.
func (m *Manager) Tasks() []domain.Task {
	return sortedValues(m.tasks, domain.Task.Clone)
}

// Task returns the task with id and records it in history.
func (m *Manager) Task(id int) (domain.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return domain.Task{}, fmt.Errorf("task #%d: %w", id, domain.ErrNotFound)
	}
	m.history.Add(t)
	return t.Clone(), nil
}

// CreateTask stores t under a fresh id. Any id on t is ignored.
func (m *Manager) CreateTask(t domain.Task) (domain.Task, error) {
	t, err := normalizeTask(t)
	if err != nil {
		return domain.Task{}, err
	}
	if err := m.checkSchedule(t, 0); err != nil {
		return domain.Task{}, err
	}

	t.ID = m.allocID()
	m.tasks[t.ID] = t
	m.reindex(t.ID, t)
	return t.Clone(), nil
}

// UpdateTask replaces the stored task with the same id.
// An unknown id is a no-op and returns false.
func (m *Manager) UpdateTask(t domain.Task) (bool, error) {
	if _, ok := m.tasks[t.ID]; !ok {
		return false, nil
	}
	t, err := normalizeTask(t)
	if err != nil {
		return false, err
	}
	if err := m.checkSchedule(t, t.ID); err != nil {
		return false, err
	}

	m.tasks[t.ID] = t
	m.reindex(t.ID, t)
	return true, nil
}

// DeleteTask removes the task with id. Returns false if it did not exist.
func (m *Manager) DeleteTask(id int) bool {
	if _, ok := m.tasks[id]; !ok {
		return false
	}
	delete(m.tasks, id)
	m.forget(id)
	return true
}

// DeleteAllTasks removes every plain task.
func (m *Manager) DeleteAllTasks() {
	for id := range m.tasks {
		m.forget(id)
	}
	clear(m.tasks)
}

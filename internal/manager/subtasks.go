package manager

import (
	"fmt"

	"github.com/forsidenis/kanban/internal/domain"
)

// Subtasks returns copies of all subtasks sorted by id.
func (m *Manager) Subtasks() []domain.Subtask {
	return sortedValues(m.subtasks, domain.Subtask.Clone)
}

// Subtask returns the subtask with id and records it in history.
func (m *Manager) Subtask(id int) (domain.Subtask, error) {
	s, ok := m.subtasks[id]
	if !ok {
		return domain.Subtask{}, fmt.Errorf("subtask #%d: %w", id, domain.ErrNotFound)
	}
	m.history.Add(s)
	return s.Clone(), nil
}

// CreateSubtask stores s under a fresh id and links it to its epic.
// Any id on s is ignored.
func (m *Manager) CreateSubtask(s domain.Subtask) (domain.Subtask, error) {
	if _, ok := m.epics[s.EpicID]; !ok {
		return domain.Subtask{}, fmt.Errorf("epic #%d: %w", s.EpicID, domain.ErrInvalidReference)
	}
	task, err := normalizeTask(s.Task)
	if err != nil {
		return domain.Subtask{}, err
	}
	s.Task = task
	if err := m.checkSchedule(s.Task, 0); err != nil {
		return domain.Subtask{}, err
	}

	s.ID = m.allocID()
	m.subtasks[s.ID] = s
	m.link(s.EpicID, s.ID)
	m.reindex(s.ID, s.Task)
	return s.Clone(), nil
}

// UpdateSubtask replaces the stored subtask with the same id.
// Changing EpicID moves the subtask between epics; the target epic must exist.
// An unknown id is a no-op and returns false.
func (m *Manager) UpdateSubtask(s domain.Subtask) (bool, error) {
	old, ok := m.subtasks[s.ID]
	if !ok {
		return false, nil
	}
	task, err := normalizeTask(s.Task)
	if err != nil {
		return false, err
	}
	s.Task = task
	moved := s.EpicID != old.EpicID
	if moved {
		if _, ok := m.epics[s.EpicID]; !ok {
			return false, fmt.Errorf("epic #%d: %w", s.EpicID, domain.ErrInvalidReference)
		}
	}
	if err := m.checkSchedule(s.Task, s.ID); err != nil {
		return false, err
	}

	m.subtasks[s.ID] = s
	if moved {
		m.unlink(old.EpicID, s.ID)
		m.link(s.EpicID, s.ID)
	} else {
		m.recompute(s.EpicID)
	}
	m.reindex(s.ID, s.Task)
	return true, nil
}

// DeleteSubtask removes the subtask with id and unlinks it from its epic.
// Returns false if it did not exist.
func (m *Manager) DeleteSubtask(id int) bool {
	s, ok := m.subtasks[id]
	if !ok {
		return false
	}
	delete(m.subtasks, id)
	m.unlink(s.EpicID, id)
	m.forget(id)
	return true
}

// DeleteAllSubtasks removes every subtask. Epics remain, reset to NEW
// with no time window.
func (m *Manager) DeleteAllSubtasks() {
	for id := range m.subtasks {
		m.forget(id)
	}
	clear(m.subtasks)
	for id, e := range m.epics {
		e.ClearSubtasks()
		e.Recompute(nil)
		m.epics[id] = e
	}
}

func (m *Manager) link(epicID, subtaskID int) {
	e, ok := m.epics[epicID]
	if !ok {
		return
	}
	e.AttachSubtask(subtaskID)
	m.epics[epicID] = e
	m.recompute(epicID)
}

func (m *Manager) unlink(epicID, subtaskID int) {
	e, ok := m.epics[epicID]
	if !ok {
		return
	}
	e.DetachSubtask(subtaskID)
	m.epics[epicID] = e
	m.recompute(epicID)
}

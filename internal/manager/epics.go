package manager

import (
	"fmt"

	"github.com/forsidenis/kanban/internal/domain"
)

// EpicUpdate carries the authored fields of an epic.
type EpicUpdate struct {
	Title       string
	Description string
	ID          int
}

// Epics returns copies of all epics sorted by id.
func (m *Manager) Epics() []domain.Epic {
	return sortedValues(m.epics, domain.Epic.Clone)
}

// Epic returns the epic with id and records it in history.
func (m *Manager) Epic(id int) (domain.Epic, error) {
	e, ok := m.epics[id]
	if !ok {
		return domain.Epic{}, fmt.Errorf("epic #%d: %w", id, domain.ErrNotFound)
	}
	m.history.Add(e)
	return e.Clone(), nil
}

// CreateEpic stores a new epic with the authored fields of e.
// The new epic has no subtasks, status NEW and no time window.
func (m *Manager) CreateEpic(e domain.Epic) domain.Epic {
	created := domain.RestoreEpic(m.allocID(), e.Title, e.Description)
	m.epics[created.ID] = created
	return created.Clone()
}

// UpdateEpic changes the title and description of an existing epic.
// Derived fields and linkage are untouched. An unknown id returns false.
func (m *Manager) UpdateEpic(u EpicUpdate) bool {
	e, ok := m.epics[u.ID]
	if !ok {
		return false
	}
	e.Title = u.Title
	e.Description = u.Description
	m.epics[u.ID] = e
	return true
}

// DeleteEpic removes the epic with id and all of its subtasks.
// Returns false if it did not exist.
func (m *Manager) DeleteEpic(id int) bool {
	e, ok := m.epics[id]
	if !ok {
		return false
	}
	for _, sid := range e.SubtaskIDs() {
		delete(m.subtasks, sid)
		m.forget(sid)
	}
	delete(m.epics, id)
	m.forget(id)
	return true
}

// DeleteAllEpics removes every epic and, with them, every subtask.
func (m *Manager) DeleteAllEpics() {
	for id := range m.subtasks {
		m.forget(id)
	}
	for id := range m.epics {
		m.forget(id)
	}
	clear(m.subtasks)
	clear(m.epics)
}

// SubtasksByEpic returns the subtasks of epicID in the epic's order.
// An unknown epic yields an empty list.
func (m *Manager) SubtasksByEpic(epicID int) []domain.Subtask {
	e, ok := m.epics[epicID]
	if !ok {
		return []domain.Subtask{}
	}
	subs := m.resolveSubtasks(e)
	for i := range subs {
		subs[i] = subs[i].Clone()
	}
	return subs
}

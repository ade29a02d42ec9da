package manager

import (
	"fmt"

	"github.com/forsidenis/kanban/internal/domain"
)

// Snapshot returns the full state for persistence.
func (m *Manager) Snapshot() domain.Snapshot {
	return domain.Snapshot{
		Tasks:    m.Tasks(),
		Epics:    m.Epics(),
		Subtasks: m.Subtasks(),
		History:  m.history.IDs(),
		NextID:   m.nextID,
	}
}

// FromSnapshot builds a Manager from snap.
// Epic linkage is rebuilt from subtask epic ids and every epic is recomputed.
// History ids that no longer resolve are skipped.
// Structural problems in snap are reported as domain.ErrMalformedSnapshot.
func FromSnapshot(snap domain.Snapshot) (*Manager, error) {
	m := New()
	maxID := 0
	claim := func(id int) error {
		if id <= 0 {
			return fmt.Errorf("%w: invalid id %d", domain.ErrMalformedSnapshot, id)
		}
		if _, ok := m.Lookup(id); ok {
			return fmt.Errorf("%w: duplicate id %d", domain.ErrMalformedSnapshot, id)
		}
		maxID = max(maxID, id)
		return nil
	}

	for _, e := range sortByID(snap.Epics) {
		if err := claim(e.ID); err != nil {
			return nil, err
		}
		m.epics[e.ID] = domain.RestoreEpic(e.ID, e.Title, e.Description)
	}

	for _, t := range sortByID(snap.Tasks) {
		if err := claim(t.ID); err != nil {
			return nil, err
		}
		if err := m.restoreTask(&t); err != nil {
			return nil, fmt.Errorf("task #%d: %w", t.ID, err)
		}
		m.tasks[t.ID] = t
		m.reindex(t.ID, t)
	}

	for _, s := range sortByID(snap.Subtasks) {
		if err := claim(s.ID); err != nil {
			return nil, err
		}
		e, ok := m.epics[s.EpicID]
		if !ok {
			return nil, fmt.Errorf("%w: subtask #%d references missing epic #%d", domain.ErrMalformedSnapshot, s.ID, s.EpicID)
		}
		if err := m.restoreTask(&s.Task); err != nil {
			return nil, fmt.Errorf("subtask #%d: %w", s.ID, err)
		}
		m.subtasks[s.ID] = s
		e.AttachSubtask(s.ID)
		m.epics[s.EpicID] = e
		m.reindex(s.ID, s.Task)
	}

	for id := range m.epics {
		m.recompute(id)
	}

	m.nextID = max(snap.NextID, maxID+1)

	for _, id := range snap.History {
		if e, ok := m.Lookup(id); ok {
			m.history.Add(e)
		}
	}
	return m, nil
}

func (m *Manager) restoreTask(t *domain.Task) error {
	normalized, err := normalizeTask(*t)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrMalformedSnapshot, err)
	}
	if err := m.checkSchedule(normalized, 0); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrMalformedSnapshot, err)
	}
	*t = normalized
	return nil
}

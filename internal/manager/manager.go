// Package manager owns all task state and enforces the epic/subtask,
// scheduling and history rules.
package manager

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/forsidenis/kanban/internal/domain"
	"github.com/forsidenis/kanban/internal/history"
	"github.com/forsidenis/kanban/internal/schedule"
)

// Manager is the in-memory entity store.
// Every failing operation leaves the state unchanged.
// It is not safe for concurrent use; callers serialize access.
type Manager struct {
	tasks    map[int]domain.Task
	epics    map[int]domain.Epic
	subtasks map[int]domain.Subtask
	history  *history.Tracker
	index    *schedule.Index
	nextID   int
}

// New creates an empty Manager whose first id is 1.
func New() *Manager {
	return &Manager{
		tasks:    make(map[int]domain.Task),
		epics:    make(map[int]domain.Epic),
		subtasks: make(map[int]domain.Subtask),
		history:  history.New(),
		index:    schedule.NewIndex(),
		nextID:   1,
	}
}

// NextID returns the id the next created entity will receive.
func (m *Manager) NextID() int {
	return m.nextID
}

// Count returns the number of stored entities of kind.
func (m *Manager) Count(kind domain.Kind) int {
	switch kind {
	case domain.KindTask:
		return len(m.tasks)
	case domain.KindEpic:
		return len(m.epics)
	case domain.KindSubtask:
		return len(m.subtasks)
	default:
		return 0
	}
}

// Lookup returns a copy of the entity with id, of any kind.
// Unlike the typed getters it does not record history.
func (m *Manager) Lookup(id int) (domain.Entity, bool) {
	if t, ok := m.tasks[id]; ok {
		return t.Clone(), true
	}
	if e, ok := m.epics[id]; ok {
		return e.Clone(), true
	}
	if s, ok := m.subtasks[id]; ok {
		return s.Clone(), true
	}
	return nil, false
}

// History returns copies of viewed entities, oldest first.
func (m *Manager) History() []domain.Entity {
	return m.history.Entries()
}

// Prioritized returns scheduled tasks and subtasks in ascending start order.
// Epics and entities without a start time are not included.
func (m *Manager) Prioritized() []domain.Entity {
	entries := m.index.Entries()
	out := make([]domain.Entity, 0, len(entries))
	for _, e := range entries {
		if ent, ok := m.Lookup(e.ID); ok {
			out = append(out, ent)
		}
	}
	return out
}

func (m *Manager) allocID() int {
	id := m.nextID
	m.nextID++
	return id
}

// checkSchedule rejects t if its window overlaps any indexed entity
// other than excludeID. Unbounded entities never conflict.
func (m *Manager) checkSchedule(t domain.Task, excludeID int) error {
	start, end, ok := t.Window()
	if !ok {
		return nil
	}
	if other, found := m.index.Conflict(schedule.Interval{Start: start, End: end}, excludeID); found {
		return fmt.Errorf("%w: conflicts with #%d", domain.ErrSchedulingConflict, other)
	}
	return nil
}

// reindex places id in the priority index according to t, or removes it
// when t has no start time.
func (m *Manager) reindex(id int, t domain.Task) {
	if t.StartTime == nil {
		m.index.Remove(id)
		return
	}
	entry := schedule.Entry{ID: id, Start: *t.StartTime}
	if _, end, ok := t.Window(); ok {
		entry.End = end
		entry.Bounded = true
	}
	m.index.Insert(entry)
}

// forget removes id from the derived structures.
func (m *Manager) forget(id int) {
	m.index.Remove(id)
	m.history.Remove(id)
}

// recompute refreshes the derived fields of epicID from its stored subtasks.
func (m *Manager) recompute(epicID int) {
	e, ok := m.epics[epicID]
	if !ok {
		return
	}
	e.Recompute(m.resolveSubtasks(e))
	m.epics[epicID] = e
}

func (m *Manager) resolveSubtasks(e domain.Epic) []domain.Subtask {
	ids := e.SubtaskIDs()
	subs := make([]domain.Subtask, 0, len(ids))
	for _, id := range ids {
		if s, ok := m.subtasks[id]; ok {
			subs = append(subs, s)
		}
	}
	return subs
}

// normalizeTask fills defaults and validates authored fields.
func normalizeTask(t domain.Task) (domain.Task, error) {
	t = t.Clone()
	if t.Status == "" {
		t.Status = domain.StatusNew
	}
	if err := t.Validate(); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

func sortedValues[V any](m map[int]V, clone func(V) V) []V {
	keys := slices.Sorted(maps.Keys(m))
	out := make([]V, 0, len(keys))
	for _, k := range keys {
		out = append(out, clone(m[k]))
	}
	return out
}

func sortByID[E domain.Entity](items []E) []E {
	out := slices.Clone(items)
	slices.SortFunc(out, func(a, b E) int {
		return cmp.Compare(a.EntityID(), b.EntityID())
	})
	return out
}

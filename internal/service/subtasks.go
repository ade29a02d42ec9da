package service

import (
	"context"

	"github.com/forsidenis/kanban/internal/domain"
)

// Subtasks returns all subtasks sorted by id.
func (s *Service) Subtasks() []domain.Subtask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mgr.Subtasks()
}

// Subtask returns the subtask with id and records the view.
func (s *Service) Subtask(ctx context.Context, id int) (domain.Subtask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.mgr.Subtask(id)
	s.record(ctx, opGet, domain.KindSubtask, id, err)
	if err != nil {
		return domain.Subtask{}, err
	}
	return st, s.persist(ctx)
}

// CreateSubtask stores a new subtask under an existing epic.
func (s *Service) CreateSubtask(ctx context.Context, st domain.Subtask) (domain.Subtask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created, err := s.mgr.CreateSubtask(st)
	s.record(ctx, opCreate, domain.KindSubtask, created.ID, err)
	if err != nil {
		return domain.Subtask{}, err
	}
	return created, s.persist(ctx)
}

// UpdateSubtask replaces an existing subtask, moving it if its epic changed.
// An EpicID of zero keeps the current epic. Unknown ids return false.
func (s *Service) UpdateSubtask(ctx context.Context, st domain.Subtask) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st.EpicID == 0 {
		if e, ok := s.mgr.Lookup(st.ID); ok {
			if cur, ok := e.(domain.Subtask); ok {
				st.EpicID = cur.EpicID
			}
		}
	}

	applied, err := s.mgr.UpdateSubtask(st)
	s.recordApplied(ctx, opUpdate, domain.KindSubtask, st.ID, applied, err)
	if err != nil || !applied {
		return applied, err
	}
	return true, s.persist(ctx)
}

// DeleteSubtask removes a subtask. Unknown ids return false.
func (s *Service) DeleteSubtask(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	applied := s.mgr.DeleteSubtask(id)
	s.recordApplied(ctx, opDelete, domain.KindSubtask, id, applied, nil)
	if !applied {
		return false, nil
	}
	return true, s.persist(ctx)
}

// DeleteAllSubtasks removes every subtask and resets all epics.
func (s *Service) DeleteAllSubtasks(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mgr.DeleteAllSubtasks()
	s.record(ctx, opClear, domain.KindSubtask, 0, nil)
	return s.persist(ctx)
}

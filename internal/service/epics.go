package service

import (
	"context"
	"fmt"

	"github.com/forsidenis/kanban/internal/domain"
	"github.com/forsidenis/kanban/internal/manager"
)

// Epics returns all epics sorted by id.
func (s *Service) Epics() []domain.Epic {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mgr.Epics()
}

// Epic returns the epic with id and records the view.
func (s *Service) Epic(ctx context.Context, id int) (domain.Epic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.mgr.Epic(id)
	s.record(ctx, opGet, domain.KindEpic, id, err)
	if err != nil {
		return domain.Epic{}, err
	}
	return e, s.persist(ctx)
}

// CreateEpic stores a new epic with the title and description of e.
func (s *Service) CreateEpic(ctx context.Context, e domain.Epic) (domain.Epic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := s.mgr.CreateEpic(e)
	s.record(ctx, opCreate, domain.KindEpic, created.ID, nil)
	return created, s.persist(ctx)
}

// UpdateEpic changes the authored fields of an epic. Unknown ids return false.
func (s *Service) UpdateEpic(ctx context.Context, u manager.EpicUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateEpic(ctx, u)
}

// UpdateEpicWithStatus is UpdateEpic for callers that echo a status back.
// A non-empty status must equal the epic's derived status at update time,
// else domain.ErrEpicStatusDerived is returned and nothing changes.
func (s *Service) UpdateEpicWithStatus(ctx context.Context, u manager.EpicUpdate, status domain.Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if status != "" {
		if e, ok := s.mgr.Lookup(u.ID); ok {
			if epic, ok := e.(domain.Epic); ok && epic.Status() != status {
				err := fmt.Errorf("%w: got %s, epic #%d is %s", domain.ErrEpicStatusDerived, status, u.ID, epic.Status())
				s.record(ctx, opUpdate, domain.KindEpic, u.ID, err)
				return false, err
			}
		}
	}
	return s.updateEpic(ctx, u)
}

func (s *Service) updateEpic(ctx context.Context, u manager.EpicUpdate) (bool, error) {
	applied := s.mgr.UpdateEpic(u)
	s.recordApplied(ctx, opUpdate, domain.KindEpic, u.ID, applied, nil)
	if !applied {
		return false, nil
	}
	return true, s.persist(ctx)
}

// DeleteEpic removes an epic and its subtasks. Unknown ids return false.
func (s *Service) DeleteEpic(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	applied := s.mgr.DeleteEpic(id)
	s.recordApplied(ctx, opDelete, domain.KindEpic, id, applied, nil)
	if !applied {
		return false, nil
	}
	return true, s.persist(ctx)
}

// DeleteAllEpics removes every epic and every subtask.
func (s *Service) DeleteAllEpics(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mgr.DeleteAllEpics()
	s.record(ctx, opClear, domain.KindEpic, 0, nil)
	return s.persist(ctx)
}

// SubtasksByEpic returns the subtasks of an epic in link order.
func (s *Service) SubtasksByEpic(epicID int) []domain.Subtask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mgr.SubtasksByEpic(epicID)
}

package service

import (
	"context"

	"github.com/forsidenis/kanban/internal/domain"
)

// Tasks returns all plain tasks sorted by id.
func (s *Service) Tasks() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mgr.Tasks()
}

// Task returns the task with id and records the view.
func (s *Service) Task(ctx context.Context, id int) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.mgr.Task(id)
	s.record(ctx, opGet, domain.KindTask, id, err)
	if err != nil {
		return domain.Task{}, err
	}
	return t, s.persist(ctx)
}

// CreateTask stores a new task.
func (s *Service) CreateTask(ctx context.Context, t domain.Task) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created, err := s.mgr.CreateTask(t)
	s.record(ctx, opCreate, domain.KindTask, created.ID, err)
	if err != nil {
		return domain.Task{}, err
	}
	return created, s.persist(ctx)
}

// UpdateTask replaces an existing task. Unknown ids return false.
func (s *Service) UpdateTask(ctx context.Context, t domain.Task) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	applied, err := s.mgr.UpdateTask(t)
	s.recordApplied(ctx, opUpdate, domain.KindTask, t.ID, applied, err)
	if err != nil || !applied {
		return applied, err
	}
	return true, s.persist(ctx)
}

// DeleteTask removes a task. Unknown ids return false.
func (s *Service) DeleteTask(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	applied := s.mgr.DeleteTask(id)
	s.recordApplied(ctx, opDelete, domain.KindTask, id, applied, nil)
	if !applied {
		return false, nil
	}
	return true, s.persist(ctx)
}

// DeleteAllTasks removes every plain task.
func (s *Service) DeleteAllTasks(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mgr.DeleteAllTasks()
	s.record(ctx, opClear, domain.KindTask, 0, nil)
	return s.persist(ctx)
}

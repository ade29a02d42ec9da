// Package memstore keeps snapshots in process memory.
// It backs the "memory" store backend and doubles as a fast store for tests.
package memstore

import (
	"context"
	"sync"

	"github.com/forsidenis/kanban/internal/domain"
)

// Store holds the last saved snapshot.
type Store struct {
	snap  domain.Snapshot
	mu    sync.RWMutex
	saves int
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

// NewWithSnapshot creates a Store preloaded with snap.
func NewWithSnapshot(snap domain.Snapshot) *Store {
	return &Store{snap: snap.Clone()}
}

// Load returns a copy of the stored snapshot.
func (s *Store) Load(ctx context.Context) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone(), nil
}

// Save replaces the stored snapshot with a copy of snap.
func (s *Store) Save(ctx context.Context, snap domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap.Clone()
	s.saves++
	return nil
}

// Saves returns how many times Save succeeded.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// Ensure Store implements SnapshotStore.
var _ domain.SnapshotStore = (*Store)(nil)

package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/forsidenis/kanban/internal/domain"
	"github.com/forsidenis/kanban/internal/manager"
)

// MigrateStoreInput contains parameters for MigrateStore.
type MigrateStoreInput struct {
	// Force overwrites a destination that already holds data.
	Force bool
}

// MigrateStoreOutput contains migration results.
type MigrateStoreOutput struct {
	Tasks    int
	Epics    int
	Subtasks int
	History  int
	// Replaced is true when a non-empty destination was overwritten.
	Replaced bool
}

// MigrateStore copies a snapshot from one store to another.
type MigrateStore struct {
	source domain.SnapshotStore
	dest   domain.SnapshotStore
}

// NewMigrateStore creates a new MigrateStore use case.
func NewMigrateStore(source, dest domain.SnapshotStore) *MigrateStore {
	return &MigrateStore{source: source, dest: dest}
}

// Execute validates the source snapshot and writes it to the destination.
// A destination that already holds data is only replaced with Force.
func (uc *MigrateStore) Execute(ctx context.Context, in MigrateStoreInput) (*MigrateStoreOutput, error) {
	if uc.source == nil || uc.dest == nil {
		return nil, errors.New("source or destination store is nil")
	}

	snap, err := uc.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load source snapshot: %w", err)
	}
	// Round-trip through a manager so only consistent state is written.
	mgr, err := manager.FromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("validate source snapshot: %w", err)
	}
	normalized := mgr.Snapshot()

	existing, err := uc.dest.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("check destination snapshot: %w", err)
	}
	replaced := !existing.IsEmpty()
	if replaced && !in.Force {
		return nil, fmt.Errorf("%w: %d entities", domain.ErrMigrationConflict, existing.Len())
	}

	if err := uc.dest.Save(ctx, normalized); err != nil {
		return nil, fmt.Errorf("save destination snapshot: %w", err)
	}

	return &MigrateStoreOutput{
		Tasks:    len(normalized.Tasks),
		Epics:    len(normalized.Epics),
		Subtasks: len(normalized.Subtasks),
		History:  len(normalized.History),
		Replaced: replaced,
	}, nil
}

package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/forsidenis/kanban/internal/domain"
	"github.com/forsidenis/kanban/internal/infra/memstore"
	"github.com/forsidenis/kanban/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() domain.Snapshot {
	start := time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC)
	return domain.Snapshot{
		Tasks: []domain.Task{{
			ID:        1,
			Title:     "Write report",
			Status:    domain.StatusNew,
			StartTime: domain.TimePtr(start),
			Duration:  domain.DurationPtr(30 * time.Minute),
		}},
		Epics: []domain.Epic{domain.RestoreEpic(2, "Release", "")},
		Subtasks: []domain.Subtask{{
			Task:   domain.Task{ID: 3, Title: "Tag", Status: domain.StatusDone},
			EpicID: 2,
		}},
		History: []int{3, 1},
		NextID:  4,
	}
}

func TestMigrateStore_Execute_CopiesSnapshot(t *testing.T) {
	// Setup
	source := memstore.NewWithSnapshot(sampleSnapshot())
	dest := memstore.New()

	// Execute
	uc := NewMigrateStore(source, dest)
	out, err := uc.Execute(context.Background(), MigrateStoreInput{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, out.Tasks)
	assert.Equal(t, 1, out.Epics)
	assert.Equal(t, 1, out.Subtasks)
	assert.Equal(t, 2, out.History)
	assert.False(t, out.Replaced)

	got, err := dest.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "Write report", got.Tasks[0].Title)
	require.Len(t, got.Subtasks, 1)
	assert.Equal(t, 2, got.Subtasks[0].EpicID)
	assert.Equal(t, []int{3, 1}, got.History)
}

func TestMigrateStore_Execute_RefusesNonEmptyDestination(t *testing.T) {
	source := memstore.NewWithSnapshot(sampleSnapshot())
	dest := memstore.NewWithSnapshot(domain.Snapshot{
		Tasks: []domain.Task{{ID: 7, Title: "Existing", Status: domain.StatusNew}},
	})

	uc := NewMigrateStore(source, dest)
	out, err := uc.Execute(context.Background(), MigrateStoreInput{})

	require.ErrorIs(t, err, domain.ErrMigrationConflict)
	assert.Nil(t, out)
	assert.Equal(t, 0, dest.Saves())
}

func TestMigrateStore_Execute_ForceReplacesDestination(t *testing.T) {
	source := memstore.NewWithSnapshot(sampleSnapshot())
	dest := memstore.NewWithSnapshot(domain.Snapshot{
		Tasks: []domain.Task{{ID: 7, Title: "Existing", Status: domain.StatusNew}},
	})

	uc := NewMigrateStore(source, dest)
	out, err := uc.Execute(context.Background(), MigrateStoreInput{Force: true})

	require.NoError(t, err)
	assert.True(t, out.Replaced)

	got, err := dest.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, 1, got.Tasks[0].ID)
}

func TestMigrateStore_Execute_RejectsMalformedSource(t *testing.T) {
	snap := sampleSnapshot()
	snap.Subtasks[0].EpicID = 99
	source := memstore.NewWithSnapshot(snap)
	dest := memstore.New()

	uc := NewMigrateStore(source, dest)
	_, err := uc.Execute(context.Background(), MigrateStoreInput{})

	require.ErrorIs(t, err, domain.ErrMalformedSnapshot)
	assert.Equal(t, 0, dest.Saves())
}

func TestMigrateStore_Execute_StoreErrors(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name   string
		source *testutil.MockSnapshotStore
		dest   *testutil.MockSnapshotStore
	}{
		{
			name:   "source load fails",
			source: &testutil.MockSnapshotStore{LoadErr: errBoom},
			dest:   testutil.NewMockSnapshotStore(domain.Snapshot{}),
		},
		{
			name:   "destination load fails",
			source: testutil.NewMockSnapshotStore(sampleSnapshot()),
			dest:   &testutil.MockSnapshotStore{LoadErr: errBoom},
		},
		{
			name:   "destination save fails",
			source: testutil.NewMockSnapshotStore(sampleSnapshot()),
			dest:   &testutil.MockSnapshotStore{SaveErr: errBoom},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewMigrateStore(tt.source, tt.dest)
			_, err := uc.Execute(context.Background(), MigrateStoreInput{})
			require.ErrorIs(t, err, errBoom)
		})
	}
}

func TestMigrateStore_Execute_NilStores(t *testing.T) {
	uc := NewMigrateStore(nil, memstore.New())
	_, err := uc.Execute(context.Background(), MigrateStoreInput{})
	require.Error(t, err)
}

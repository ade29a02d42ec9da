package csvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/forsidenis/kanban/internal/domain"
	"github.com/forsidenis/kanban/internal/manager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LoadMissing(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "kanban.csv"))

	snap, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.True(t, snap.IsEmpty())
}

func TestStore_SaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "kanban.csv")
	store := New(path)

	require.NoError(t, store.Save(context.Background(), sample()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(filePerms), info.Mode().Perm())
}

func TestStore_SaveSubMinuteDurationKeepsFile(t *testing.T) {
	// Setup
	ctx := context.Background()
	store := New(filepath.Join(t.TempDir(), "kanban.csv"))
	require.NoError(t, store.Save(ctx, sample()))

	task := domain.NewTask("short", "")
	task.ID = 9
	task.Duration = domain.DurationPtr(30 * time.Second)

	// Execute
	err := store.Save(ctx, domain.Snapshot{Tasks: []domain.Task{task}})

	// Assert
	require.ErrorIs(t, err, ErrSubMinuteDuration)
	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sample().Tasks[0].Title, got.Tasks[0].Title)
	assert.Len(t, got.Tasks, 2)
}

func TestStore_LoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kanban.csv")
	require.NoError(t, os.WriteFile(path, []byte("garbage\n"), 0o600))

	_, err := New(path).Load(context.Background())

	assert.ErrorIs(t, err, domain.ErrMalformedSnapshot)
}

func TestStore_ManagerRoundTrip(t *testing.T) {
	// Setup
	m := manager.New()
	e := m.CreateEpic(domain.NewEpic("Release", "v1, final"))
	sub := domain.NewSubtask("Tag", "", e.ID)
	sub.StartTime = domain.TimePtr(start)
	sub.Duration = domain.DurationPtr(30 * time.Minute)
	created, err := m.CreateSubtask(sub)
	require.NoError(t, err)
	task, err := m.CreateTask(domain.NewTask("Notes", ""))
	require.NoError(t, err)
	_, err = m.Subtask(created.ID)
	require.NoError(t, err)
	_, err = m.Task(task.ID)
	require.NoError(t, err)

	store := New(filepath.Join(t.TempDir(), "kanban.csv"))
	ctx := context.Background()

	// Execute
	require.NoError(t, store.Save(ctx, m.Snapshot()))
	snap, err := store.Load(ctx)
	require.NoError(t, err)
	loaded, err := manager.FromSnapshot(snap)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, m.Tasks(), loaded.Tasks())
	assert.Equal(t, m.Epics(), loaded.Epics())
	assert.Equal(t, m.Subtasks(), loaded.Subtasks())
	assert.Equal(t, []int{created.ID, task.ID}, loaded.Snapshot().History)
	assert.Equal(t, m.NextID(), loaded.NextID())
}

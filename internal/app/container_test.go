package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/forsidenis/kanban/internal/domain"
	"github.com/forsidenis/kanban/internal/infra/csvstore"
	"github.com/forsidenis/kanban/internal/infra/jsonstore"
	"github.com/forsidenis/kanban/internal/infra/memstore"
	"github.com/forsidenis/kanban/internal/infra/sqlitestore"
	"github.com/forsidenis/kanban/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		check   func(t *testing.T, s domain.SnapshotStore)
		backend string
	}{
		{backend: domain.BackendCSV, check: func(t *testing.T, s domain.SnapshotStore) {
			assert.IsType(t, &csvstore.Store{}, s)
		}},
		{backend: domain.BackendJSON, check: func(t *testing.T, s domain.SnapshotStore) {
			assert.IsType(t, &jsonstore.Store{}, s)
		}},
		{backend: domain.BackendSQLite, check: func(t *testing.T, s domain.SnapshotStore) {
			assert.IsType(t, &sqlitestore.Store{}, s)
		}},
		{backend: domain.BackendMemory, check: func(t *testing.T, s domain.SnapshotStore) {
			assert.IsType(t, &memstore.Store{}, s)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			store, closer, err := OpenStore(tt.backend, filepath.Join(dir, "snap."+tt.backend))
			require.NoError(t, err)
			t.Cleanup(func() { _ = closer.Close() })
			tt.check(t, store)
		})
	}
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	_, _, err := OpenStore("postgres", "x")
	require.ErrorIs(t, err, domain.ErrUnknownBackend)
}

func TestNew_LoadsProjectConfig(t *testing.T) {
	// Setup
	dir := t.TempDir()
	content := "[store]\nbackend = \"json\"\npath = \"data/board.json\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ProjectConfigFileName), []byte(content), 0o600))

	// Execute
	c, err := New(dir)

	// Assert
	require.NoError(t, err)
	assert.NoError(t, c.ConfigErr)
	assert.Equal(t, domain.BackendJSON, c.AppConfig.Store.Backend)
	assert.Equal(t, filepath.Join(dir, "data", "board.json"), c.StorePath(c.AppConfig.Store.Backend, c.AppConfig.Store.Path))
}

func TestNew_InvalidConfigFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	content := "[store]\nbackend = \"mongo\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ProjectConfigFileName), []byte(content), 0o600))

	c, err := New(dir)

	require.NoError(t, err)
	require.ErrorIs(t, c.ConfigErr, domain.ErrUnknownBackend)
	assert.Equal(t, domain.DefaultBackend, c.AppConfig.Store.Backend)
}

func TestContainer_StorePath(t *testing.T) {
	c := NewWithDeps(Config{WorkDir: "/work"}, nil, nil, testutil.NewMockConfigManager(), zerolog.Nop())

	assert.Equal(t, "/work/kanban.csv", c.StorePath(domain.BackendCSV, ""))
	assert.Equal(t, "/work/kanban.db", c.StorePath(domain.BackendSQLite, ""))
	assert.Equal(t, "/data/x.json", c.StorePath(domain.BackendJSON, "/data/x.json"))
	assert.Equal(t, "/work/sub/x.csv", c.StorePath(domain.BackendCSV, "sub/x.csv"))
}

func TestContainer_Apply(t *testing.T) {
	dir := t.TempDir()
	c := NewWithDeps(Config{WorkDir: dir}, nil, nil, testutil.NewMockConfigManager(), zerolog.Nop())
	t.Cleanup(c.Close)

	t.Run("rejects unknown backend", func(t *testing.T) {
		cfg := domain.NewDefaultConfig()
		cfg.Store.Backend = "mongo"
		require.ErrorIs(t, c.Apply(cfg), domain.ErrUnknownBackend)
		assert.Equal(t, domain.DefaultBackend, c.AppConfig.Store.Backend)
	})

	t.Run("writes logs to configured file", func(t *testing.T) {
		cfg := domain.NewDefaultConfig()
		cfg.Log.File = "logs/kanban.log"
		require.NoError(t, c.Apply(cfg))
		c.Logger.Info().Msg("hello")

		data, err := os.ReadFile(filepath.Join(dir, "logs", "kanban.log"))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"message":"hello"`)
	})
}

func TestContainer_Service(t *testing.T) {
	// Setup
	snap := domain.Snapshot{
		Tasks: []domain.Task{{ID: 4, Title: "Stored", Status: domain.StatusNew}},
	}
	store := testutil.NewMockSnapshotStore(snap)
	c := NewWithDeps(Config{WorkDir: t.TempDir()}, nil, store, testutil.NewMockConfigManager(), zerolog.Nop())

	// Execute
	svc, closer, err := c.Service(context.Background())

	// Assert
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })
	require.Len(t, svc.Tasks(), 1)
	assert.Equal(t, "Stored", svc.Tasks()[0].Title)

	created, err := svc.CreateTask(context.Background(), domain.NewTask("Next", ""))
	require.NoError(t, err)
	assert.Equal(t, 5, created.ID)
	assert.Equal(t, 1, store.SaveCount())
}

func TestContainer_ServiceLoadError(t *testing.T) {
	store := &testutil.MockSnapshotStore{LoadErr: assert.AnError}
	c := NewWithDeps(Config{WorkDir: t.TempDir()}, nil, store, testutil.NewMockConfigManager(), zerolog.Nop())

	_, _, err := c.Service(context.Background())

	require.ErrorIs(t, err, assert.AnError)
}

func TestContainer_ServiceRespectsAutosave(t *testing.T) {
	off := false
	cfg := domain.NewDefaultConfig()
	cfg.Store.Autosave = &off
	store := testutil.NewMockSnapshotStore(domain.Snapshot{})
	c := NewWithDeps(Config{WorkDir: t.TempDir()}, cfg, store, testutil.NewMockConfigManager(), zerolog.Nop())

	svc, _, err := c.Service(context.Background())
	require.NoError(t, err)
	_, err = svc.CreateTask(context.Background(), domain.NewTask("Draft", ""))
	require.NoError(t, err)

	assert.Equal(t, 0, store.SaveCount())
}

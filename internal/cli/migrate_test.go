package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/forsidenis/kanban/internal/domain"
	"github.com/forsidenis/kanban/internal/infra/jsonstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBoard(t *testing.T, run func(args ...string) (string, error)) {
	t.Helper()
	steps := [][]string{
		{"task", "add", "--title", "Write report"},
		{"epic", "add", "--title", "Release"},
		{"subtask", "add", "--epic", "2", "--title", "Tag"},
		{"task", "show", "1"},
	}
	for _, args := range steps {
		_, err := run(args...)
		require.NoError(t, err, "%v", args)
	}
}

func TestMigrate_CSVToJSON(t *testing.T) {
	// Setup
	c, dir := newProjectContainer(t, "")
	run := func(args ...string) (string, error) { return runRoot(c, args...) }
	seedBoard(t, run)

	// Execute
	out, err := run("migrate", "--to", "json")

	// Assert
	require.NoError(t, err)
	jsonPath := filepath.Join(dir, "kanban.json")
	assert.Contains(t, out, "Migrated 1 tasks, 1 epics, 1 subtasks and 1 history entries to "+jsonPath)

	snap, err := jsonstore.New(jsonPath).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Subtasks, 1)
	assert.Equal(t, 2, snap.Subtasks[0].EpicID)
	assert.Equal(t, []int{1}, snap.History)

	// The migrated store is usable as the configured store.
	listOut, err := run("--store", "json", "subtask", "list")
	require.NoError(t, err)
	assert.Contains(t, listOut, "Tag")
}

func TestMigrate_DestinationNotEmpty(t *testing.T) {
	c, dir := newProjectContainer(t, "")
	run := func(args ...string) (string, error) { return runRoot(c, args...) }
	seedBoard(t, run)
	_, err := run("migrate", "--to", "sqlite", "--to-path", "board.db")
	require.NoError(t, err)

	_, err = run("migrate", "--to", "sqlite", "--to-path", "board.db")
	require.ErrorIs(t, err, domain.ErrMigrationConflict)

	out, err := run("migrate", "--to", "sqlite", "--to-path", "board.db", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Replaced existing data in "+filepath.Join(dir, "board.db"))
}

func TestMigrate_Errors(t *testing.T) {
	c, _ := newProjectContainer(t, "")

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing --to", args: []string{"migrate"}},
		{name: "unknown backend", args: []string{"migrate", "--to", "mongo"}},
		{name: "same store", args: []string{"migrate", "--to", "csv"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runRoot(c, tt.args...)
			require.Error(t, err)
		})
	}
}

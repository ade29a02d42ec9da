package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/forsidenis/kanban/internal/app"
	"github.com/forsidenis/kanban/internal/infra/memstore"
	"github.com/forsidenis/kanban/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// newTestContainer creates a container backed by an in-memory store.
func newTestContainer(t *testing.T) (*app.Container, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	c := app.NewWithDeps(app.Config{WorkDir: t.TempDir()}, nil, store, testutil.NewMockConfigManager(), zerolog.Nop())
	return c, store
}

// newProjectContainer creates a container with real config files rooted at a
// temporary directory. The global config directory is isolated too.
func newProjectContainer(t *testing.T, projectConfig string) (*app.Container, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if projectConfig != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "kanban.toml"), []byte(projectConfig), 0o600))
	}
	c, err := app.New(dir)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c, dir
}

// execute runs cmd with args and returns combined stdout and stderr.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	return executeContext(context.Background(), cmd, args...)
}

func executeContext(ctx context.Context, cmd *cobra.Command, args ...string) (string, error) {
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

// runRoot executes a fresh root command against c.
func runRoot(c *app.Container, args ...string) (string, error) {
	return execute(NewRootCommand(c, "test-version"), append([]string{"--log-level", "error"}, args...)...)
}

package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/forsidenis/kanban/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCommand_NoSubcommand_ShowsHelp(t *testing.T) {
	c, _ := newProjectContainer(t, "")

	out, err := runRoot(c, "config")

	require.NoError(t, err)
	assert.Contains(t, out, "show")
	assert.Contains(t, out, "init")
}

func TestConfigInit_CreatesProjectConfig(t *testing.T) {
	// Setup
	c, dir := newProjectContainer(t, "")
	path := filepath.Join(dir, domain.ProjectConfigFileName)

	// Execute
	out, err := runRoot(c, "config", "init")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Created config file: "+path+"\n", out)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "[store]")
}

func TestConfigInit_ExistingFile(t *testing.T) {
	c, _ := newProjectContainer(t, "[log]\nlevel = \"debug\"\n")

	_, err := runRoot(c, "config", "init")
	require.ErrorIs(t, err, domain.ErrConfigExists)

	_, err = runRoot(c, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigInit_Global(t *testing.T) {
	c, _ := newProjectContainer(t, "")

	out, err := runRoot(c, "config", "init", "--global")

	require.NoError(t, err)
	globalPath := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "kanban", "config.toml")
	assert.Equal(t, "Created config file: "+globalPath+"\n", out)
	assert.FileExists(t, globalPath)
}

func TestConfigShow(t *testing.T) {
	// Setup
	c, dir := newProjectContainer(t, "[store]\nbackend = \"json\"\n")

	// Execute
	out, err := runRoot(c, "--log-level", "warn", "config", "show")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "[Loaded from]")
	assert.Contains(t, out, "- "+filepath.Join(dir, domain.ProjectConfigFileName)+"\n")
	assert.Contains(t, out, "config.toml (not found)")
	assert.Contains(t, out, "[Effective Config]")
	assert.Contains(t, out, "json")
	assert.Contains(t, out, "warn")
	assert.Contains(t, out, "autosave = true")
}

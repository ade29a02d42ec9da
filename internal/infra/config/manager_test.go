package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/forsidenis/kanban/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_GetProjectConfigInfo(t *testing.T) {
	t.Run("returns info when file exists", func(t *testing.T) {
		projectDir := t.TempDir()
		configContent := "[log]\nlevel = \"debug\""
		writeFile(t, domain.ProjectConfigPath(projectDir), configContent)

		info := NewManagerWithGlobalDir(projectDir, "").GetProjectConfigInfo()

		assert.Equal(t, domain.ProjectConfigPath(projectDir), info.Path)
		assert.Equal(t, configContent, info.Content)
		assert.True(t, info.Exists)
	})

	t.Run("returns info when file does not exist", func(t *testing.T) {
		projectDir := t.TempDir()

		info := NewManagerWithGlobalDir(projectDir, "").GetProjectConfigInfo()

		assert.Equal(t, domain.ProjectConfigPath(projectDir), info.Path)
		assert.Empty(t, info.Content)
		assert.False(t, info.Exists)
	})
}

func TestManager_GetGlobalConfigInfo(t *testing.T) {
	t.Run("returns info when file exists", func(t *testing.T) {
		globalDir := t.TempDir()
		writeFile(t, filepath.Join(globalDir, domain.ConfigFileName), "[server]\n")

		info := NewManagerWithGlobalDir("", globalDir).GetGlobalConfigInfo()

		assert.Equal(t, filepath.Join(globalDir, domain.ConfigFileName), info.Path)
		assert.True(t, info.Exists)
	})

	t.Run("returns empty info when global dir is empty", func(t *testing.T) {
		info := NewManagerWithGlobalDir("", "").GetGlobalConfigInfo()

		assert.Empty(t, info.Path)
		assert.False(t, info.Exists)
	})
}

func TestManager_InitProjectConfig(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		projectDir := t.TempDir()

		path, err := NewManagerWithGlobalDir(projectDir, "").InitProjectConfig(domain.NewDefaultConfig(), false)

		require.NoError(t, err)
		assert.Equal(t, domain.ProjectConfigPath(projectDir), path)
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "[store]")
		assert.Contains(t, string(content), `# backend = "csv"`)
	})

	t.Run("returns error if file exists", func(t *testing.T) {
		projectDir := t.TempDir()
		writeFile(t, domain.ProjectConfigPath(projectDir), "existing")

		_, err := NewManagerWithGlobalDir(projectDir, "").InitProjectConfig(domain.NewDefaultConfig(), false)

		assert.ErrorIs(t, err, domain.ErrConfigExists)
	})

	t.Run("force overwrites existing file", func(t *testing.T) {
		projectDir := t.TempDir()
		writeFile(t, domain.ProjectConfigPath(projectDir), "existing")

		path, err := NewManagerWithGlobalDir(projectDir, "").InitProjectConfig(domain.NewDefaultConfig(), true)

		require.NoError(t, err)
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(content), "existing")
	})
}

func TestManager_InitGlobalConfig(t *testing.T) {
	t.Run("creates directory and file", func(t *testing.T) {
		globalDir := filepath.Join(t.TempDir(), "nested", "kanban")

		path, err := NewManagerWithGlobalDir("", globalDir).InitGlobalConfig(domain.NewDefaultConfig(), false)

		require.NoError(t, err)
		assert.FileExists(t, path)
	})

	t.Run("returns error if global dir is empty", func(t *testing.T) {
		_, err := NewManagerWithGlobalDir("", "").InitGlobalConfig(domain.NewDefaultConfig(), false)

		assert.Error(t, err)
	})
}

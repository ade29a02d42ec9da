package usecase_test

import (
	"context"
	"testing"

	"github.com/forsidenis/kanban/internal/domain"
	"github.com/forsidenis/kanban/internal/testutil"
	"github.com/forsidenis/kanban/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig_Execute(t *testing.T) {
	t.Run("creates project config", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()
		manager.ProjectInfo = domain.ConfigInfo{Path: "/work/kanban.toml"}
		cfg := domain.NewDefaultConfig()

		uc := usecase.NewInitConfig(manager)
		out, err := uc.Execute(context.Background(), usecase.InitConfigInput{Config: cfg})

		require.NoError(t, err)
		assert.Equal(t, "/work/kanban.toml", out.Path)
		assert.Equal(t, 1, manager.InitProjectCalls)
		assert.Equal(t, 0, manager.InitGlobalCalls)
		assert.Same(t, cfg, manager.InitConfig)
	})

	t.Run("creates global config", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()
		manager.GlobalInfo = domain.ConfigInfo{Path: "/home/test/.config/kanban/config.toml"}

		uc := usecase.NewInitConfig(manager)
		out, err := uc.Execute(context.Background(), usecase.InitConfigInput{
			Config: domain.NewDefaultConfig(),
			Global: true,
		})

		require.NoError(t, err)
		assert.Equal(t, "/home/test/.config/kanban/config.toml", out.Path)
		assert.Equal(t, 0, manager.InitProjectCalls)
		assert.Equal(t, 1, manager.InitGlobalCalls)
	})

	t.Run("returns error when project config already exists", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()
		manager.ProjectInfo = domain.ConfigInfo{Path: "/work/kanban.toml", Exists: true}

		uc := usecase.NewInitConfig(manager)
		out, err := uc.Execute(context.Background(), usecase.InitConfigInput{Config: domain.NewDefaultConfig()})

		require.ErrorIs(t, err, domain.ErrConfigExists)
		assert.Nil(t, out)
	})

	t.Run("force overwrites existing config", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()
		manager.ProjectInfo = domain.ConfigInfo{Path: "/work/kanban.toml", Exists: true}

		uc := usecase.NewInitConfig(manager)
		out, err := uc.Execute(context.Background(), usecase.InitConfigInput{
			Config: domain.NewDefaultConfig(),
			Force:  true,
		})

		require.NoError(t, err)
		assert.Equal(t, "/work/kanban.toml", out.Path)
		assert.True(t, manager.Forced)
	})

	t.Run("nil config falls back to defaults", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()

		uc := usecase.NewInitConfig(manager)
		_, err := uc.Execute(context.Background(), usecase.InitConfigInput{})

		require.NoError(t, err)
		require.NotNil(t, manager.InitConfig)
		assert.Equal(t, domain.DefaultBackend, manager.InitConfig.Store.Backend)
	})
}

// Package usecase holds the kanban operations that sit outside the board
// service: writing config files and moving snapshots between backends.
package usecase

import (
	"context"

	"github.com/forsidenis/kanban/internal/domain"
)

// InitConfigInput selects which kanban.toml to write.
type InitConfigInput struct {
	Config *domain.Config // Values rendered into the template (nil = defaults)
	Global bool           // User-wide file instead of ./kanban.toml
	Force  bool           // Replace a file that already exists
}

// InitConfigOutput reports where the file went.
type InitConfigOutput struct {
	Path string
}

// InitConfig writes a commented config template.
type InitConfig struct {
	configs domain.ConfigManager
}

// NewInitConfig returns an InitConfig writing through configs.
func NewInitConfig(configs domain.ConfigManager) *InitConfig {
	return &InitConfig{configs: configs}
}

// Execute writes the template. An existing file is an error
// (domain.ErrConfigExists) unless in.Force is set.
func (uc *InitConfig) Execute(_ context.Context, in InitConfigInput) (*InitConfigOutput, error) {
	cfg := in.Config
	if cfg == nil {
		cfg = domain.NewDefaultConfig()
	}

	write := uc.configs.InitProjectConfig
	if in.Global {
		write = uc.configs.InitGlobalConfig
	}
	path, err := write(cfg, in.Force)
	if err != nil {
		return nil, err
	}
	return &InitConfigOutput{Path: path}, nil
}

package domain

import "context"

// SnapshotStore persists whole-manager snapshots.
type SnapshotStore interface {
	// Load reads the stored snapshot.
	// A store that has never been saved returns an empty snapshot.
	Load(ctx context.Context) (Snapshot, error)

	// Save replaces the stored snapshot.
	Save(ctx context.Context, snap Snapshot) error
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (project + global).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// ConfigInfo describes a configuration file on disk.
// Fields are ordered to minimize memory padding.
type ConfigInfo struct {
	Path    string // File path
	Content string // Raw file content (empty when missing)
	Exists  bool   // Whether the file exists
}

// ConfigManager manages configuration files.
type ConfigManager interface {
	// GetProjectConfigInfo returns information about the project config file.
	GetProjectConfigInfo() ConfigInfo

	// GetGlobalConfigInfo returns information about the global config file.
	GetGlobalConfigInfo() ConfigInfo

	// InitProjectConfig writes a commented template to the project config file.
	// Returns ErrConfigExists when the file exists and force is false.
	InitProjectConfig(cfg *Config, force bool) (string, error)

	// InitGlobalConfig writes a commented template to the global config file.
	InitGlobalConfig(cfg *Config, force bool) (string, error)
}

package domain

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"
)

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string     `toml:"-"`
	Server   ServerConfig `toml:"server"`
	Store    StoreConfig  `toml:"store"`
	Log      LogConfig    `toml:"log"`
}

// ServerConfig holds HTTP settings from [server] section.
type ServerConfig struct {
	Addr string `toml:"addr,omitempty"` // Listen address (host:port)
}

// StoreConfig holds snapshot storage settings from [store] section.
type StoreConfig struct {
	Backend  string `toml:"backend,omitempty"`  // Storage backend: "csv" (default), "json", "sqlite" or "memory"
	Path     string `toml:"path,omitempty"`     // Snapshot file path
	Autosave *bool  `toml:"autosave,omitempty"` // Save after every operation (default: true)
}

// AutosaveEnabled reports whether autosave is on. Unset means on.
func (s StoreConfig) AutosaveEnabled() bool {
	return s.Autosave == nil || *s.Autosave
}

// ResolvedPath returns Path, or the backend's default file when Path is empty.
func (s StoreConfig) ResolvedPath() string {
	if s.Path != "" {
		return s.Path
	}
	return DefaultStorePath(s.Backend)
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // Log level: debug, info, warn, error
	File  string `toml:"file,omitempty"`  // Log file path (empty = stderr)
}

// Storage backends.
const (
	BackendCSV    = "csv"
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// AllBackends returns all supported storage backends.
func AllBackends() []string {
	return []string{BackendCSV, BackendJSON, BackendSQLite, BackendMemory}
}

// IsValidBackend returns true if name is a supported backend.
func IsValidBackend(name string) bool {
	switch name {
	case BackendCSV, BackendJSON, BackendSQLite, BackendMemory:
		return true
	default:
		return false
	}
}

// DefaultStorePath returns the default snapshot file for a backend.
func DefaultStorePath(backend string) string {
	switch backend {
	case BackendJSON:
		return "kanban.json"
	case BackendSQLite:
		return "kanban.db"
	case BackendMemory:
		return ""
	default:
		return "kanban.csv"
	}
}

// Default configuration values.
const (
	DefaultLogLevel   = "info"
	DefaultServerAddr = "localhost:8080"
	DefaultBackend    = BackendCSV
)

// Directory and file names for kanban.
const (
	AppDirName            = "kanban"      // Directory name under the user config home
	ConfigFileName        = "config.toml" // Global config file name
	ProjectConfigFileName = "kanban.toml" // Config file name in the working directory
	EnvFileName           = ".env"        // Optional dotenv file in the working directory
	EnvPrefix             = "KANBAN"      // Prefix for environment overrides
)

// GlobalConfigDir returns the global kanban directory path.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppDirName)
}

// GlobalConfigPath returns the global config path.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalConfigDir(configHome), ConfigFileName)
}

// ProjectConfigPath returns the project config path for a working directory.
func ProjectConfigPath(dir string) string {
	return filepath.Join(dir, ProjectConfigFileName)
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: DefaultServerAddr,
		},
		Store: StoreConfig{
			Backend: DefaultBackend,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Validate checks values that cannot be corrected silently.
func (c *Config) Validate() error {
	if !IsValidBackend(c.Store.Backend) {
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Store.Backend)
	}
	return nil
}

const configTemplate = `# kanban configuration
# Values shown are the defaults. Uncomment a line to override it.

[server]
# addr = "<< .Addr >>"

[store]
# Storage backend: csv, json, sqlite or memory
# backend = "<< .Backend >>"
# path = "<< .Path >>"
# autosave = true

[log]
# Log level: debug, info, warn, error
# level = "<< .LogLevel >>"
# file = ""
`

type templateData struct {
	Addr     string
	Backend  string
	Path     string
	LogLevel string
}

// RenderConfigTemplate renders a commented config file seeded from cfg.
func RenderConfigTemplate(cfg *Config) string {
	data := templateData{
		Addr:     cfg.Server.Addr,
		Backend:  cfg.Store.Backend,
		Path:     cfg.Store.ResolvedPath(),
		LogLevel: cfg.Log.Level,
	}

	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplate)
	if err != nil {
		// Should never happen with a constant template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}
	return buf.String()
}

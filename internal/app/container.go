// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/forsidenis/kanban/internal/domain"
	"github.com/forsidenis/kanban/internal/infra/config"
	"github.com/forsidenis/kanban/internal/infra/csvstore"
	"github.com/forsidenis/kanban/internal/infra/jsonstore"
	"github.com/forsidenis/kanban/internal/infra/logging"
	"github.com/forsidenis/kanban/internal/infra/memstore"
	"github.com/forsidenis/kanban/internal/infra/sqlitestore"
	"github.com/forsidenis/kanban/internal/service"
	"github.com/forsidenis/kanban/internal/telemetry"
	"github.com/forsidenis/kanban/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Config holds the application paths.
type Config struct {
	WorkDir string // Directory holding kanban.toml, .env and relative store paths
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager

	// Store overrides the configured backend when set (tests).
	Store domain.SnapshotStore

	// ConfigErr is the error from loading config files, if any.
	// The container falls back to defaults so help and config commands still work.
	ConfigErr error

	// Pointer fields
	AppConfig *domain.Config
	Metrics   *telemetry.Metrics
	closeLog  func()

	Logger zerolog.Logger

	// Configuration
	Config Config
}

// New creates a new Container rooted at the given directory.
func New(dir string) (*Container, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve work dir: %w", err)
	}
	cfg := Config{WorkDir: abs}

	configLoader := config.NewLoader(cfg.WorkDir)
	appConfig, loadErr := configLoader.Load()
	if loadErr != nil {
		appConfig = domain.NewDefaultConfig()
	}

	return &Container{
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManager(cfg.WorkDir),
		ConfigErr:     loadErr,
		AppConfig:     appConfig,
		Metrics:       telemetry.NewDefaultMetrics(),
		Logger:        logging.NewWithWriter(os.Stderr, logging.ParseLevel(appConfig.Log.Level)),
		closeLog:      func() {},
		Config:        cfg,
	}, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, appConfig *domain.Config, store domain.SnapshotStore, configManager domain.ConfigManager, logger zerolog.Logger) *Container {
	if appConfig == nil {
		appConfig = domain.NewDefaultConfig()
	}
	return &Container{
		ConfigLoader:  config.NewLoader(cfg.WorkDir),
		ConfigManager: configManager,
		Store:         store,
		AppConfig:     appConfig,
		Metrics:       telemetry.NewMetrics(prometheus.NewRegistry()),
		Logger:        logger,
		closeLog:      func() {},
		Config:        cfg,
	}
}

// Apply validates cfg, makes it the effective configuration and rebuilds
// the logger from its [log] section.
func (c *Container) Apply(cfg *domain.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, closeLog, err := logging.New(cfg.Log.Level, c.resolvePath(cfg.Log.File))
	if err != nil {
		return err
	}
	c.Close()
	c.AppConfig = cfg
	c.Logger = logger
	c.closeLog = closeLog
	return nil
}

// Close releases the log file, if any.
func (c *Container) Close() {
	if c.closeLog != nil {
		c.closeLog()
		c.closeLog = nil
	}
}

// StorePath returns the snapshot location for backend, resolved against the work dir.
// An empty path selects the backend default.
func (c *Container) StorePath(backend, path string) string {
	if path == "" {
		path = domain.DefaultStorePath(backend)
	}
	return c.resolvePath(path)
}

func (c *Container) resolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Config.WorkDir, path)
}

// OpenStore opens the snapshot store for backend at path.
// The returned closer must be called when the store is no longer used.
func OpenStore(backend, path string) (domain.SnapshotStore, io.Closer, error) {
	switch backend {
	case domain.BackendCSV:
		return csvstore.New(path), nopCloser{}, nil
	case domain.BackendJSON:
		return jsonstore.New(path), nopCloser{}, nil
	case domain.BackendSQLite:
		s, err := sqlitestore.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case domain.BackendMemory:
		return memstore.New(), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrUnknownBackend, backend)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenConfiguredStore opens the store named by the effective configuration.
func (c *Container) OpenConfiguredStore() (domain.SnapshotStore, io.Closer, error) {
	if c.Store != nil {
		return c.Store, nopCloser{}, nil
	}
	st := c.AppConfig.Store
	return OpenStore(st.Backend, c.StorePath(st.Backend, st.Path))
}

// Service opens the configured store, builds a Service over it and loads
// the stored snapshot.
func (c *Container) Service(ctx context.Context) (*service.Service, io.Closer, error) {
	store, closer, err := c.OpenConfiguredStore()
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	svc := service.New(store, service.Options{
		Metrics:  c.Metrics,
		Logger:   c.Logger,
		Autosave: c.AppConfig.Store.AutosaveEnabled(),
	})
	if err := svc.Load(ctx); err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	return svc, closer, nil
}

// UseCase factory methods

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager)
}

// MigrateStoreUseCase returns a new MigrateStore use case.
func (c *Container) MigrateStoreUseCase(source, dest domain.SnapshotStore) *usecase.MigrateStore {
	return usecase.NewMigrateStore(source, dest)
}

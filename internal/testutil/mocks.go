// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"sync"

	"github.com/forsidenis/kanban/internal/domain"
)

// MockSnapshotStore is a test double for domain.SnapshotStore.
// Fields are ordered to minimize memory padding.
type MockSnapshotStore struct {
	LoadErr   error             // Returned by Load when set
	SaveErr   error             // Returned by Save when set
	Saved     []domain.Snapshot // Every snapshot passed to Save, in order
	Snap      domain.Snapshot   // Returned by Load
	mu        sync.Mutex
	LoadCalls int
}

// NewMockSnapshotStore creates a MockSnapshotStore that loads snap.
func NewMockSnapshotStore(snap domain.Snapshot) *MockSnapshotStore {
	return &MockSnapshotStore{Snap: snap}
}

// Load returns the configured snapshot or LoadErr.
func (m *MockSnapshotStore) Load(_ context.Context) (domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCalls++
	if m.LoadErr != nil {
		return domain.Snapshot{}, m.LoadErr
	}
	return m.Snap.Clone(), nil
}

// Save records snap or returns SaveErr.
func (m *MockSnapshotStore) Save(_ context.Context, snap domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saved = append(m.Saved, snap.Clone())
	return nil
}

// SaveCount returns how many snapshots were saved.
func (m *MockSnapshotStore) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Saved)
}

// Last returns the most recently saved snapshot.
func (m *MockSnapshotStore) Last() (domain.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Saved) == 0 {
		return domain.Snapshot{}, false
	}
	return m.Saved[len(m.Saved)-1], true
}

// Ensure MockSnapshotStore implements SnapshotStore.
var _ domain.SnapshotStore = (*MockSnapshotStore)(nil)

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitErr          error
	InitConfig       *domain.Config // Config passed to the last Init call
	ProjectInfo      domain.ConfigInfo
	GlobalInfo       domain.ConfigInfo
	InitProjectCalls int
	InitGlobalCalls  int
	Forced           bool // Force flag of the last Init call
}

// NewMockConfigManager creates a MockConfigManager with missing files.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{}
}

// GetProjectConfigInfo returns ProjectInfo.
func (m *MockConfigManager) GetProjectConfigInfo() domain.ConfigInfo {
	return m.ProjectInfo
}

// GetGlobalConfigInfo returns GlobalInfo.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalInfo
}

// InitProjectConfig records the call.
func (m *MockConfigManager) InitProjectConfig(cfg *domain.Config, force bool) (string, error) {
	m.InitProjectCalls++
	return m.initConfig(m.ProjectInfo, cfg, force)
}

// InitGlobalConfig records the call.
func (m *MockConfigManager) InitGlobalConfig(cfg *domain.Config, force bool) (string, error) {
	m.InitGlobalCalls++
	return m.initConfig(m.GlobalInfo, cfg, force)
}

func (m *MockConfigManager) initConfig(info domain.ConfigInfo, cfg *domain.Config, force bool) (string, error) {
	m.InitConfig = cfg
	m.Forced = force
	if m.InitErr != nil {
		return "", m.InitErr
	}
	if info.Exists && !force {
		return "", domain.ErrConfigExists
	}
	return info.Path, nil
}

// Ensure MockConfigManager implements ConfigManager.
var _ domain.ConfigManager = (*MockConfigManager)(nil)

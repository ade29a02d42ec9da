// Package csvstore persists snapshots as a CSV file.
package csvstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/forsidenis/kanban/internal/domain"
	"github.com/natefinch/atomic"
)

const filePerms = 0o600

// Store implements domain.SnapshotStore using a CSV file.
type Store struct {
	path string
}

// New creates a Store for path. The file is created on first save.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads and decodes the file. A missing file yields an empty snapshot.
func (s *Store) Load(ctx context.Context) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}

	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Snapshot{}, nil
		}
		return domain.Snapshot{}, fmt.Errorf("read snapshot file: %w", err)
	}

	snap, err := Decode(content)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return snap, nil
}

// Save encodes snap and atomically replaces the file.
func (s *Store) Save(ctx context.Context, snap domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := atomic.WriteFile(s.path, &buf); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}
	// atomic.WriteFile doesn't set permissions for new files
	if err := os.Chmod(s.path, filePerms); err != nil {
		return fmt.Errorf("set file permissions: %w", err)
	}
	return nil
}

// Ensure Store implements SnapshotStore.
var _ domain.SnapshotStore = (*Store)(nil)

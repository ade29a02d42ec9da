// Package jsonstore provides a JSON file-based implementation of SnapshotStore.
package jsonstore

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"syscall"
	"time"

	"github.com/forsidenis/kanban/internal/domain"
	"github.com/natefinch/atomic"
)

const filePerms = 0o600

// storeData represents the JSON file structure.
// Fields are ordered to minimize memory padding.
type storeData struct {
	Tasks    map[string]*taskData    `json:"tasks"`
	Epics    map[string]*epicData    `json:"epics"`
	Subtasks map[string]*subtaskData `json:"subtasks"`
	History  []int                   `json:"history"`
	Meta     meta                    `json:"meta"`
}

// meta contains store metadata.
type meta struct {
	NextID int `json:"nextID"`
}

// taskData is the JSON representation of a task (without ID, which is the map key).
type taskData struct {
	StartTime   *time.Time    `json:"startTime,omitempty"`
	Duration    string        `json:"duration,omitempty"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Status      domain.Status `json:"status"`
}

// epicData holds only authored fields; the rest is derived on load.
type epicData struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type subtaskData struct {
	taskData
	EpicID int `json:"epicID"`
}

// Store implements domain.SnapshotStore using a JSON file.
type Store struct {
	path     string
	lockPath string
}

// New creates a new Store for the given file path.
// The file does not need to exist; it will be created on first write.
func New(path string) *Store {
	return &Store{
		path:     path,
		lockPath: path + ".lock",
	}
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the snapshot. A missing file yields an empty snapshot.
func (s *Store) Load(ctx context.Context) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}

	var snap domain.Snapshot
	err := s.withLock(func(data *storeData) error {
		var err error
		snap, err = toSnapshot(data)
		return err
	})
	return snap, err
}

// Save replaces the stored snapshot.
func (s *Store) Save(ctx context.Context, snap domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	return s.write(fromSnapshot(snap))
}

// withLock executes fn with a shared (read) lock.
func (s *Store) withLock(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	return fn(data)
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	// Ensure lock file directory exists
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, filePerms)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func (s *Store) read() (*storeData, error) {
	data := &storeData{}
	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return data, nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	if err := json.Unmarshal(content, data); err != nil {
		return nil, fmt.Errorf("parse store file: %w: %w", domain.ErrMalformedSnapshot, err)
	}
	return data, nil
}

func (s *Store) write(data *storeData) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store data: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	if err := atomic.WriteFile(s.path, bytes.NewReader(content)); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	// atomic.WriteFile doesn't set permissions for new files
	if err := os.Chmod(s.path, filePerms); err != nil {
		return fmt.Errorf("set file permissions: %w", err)
	}
	return nil
}

func fromSnapshot(snap domain.Snapshot) *storeData {
	data := &storeData{
		Tasks:    make(map[string]*taskData, len(snap.Tasks)),
		Epics:    make(map[string]*epicData, len(snap.Epics)),
		Subtasks: make(map[string]*subtaskData, len(snap.Subtasks)),
		History:  slices.Clone(snap.History),
		Meta:     meta{NextID: snap.NextID},
	}
	if data.History == nil {
		data.History = []int{}
	}
	for _, t := range snap.Tasks {
		data.Tasks[strconv.Itoa(t.ID)] = newTaskData(t)
	}
	for _, e := range snap.Epics {
		data.Epics[strconv.Itoa(e.ID)] = &epicData{Title: e.Title, Description: e.Description}
	}
	for _, st := range snap.Subtasks {
		data.Subtasks[strconv.Itoa(st.ID)] = &subtaskData{taskData: *newTaskData(st.Task), EpicID: st.EpicID}
	}
	return data
}

func newTaskData(t domain.Task) *taskData {
	d := &taskData{
		StartTime:   t.StartTime,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
	}
	if t.Duration != nil {
		d.Duration = t.Duration.String()
	}
	return d
}

func toSnapshot(data *storeData) (domain.Snapshot, error) {
	snap := domain.Snapshot{
		History: slices.Clone(data.History),
		NextID:  data.Meta.NextID,
	}

	for key, d := range data.Tasks {
		id, err := parseKey(key)
		if err != nil {
			return domain.Snapshot{}, err
		}
		t, err := d.toTask(id)
		if err != nil {
			return domain.Snapshot{}, err
		}
		snap.Tasks = append(snap.Tasks, t)
	}
	for key, d := range data.Epics {
		id, err := parseKey(key)
		if err != nil {
			return domain.Snapshot{}, err
		}
		snap.Epics = append(snap.Epics, domain.RestoreEpic(id, d.Title, d.Description))
	}
	for key, d := range data.Subtasks {
		id, err := parseKey(key)
		if err != nil {
			return domain.Snapshot{}, err
		}
		t, err := d.toTask(id)
		if err != nil {
			return domain.Snapshot{}, err
		}
		snap.Subtasks = append(snap.Subtasks, domain.Subtask{Task: t, EpicID: d.EpicID})
	}

	// Sort by ID for consistent ordering
	slices.SortFunc(snap.Tasks, func(a, b domain.Task) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(snap.Epics, func(a, b domain.Epic) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(snap.Subtasks, func(a, b domain.Subtask) int { return cmp.Compare(a.ID, b.ID) })
	return snap, nil
}

func (d *taskData) toTask(id int) (domain.Task, error) {
	t := domain.Task{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
		StartTime:   d.StartTime,
	}
	if d.Duration != "" {
		dur, err := time.ParseDuration(d.Duration)
		if err != nil {
			return domain.Task{}, fmt.Errorf("%w: task %d duration %q", domain.ErrMalformedSnapshot, id, d.Duration)
		}
		t.Duration = &dur
	}
	return t, nil
}

func parseKey(key string) (int, error) {
	id, err := strconv.Atoi(key)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id key %q", domain.ErrMalformedSnapshot, key)
	}
	return id, nil
}

// Ensure Store implements SnapshotStore.
var _ domain.SnapshotStore = (*Store)(nil)

// Package service serializes access to the entity manager and persists
// a snapshot after every operation that changes state.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/forsidenis/kanban/internal/domain"
	"github.com/forsidenis/kanban/internal/infra/logging"
	"github.com/forsidenis/kanban/internal/manager"
	"github.com/forsidenis/kanban/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// ErrAutosave is returned when an operation succeeded in memory but the
// snapshot could not be written.
var ErrAutosave = errors.New("autosave failed")

// Options configures a Service.
// Fields are ordered to minimize memory padding.
type Options struct {
	Metrics  *telemetry.Metrics // Metrics sink (nil = private registry)
	Logger   zerolog.Logger     // Base logger
	Autosave bool               // Save after every state change
}

// Service wraps one Manager behind a single mutex.
// Reads take the lock too because typed getters record history.
type Service struct {
	store    domain.SnapshotStore
	mgr      *manager.Manager
	metrics  *telemetry.Metrics
	log      zerolog.Logger
	mu       sync.Mutex
	autosave bool
}

// New creates a Service with an empty manager backed by store.
func New(store domain.SnapshotStore, opts Options) *Service {
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewMetrics(prometheus.NewRegistry())
	}
	s := &Service{
		store:    store,
		mgr:      manager.New(),
		metrics:  metrics,
		log:      logging.Component(opts.Logger, "service"),
		autosave: opts.Autosave,
	}
	s.updateGauges()
	return s
}

// Load replaces the in-memory state with the stored snapshot.
// On failure the current state is kept.
func (s *Service) Load(ctx context.Context) error {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	loaded, err := manager.FromSnapshot(snap)
	if err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mgr = loaded
	s.updateGauges()
	s.log.Info().Ctx(ctx).
		Int("tasks", loaded.Count(domain.KindTask)).
		Int("epics", loaded.Count(domain.KindEpic)).
		Int("subtasks", loaded.Count(domain.KindSubtask)).
		Msg("snapshot loaded")
	return nil
}

// Save writes the current state regardless of the autosave setting.
func (s *Service) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx)
}

// Snapshot returns the current state.
func (s *Service) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mgr.Snapshot()
}

// Lookup returns any entity by id without recording history.
func (s *Service) Lookup(id int) (domain.Entity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mgr.Lookup(id)
}

// History returns viewed entities, oldest first.
func (s *Service) History() []domain.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mgr.History()
}

// Prioritized returns scheduled tasks and subtasks by start time.
func (s *Service) Prioritized() []domain.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mgr.Prioritized()
}

// save must be called with mu held.
func (s *Service) save(ctx context.Context) error {
	if err := s.store.Save(ctx, s.mgr.Snapshot()); err != nil {
		s.metrics.Saves.WithLabelValues(telemetry.ResultError).Inc()
		s.log.Error().Ctx(ctx).Err(err).Msg("save snapshot")
		return fmt.Errorf("%w: %w", ErrAutosave, err)
	}
	s.metrics.Saves.WithLabelValues(telemetry.ResultOK).Inc()
	return nil
}

// persist saves when autosave is on. Must be called with mu held.
func (s *Service) persist(ctx context.Context) error {
	s.updateGauges()
	if !s.autosave {
		return nil
	}
	return s.save(ctx)
}

func (s *Service) updateGauges() {
	for _, kind := range domain.AllKinds() {
		s.metrics.Entities.WithLabelValues(kindLabel(kind)).Set(float64(s.mgr.Count(kind)))
	}
}

// record counts an operation and logs it.
func (s *Service) record(ctx context.Context, op string, kind domain.Kind, id int, err error) {
	result := telemetry.ResultOK
	switch {
	case errors.Is(err, domain.ErrNotFound):
		result = telemetry.ResultNotFound
	case errors.Is(err, errNoop):
		result = telemetry.ResultNoop
	case err != nil:
		result = telemetry.ResultError
	}
	if errors.Is(err, domain.ErrSchedulingConflict) {
		s.metrics.Conflicts.Inc()
	}
	s.metrics.Operations.WithLabelValues(op, kindLabel(kind), result).Inc()

	level := zerolog.DebugLevel
	switch {
	case result == telemetry.ResultError:
		level = zerolog.WarnLevel
	case result == telemetry.ResultOK && op != opGet:
		level = zerolog.InfoLevel
	}
	ev := s.log.WithLevel(level).Ctx(ctx)
	if result == telemetry.ResultError {
		ev = ev.Err(err)
	}
	ev.Str("op", op).Str("kind", kindLabel(kind)).Int("id", id).Str("result", result).Msg("operation")
}

// recordApplied records an update or delete that may have been a no-op.
func (s *Service) recordApplied(ctx context.Context, op string, kind domain.Kind, id int, applied bool, err error) {
	if err == nil {
		err = noopErr(applied)
	}
	s.record(ctx, op, kind, id, err)
}

// errNoop marks updates and deletes of unknown ids in metrics only.
var errNoop = errors.New("no-op")

// Operation names used in metrics and logs.
const (
	opGet    = "get"
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
	opClear  = "clear"
)

func kindLabel(k domain.Kind) string {
	return strings.ToLower(string(k))
}

func noopErr(applied bool) error {
	if applied {
		return nil
	}
	return errNoop
}

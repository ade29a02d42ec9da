package domain

import "errors"

// Domain errors.
var (
	ErrNotFound           = errors.New("entity not found")
	ErrInvalidReference   = errors.New("referenced epic does not exist")
	ErrSchedulingConflict = errors.New("time window overlaps an existing task")
	ErrMalformedSnapshot  = errors.New("malformed snapshot")
	ErrEpicStatusDerived  = errors.New("epic status is derived from its subtasks and cannot be set")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidKind        = errors.New("invalid entity type")
	ErrNegativeDuration   = errors.New("duration cannot be negative")
	ErrEmptyTitle         = errors.New("title cannot be empty")
	ErrUnknownBackend     = errors.New("unknown store backend")
	ErrConfigExists       = errors.New("config file already exists")
	ErrMigrationConflict  = errors.New("destination store is not empty")
)

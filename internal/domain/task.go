// Package domain contains core business entities and interfaces.
package domain

import "time"

// Task represents a unit of work.
// Fields are ordered to minimize memory padding.
type Task struct {
	StartTime   *time.Time     // Scheduled start (nil = unscheduled)
	Duration    *time.Duration // Planned duration (nil = unknown)
	Title       string         // Title
	Description string         // Description (optional)
	Status      Status         // Current status
	ID          int            // Task ID (assigned by the manager)
}

// NewTask creates a NEW task with the given title and description.
func NewTask(title, description string) Task {
	return Task{
		Title:       title,
		Description: description,
		Status:      StatusNew,
	}
}

// EntityID returns the task ID.
func (t Task) EntityID() int { return t.ID }

// Kind returns KindTask.
func (t Task) Kind() Kind { return KindTask }

func (t Task) cloneEntity() Entity { return t.Clone() }

// Clone returns a copy of t that shares no pointers with it.
func (t Task) Clone() Task {
	t.StartTime = cloneTime(t.StartTime)
	t.Duration = cloneDuration(t.Duration)
	return t
}

// IsScheduled returns true if the task has a start time.
func (t Task) IsScheduled() bool {
	return t.StartTime != nil
}

// EndTime returns start + duration, or nil if either is missing.
func (t Task) EndTime() *time.Time {
	if t.StartTime == nil || t.Duration == nil {
		return nil
	}
	end := t.StartTime.Add(*t.Duration)
	return &end
}

// Window returns the [start, end] interval when both ends are known.
func (t Task) Window() (start, end time.Time, ok bool) {
	e := t.EndTime()
	if e == nil {
		return time.Time{}, time.Time{}, false
	}
	return *t.StartTime, *e, true
}

// Validate checks the authored fields of a task.
func (t Task) Validate() error {
	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}
	if t.Duration != nil && *t.Duration < 0 {
		return ErrNegativeDuration
	}
	return nil
}

// Subtask is a task owned by exactly one epic.
type Subtask struct {
	Task
	EpicID int // Owning epic ID (required)
}

// NewSubtask creates a NEW subtask belonging to epicID.
func NewSubtask(title, description string, epicID int) Subtask {
	return Subtask{
		Task:   NewTask(title, description),
		EpicID: epicID,
	}
}

// Kind returns KindSubtask.
func (s Subtask) Kind() Kind { return KindSubtask }

func (s Subtask) cloneEntity() Entity { return s.Clone() }

// Clone returns a copy of s that shares no pointers with it.
func (s Subtask) Clone() Subtask {
	s.Task = s.Task.Clone()
	return s
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneDuration(d *time.Duration) *time.Duration {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

// TimePtr returns a pointer to t.
func TimePtr(t time.Time) *time.Time {
	return &t
}

// DurationPtr returns a pointer to d.
func DurationPtr(d time.Duration) *time.Duration {
	return &d
}

package domain

import (
	"slices"
	"time"
)

// Epic is a task composed of subtasks.
// Its status and time window are derived from the subtasks through Recompute
// and cannot be assigned directly.
// Fields are ordered to minimize memory padding.
type Epic struct {
	start       *time.Time     // Earliest subtask start
	end         *time.Time     // Latest subtask end
	duration    *time.Duration // Sum of subtask durations
	Title       string         // Title
	Description string         // Description (optional)
	subtaskIDs  []int          // Owned subtasks in insertion order
	ID          int            // Epic ID (assigned by the manager)
	status      Status         // Derived status
}

// NewEpic creates an epic with no subtasks.
func NewEpic(title, description string) Epic {
	return Epic{
		Title:       title,
		Description: description,
		status:      StatusNew,
	}
}

// RestoreEpic rebuilds an epic read from a snapshot.
// Linkage and derived fields are filled in later by the manager.
func RestoreEpic(id int, title, description string) Epic {
	e := NewEpic(title, description)
	e.ID = id
	return e
}

// EntityID returns the epic ID.
func (e Epic) EntityID() int { return e.ID }

// Kind returns KindEpic.
func (e Epic) Kind() Kind { return KindEpic }

func (e Epic) cloneEntity() Entity { return e.Clone() }

// Clone returns a copy of e that shares no memory with it.
func (e Epic) Clone() Epic {
	e.start = cloneTime(e.start)
	e.end = cloneTime(e.end)
	e.duration = cloneDuration(e.duration)
	e.subtaskIDs = slices.Clone(e.subtaskIDs)
	return e
}

// Status returns the derived status. A zero Epic reports NEW.
func (e Epic) Status() Status {
	if e.status == "" {
		return StatusNew
	}
	return e.status
}

// StartTime returns the earliest subtask start, or nil.
func (e Epic) StartTime() *time.Time { return cloneTime(e.start) }

// EndTime returns the latest subtask end, or nil.
func (e Epic) EndTime() *time.Time { return cloneTime(e.end) }

// Duration returns the summed subtask duration, or nil if no subtask has one.
func (e Epic) Duration() *time.Duration { return cloneDuration(e.duration) }

// SubtaskIDs returns the owned subtask IDs in insertion order.
func (e Epic) SubtaskIDs() []int {
	ids := slices.Clone(e.subtaskIDs)
	if ids == nil {
		ids = []int{}
	}
	return ids
}

// HasSubtask reports whether id is linked to this epic.
func (e Epic) HasSubtask(id int) bool {
	return slices.Contains(e.subtaskIDs, id)
}

// AttachSubtask appends id to the subtask list.
// Returns false if it was already linked.
func (e *Epic) AttachSubtask(id int) bool {
	if e.HasSubtask(id) {
		return false
	}
	e.subtaskIDs = append(e.subtaskIDs, id)
	return true
}

// DetachSubtask removes id from the subtask list.
// Returns false if it was not linked.
func (e *Epic) DetachSubtask(id int) bool {
	i := slices.Index(e.subtaskIDs, id)
	if i < 0 {
		return false
	}
	e.subtaskIDs = slices.Delete(e.subtaskIDs, i, i+1)
	return true
}

// ClearSubtasks unlinks every subtask.
func (e *Epic) ClearSubtasks() {
	e.subtaskIDs = nil
}

// Recompute derives status and time window from the epic's current subtasks.
// subtasks must be the resolved subtasks of e; absent fields do not contribute.
func (e *Epic) Recompute(subtasks []Subtask) {
	statuses := make([]Status, 0, len(subtasks))
	var (
		start, end *time.Time
		total      time.Duration
		hasDur     bool
	)
	for _, s := range subtasks {
		statuses = append(statuses, s.Status)
		if s.StartTime != nil && (start == nil || s.StartTime.Before(*start)) {
			start = cloneTime(s.StartTime)
		}
		if se := s.EndTime(); se != nil && (end == nil || se.After(*end)) {
			end = se
		}
		if s.Duration != nil {
			total += *s.Duration
			hasDur = true
		}
	}

	e.status = deriveStatus(statuses)
	e.start = start
	e.end = end
	e.duration = nil
	if hasDur {
		e.duration = &total
	}
}

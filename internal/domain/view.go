package domain

import "time"

// View is the flat, serializable rendering of any entity.
// Durations are expressed in whole minutes.
// Fields are ordered to minimize memory padding.
type View struct {
	StartTime   *time.Time `json:"startTime,omitempty" yaml:"start_time,omitempty"`
	EndTime     *time.Time `json:"endTime,omitempty" yaml:"end_time,omitempty"`
	Duration    *int64     `json:"duration,omitempty" yaml:"duration,omitempty"`
	EpicID      *int       `json:"epicId,omitempty" yaml:"epic_id,omitempty"`
	Type        Kind       `json:"type" yaml:"type"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Status      Status     `json:"status" yaml:"status"`
	SubtaskIDs  []int      `json:"subtaskIds,omitempty" yaml:"subtask_ids,omitempty"`
	ID          int        `json:"id" yaml:"id"`
}

// ToView renders e as a View.
func ToView(e Entity) View {
	switch v := e.(type) {
	case Task:
		return taskView(v, KindTask)
	case Subtask:
		view := taskView(v.Task, KindSubtask)
		epicID := v.EpicID
		view.EpicID = &epicID
		return view
	case Epic:
		return View{
			ID:          v.ID,
			Type:        KindEpic,
			Title:       v.Title,
			Description: v.Description,
			Status:      v.Status(),
			Duration:    DurationMinutes(v.Duration()),
			StartTime:   v.StartTime(),
			EndTime:     v.EndTime(),
			SubtaskIDs:  v.SubtaskIDs(),
		}
	default:
		return View{}
	}
}

// ToViews renders every entity in order.
func ToViews[E Entity](entities []E) []View {
	views := make([]View, 0, len(entities))
	for _, e := range entities {
		views = append(views, ToView(e))
	}
	return views
}

func taskView(t Task, kind Kind) View {
	return View{
		ID:          t.ID,
		Type:        kind,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Duration:    DurationMinutes(t.Duration),
		StartTime:   cloneTime(t.StartTime),
		EndTime:     t.EndTime(),
	}
}

// DurationMinutes converts d to whole minutes, or nil.
func DurationMinutes(d *time.Duration) *int64 {
	if d == nil {
		return nil
	}
	m := int64(*d / time.Minute)
	return &m
}

// MinutesDuration converts whole minutes to a duration, or nil.
func MinutesDuration(m *int64) *time.Duration {
	if m == nil {
		return nil
	}
	d := time.Duration(*m) * time.Minute
	return &d
}

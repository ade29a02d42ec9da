package cli

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/forsidenis/kanban/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// task add
// =============================================================================

func TestTaskAdd_CreatesTask(t *testing.T) {
	// Setup
	c, store := newTestContainer(t)

	// Execute
	out, err := execute(newTaskCommand(c), "add", "--title", "Write report", "--body", "Quarterly", "--status", "in-progress")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Created task #1: Write report\n", out)

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Tasks, 1)
	assert.Equal(t, "Quarterly", snap.Tasks[0].Description)
	assert.Equal(t, domain.StatusInProgress, snap.Tasks[0].Status)
}

func TestTaskAdd_Schedule(t *testing.T) {
	c, store := newTestContainer(t)

	_, err := execute(newTaskCommand(c), "add", "-t", "Standup", "--start", "2026-03-02T09:00:00Z", "--duration", "15")
	require.NoError(t, err)

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Tasks, 1)
	task := snap.Tasks[0]
	require.NotNil(t, task.StartTime)
	assert.True(t, task.StartTime.Equal(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)))
	require.NotNil(t, task.Duration)
	assert.Equal(t, 15*time.Minute, *task.Duration)
}

func TestTaskAdd_Errors(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		args    []string
	}{
		{name: "missing title", args: []string{"add"}, wantErr: domain.ErrEmptyTitle},
		{name: "blank title", args: []string{"add", "--title", "  "}, wantErr: domain.ErrEmptyTitle},
		{name: "invalid status", args: []string{"add", "--title", "x", "--status", "BLOCKED"}, wantErr: domain.ErrInvalidStatus},
		{name: "negative duration", args: []string{"add", "--title", "x", "--duration", "-5"}, wantErr: domain.ErrNegativeDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, store := newTestContainer(t)
			_, err := execute(newTaskCommand(c), tt.args...)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, store.Saves())
		})
	}
}

func TestTaskAdd_InvalidStart(t *testing.T) {
	c, _ := newTestContainer(t)

	_, err := execute(newTaskCommand(c), "add", "--title", "x", "--start", "tomorrow")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid start time")
}

func TestTaskAdd_OverlapRejected(t *testing.T) {
	// Setup
	c, store := newTestContainer(t)
	_, err := execute(newTaskCommand(c), "add", "-t", "A", "--start", "2026-03-02T09:00:00Z", "-d", "60")
	require.NoError(t, err)

	// Execute
	_, err = execute(newTaskCommand(c), "add", "-t", "B", "--start", "2026-03-02T09:30:00Z", "-d", "30")

	// Assert
	require.ErrorIs(t, err, domain.ErrSchedulingConflict)
	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Tasks, 1)
	assert.Equal(t, "A", snap.Tasks[0].Title)
}

// =============================================================================
// task list / show
// =============================================================================

func TestTaskList_Formats(t *testing.T) {
	c, _ := newTestContainer(t)
	_, err := execute(newTaskCommand(c), "add", "--title", "Write report")
	require.NoError(t, err)

	t.Run("table", func(t *testing.T) {
		out, err := execute(newTaskCommand(c), "list")
		require.NoError(t, err)
		assert.Contains(t, out, "ID")
		assert.Contains(t, out, "TITLE")
		assert.Contains(t, out, "Write report")
		assert.Contains(t, out, "NEW")
	})

	t.Run("json", func(t *testing.T) {
		out, err := execute(newTaskCommand(c), "list", "--format", "json")
		require.NoError(t, err)
		var views []domain.View
		require.NoError(t, json.Unmarshal([]byte(out), &views))
		require.Len(t, views, 1)
		assert.Equal(t, 1, views[0].ID)
		assert.Equal(t, domain.KindTask, views[0].Type)
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := execute(newTaskCommand(c), "list", "-o", "yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "title: Write report")
		assert.Contains(t, out, "type: TASK")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := execute(newTaskCommand(c), "list", "--format", "xml")
		require.Error(t, err)
	})
}

func TestTaskList_EmptyJSON(t *testing.T) {
	c, _ := newTestContainer(t)

	out, err := execute(newTaskCommand(c), "list", "--format", "json")

	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestTaskShow(t *testing.T) {
	c, store := newTestContainer(t)
	_, err := execute(newTaskCommand(c), "add", "--title", "Write report", "--body", "Quarterly numbers")
	require.NoError(t, err)

	out, err := execute(newTaskCommand(c), "show", "1")

	require.NoError(t, err)
	assert.Contains(t, out, "Write report")
	assert.Contains(t, out, "New")
	assert.Contains(t, out, "Quarterly numbers")

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1}, snap.History)
}

func TestTaskShow_Errors(t *testing.T) {
	c, _ := newTestContainer(t)
	_, err := execute(newEpicCommand(c), "add", "--title", "Release")
	require.NoError(t, err)

	t.Run("unknown id", func(t *testing.T) {
		_, err := execute(newTaskCommand(c), "show", "42")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("wrong kind", func(t *testing.T) {
		_, err := execute(newTaskCommand(c), "show", "1")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		_, err := execute(newTaskCommand(c), "show", "abc")
		require.Error(t, err)
	})
}

// =============================================================================
// task edit / rm / clear
// =============================================================================

func TestTaskEdit(t *testing.T) {
	// Setup
	c, store := newTestContainer(t)
	_, err := execute(newTaskCommand(c), "add", "--title", "Draft", "--body", "keep me", "--start", "2026-03-02T09:00:00Z", "-d", "30")
	require.NoError(t, err)

	// Execute
	out, err := execute(newTaskCommand(c), "edit", "1", "--title", "Final", "--status", "DONE", "--start", "")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Updated task #1\n", out)

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Tasks, 1)
	task := snap.Tasks[0]
	assert.Equal(t, "Final", task.Title)
	assert.Equal(t, "keep me", task.Description)
	assert.Equal(t, domain.StatusDone, task.Status)
	assert.Nil(t, task.StartTime)
	require.NotNil(t, task.Duration)
	assert.Equal(t, 30*time.Minute, *task.Duration)
}

func TestTaskEdit_UnknownID(t *testing.T) {
	c, _ := newTestContainer(t)

	_, err := execute(newTaskCommand(c), "edit", "9", "--title", "x")

	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskRm(t *testing.T) {
	c, store := newTestContainer(t)
	_, err := execute(newTaskCommand(c), "add", "--title", "Temp")
	require.NoError(t, err)

	out, err := execute(newTaskCommand(c), "rm", "1")
	require.NoError(t, err)
	assert.Equal(t, "Deleted task #1\n", out)

	// Deleting again is not an error.
	out, err = execute(newTaskCommand(c), "rm", "1")
	require.NoError(t, err)
	assert.Equal(t, "task #1 does not exist\n", out)

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Tasks)
}

func TestTaskClear(t *testing.T) {
	c, store := newTestContainer(t)
	for _, title := range []string{"A", "B"} {
		_, err := execute(newTaskCommand(c), "add", "--title", title)
		require.NoError(t, err)
	}

	out, err := execute(newTaskCommand(c), "clear")

	require.NoError(t, err)
	assert.Equal(t, "Deleted all tasks\n", out)
	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Tasks)
}

func TestParseStart(t *testing.T) {
	local := time.Date(2026, 3, 2, 9, 30, 0, 0, time.Local)

	tests := []struct {
		want    *time.Time
		name    string
		in      string
		wantErr bool
	}{
		{name: "empty", in: "", want: nil},
		{name: "rfc3339", in: "2026-03-02T09:30:00Z", want: domain.TimePtr(time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC))},
		{name: "minutes", in: "2026-03-02T09:30", want: &local},
		{name: "seconds", in: "2026-03-02T09:30:00", want: &local},
		{name: "space", in: "2026-03-02 09:30", want: &local},
		{name: "garbage", in: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseStart(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %v want %v", got, tt.want)
		})
	}
}

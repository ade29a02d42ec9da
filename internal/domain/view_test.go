package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToView_Task(t *testing.T) {
	task := NewTask("a", "b")
	task.ID = 1
	task.StartTime = TimePtr(testBase)
	task.Duration = DurationPtr(90 * time.Minute)

	v := ToView(task)

	assert.Equal(t, 1, v.ID)
	assert.Equal(t, KindTask, v.Type)
	require.NotNil(t, v.Duration)
	assert.Equal(t, int64(90), *v.Duration)
	require.NotNil(t, v.EndTime)
	assert.Equal(t, testBase.Add(90*time.Minute), *v.EndTime)
	assert.Nil(t, v.EpicID)
}

func TestToView_Subtask(t *testing.T) {
	sub := NewSubtask("s", "", 3)
	sub.ID = 4

	v := ToView(sub)

	assert.Equal(t, KindSubtask, v.Type)
	require.NotNil(t, v.EpicID)
	assert.Equal(t, 3, *v.EpicID)
	assert.Nil(t, v.Duration)
}

func TestToView_Epic(t *testing.T) {
	e := NewEpic("e", "")
	e.ID = 3
	e.AttachSubtask(4)
	sub := NewSubtask("s", "", 3)
	sub.Status = StatusDone
	e.Recompute([]Subtask{sub})

	v := ToView(e)

	assert.Equal(t, KindEpic, v.Type)
	assert.Equal(t, StatusDone, v.Status)
	assert.Equal(t, []int{4}, v.SubtaskIDs)
}

func TestView_JSON(t *testing.T) {
	task := NewTask("a", "")
	task.ID = 2

	data, err := json.Marshal(ToView(task))
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":2,"type":"TASK","title":"a","description":"","status":"NEW"}`, string(data))
}

func TestDurationMinutes(t *testing.T) {
	assert.Nil(t, DurationMinutes(nil))
	assert.Nil(t, MinutesDuration(nil))

	m := int64(15)
	d := MinutesDuration(&m)
	require.NotNil(t, d)
	assert.Equal(t, 15*time.Minute, *d)
	assert.Equal(t, int64(15), *DurationMinutes(d))
}

package model_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskflow/internal/model"
)

func validTask() model.Task {
	return model.Task{
		ID:       "t-1",
		Title:    "資料提出",
		Date:     "2026-09-01",
		Time:     "15:00",
		Priority: 3,
		Status:   model.StatusPending,
	}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validTask().Validate())

	// Time and duration are optional.
	task := validTask()
	task.Time = ""
	task.Duration = 0
	assert.NoError(t, task.Validate())
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	task := model.Task{
		Title:    "",
		Date:     "01-09-2026",
		Time:     "25:99",
		Priority: 9,
		Status:   "paused",
		Duration: 5000,
	}

	err := task.Validate()
	require.Error(t, err)

	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Violations, 6)
	assert.True(t, strings.HasPrefix(err.Error(), "invalid task: "))
}

func TestValidate_TitleLength(t *testing.T) {
	task := validTask()
	task.Title = strings.Repeat("あ", 100)
	assert.NoError(t, task.Validate(), "100 runes is the inclusive maximum")

	task.Title = strings.Repeat("あ", 101)
	assert.Error(t, task.Validate())
}

func TestValidate_DateRequired(t *testing.T) {
	task := validTask()
	task.Date = ""

	var vErr *model.ValidationError
	require.ErrorAs(t, task.Validate(), &vErr)
	assert.Contains(t, vErr.Violations, "date is required")
}

func TestClampPriority(t *testing.T) {
	assert.Equal(t, 1, model.ClampPriority(-3))
	assert.Equal(t, 1, model.ClampPriority(0))
	assert.Equal(t, 3, model.ClampPriority(3))
	assert.Equal(t, 5, model.ClampPriority(99))
}

func TestActive(t *testing.T) {
	task := validTask()
	assert.True(t, task.Active())

	task.Status = model.StatusDone
	assert.False(t, task.Active())

	task.Status = model.StatusCancelled
	assert.False(t, task.Active())
}

func TestClone_DoesNotShareTags(t *testing.T) {
	task := validTask()
	task.Tags = []string{"work"}

	c := task.Clone()
	c.Tags[0] = "home"

	assert.Equal(t, "work", task.Tags[0])
}

func TestEventTypeMessage(t *testing.T) {
	assert.Equal(t, "30分前です", model.EventWarning.Message())
	assert.Equal(t, "期限切れ", model.EventOverdue.Message())
}

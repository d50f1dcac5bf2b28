package api

import (
	"strings"

	"github.com/nhle/taskflow/internal/model"
)

// todoToTask converts a backend todo to a model.Task. The backend encodes
// the deadline as "YYYY-MM-DD" or "YYYY-MM-DD HH:MM"; the time part splits
// off into the task's optional Time field.
func todoToTask(t Todo) model.Task {
	date, clock := splitDeadline(t.Deadline)

	status := model.StatusPending
	if t.FinishFlg != 0 {
		status = model.StatusDone
	}

	return model.Task{
		ID:       t.TodoID,
		Title:    t.Todo,
		Date:     date,
		Time:     clock,
		Priority: model.ClampPriority(t.Priority),
		Status:   status,
		Duration: t.EstimatedTime,
		Tags:     t.Tags,
	}
}

// taskToCreateRequest converts a local task into the creation body. A task
// without a time keeps a date-only deadline.
func taskToCreateRequest(t model.Task) CreateTodoRequest {
	return CreateTodoRequest{
		Todo:          t.Title,
		Deadline:      joinDeadline(t.Date, t.Time),
		Priority:      model.ClampPriority(t.Priority),
		EstimatedTime: t.Duration,
		Tags:          t.Tags,
	}
}

// splitDeadline separates a backend deadline string into date and optional
// time parts.
func splitDeadline(deadline string) (date, clock string) {
	deadline = strings.TrimSpace(deadline)
	if i := strings.IndexByte(deadline, ' '); i >= 0 {
		return deadline[:i], strings.TrimSpace(deadline[i+1:])
	}
	return deadline, ""
}

// joinDeadline is the inverse of splitDeadline.
func joinDeadline(date, clock string) string {
	if clock == "" {
		return date
	}
	return date + " " + clock
}

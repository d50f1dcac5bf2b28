package sync

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/taskflow/internal/logger"
	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/repo"
	"github.com/nhle/taskflow/internal/taskdate"
)

// MutationOp names a user-initiated task mutation.
type MutationOp string

const (
	OpComplete   MutationOp = "complete"
	OpReopen     MutationOp = "reopen"
	OpCreate     MutationOp = "create"
	OpDelete     MutationOp = "delete"
	OpTomorrow   MutationOp = "tomorrow"
	OpTextCreate MutationOp = "text-create"
)

// MutationDoneMsg is a tea.Msg reporting the outcome of an optimistic
// mutation. On failure the local change has already been rolled back.
type MutationDoneMsg struct {
	Op     MutationOp
	TaskID string
	Error  error
}

// TagsMsg is a tea.Msg carrying the remote tag list for the form's picker.
type TagsMsg struct {
	Tags  []string
	Error error
}

// mutationTimeout bounds the remote call backing an optimistic mutation.
const mutationTimeout = 15 * time.Second

// ToggleDone optimistically flips a task between done and pending, then
// confirms with the backend. Failure reverts the local change exactly.
func (s *Syncer) ToggleDone(taskID string) tea.Cmd {
	return func() tea.Msg {
		t, err := s.repo.Get(taskID)
		if err != nil {
			return MutationDoneMsg{Op: OpComplete, TaskID: taskID, Error: err}
		}

		op := OpComplete
		target := model.StatusDone
		if t.Status == model.StatusDone {
			op = OpReopen
			target = model.StatusPending
		}

		m := s.repo.Begin(taskID)
		if _, err := s.repo.SetStatus(taskID, target); err != nil {
			return MutationDoneMsg{Op: op, TaskID: taskID, Error: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()

		if err := s.client.SetFinished(ctx, taskID, target == model.StatusDone); err != nil {
			m.Revert()
			return MutationDoneMsg{Op: op, TaskID: taskID, Error: err}
		}

		m.Commit()
		return MutationDoneMsg{Op: op, TaskID: taskID}
	}
}

// Create optimistically inserts a task locally, then creates it remotely.
// The remote assigns its own id; the next fetch reconciles, so on success a
// refresh is queued. Failure removes the optimistic insert.
func (s *Syncer) Create(t model.Task) tea.Cmd {
	return func() tea.Msg {
		created, err := s.repo.Create(t)
		if err != nil {
			return MutationDoneMsg{Op: OpCreate, Error: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()

		if err := s.client.CreateTodo(ctx, created); err != nil {
			// Exact rollback of the optimistic insert.
			s.repo.Delete(created.ID)
			logger.Info("optimistic create rolled back", zap.String("task_id", created.ID))
			return MutationDoneMsg{Op: OpCreate, TaskID: created.ID, Error: err}
		}

		s.Refresh()
		return MutationDoneMsg{Op: OpCreate, TaskID: created.ID}
	}
}

// CreateFromText sends free text to the backend, which parses it into a
// task. No optimistic local change; the result arrives with the refresh.
func (s *Syncer) CreateFromText(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()

		if err := s.client.CreateFromText(ctx, text); err != nil {
			return MutationDoneMsg{Op: OpTextCreate, Error: err}
		}

		s.Refresh()
		return MutationDoneMsg{Op: OpTextCreate}
	}
}

// Delete optimistically removes a task, then deletes it remotely. Failure
// restores the task at its original list position.
func (s *Syncer) Delete(taskID string) tea.Cmd {
	return func() tea.Msg {
		m := s.repo.Begin(taskID)
		s.repo.Delete(taskID)

		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()

		if err := s.client.DeleteTodo(ctx, taskID); err != nil {
			m.Revert()
			return MutationDoneMsg{Op: OpDelete, TaskID: taskID, Error: err}
		}

		m.Commit()
		return MutationDoneMsg{Op: OpDelete, TaskID: taskID}
	}
}

// MoveToTomorrow optimistically shifts a task's date to tomorrow, then
// confirms with the backend.
func (s *Syncer) MoveToTomorrow(taskID string) tea.Cmd {
	return func() tea.Msg {
		tomorrow := taskdate.Tomorrow(time.Now())

		m := s.repo.Begin(taskID)
		if _, err := s.repo.Update(taskID, repo.Patch{Date: &tomorrow}); err != nil {
			return MutationDoneMsg{Op: OpTomorrow, TaskID: taskID, Error: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()

		if err := s.client.MoveToTomorrow(ctx, taskID); err != nil {
			m.Revert()
			return MutationDoneMsg{Op: OpTomorrow, TaskID: taskID, Error: err}
		}

		m.Commit()
		return MutationDoneMsg{Op: OpTomorrow, TaskID: taskID}
	}
}

// FetchTags loads the remote tag list.
func (s *Syncer) FetchTags() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()

		tags, err := s.client.ListTags(ctx)
		if err != nil {
			return TagsMsg{Error: fmt.Errorf("loading tags: %w", err)}
		}
		return TagsMsg{Tags: tags}
	}
}

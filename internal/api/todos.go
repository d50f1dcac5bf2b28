package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nhle/taskflow/internal/model"
)

// ListTodos fetches the user's full task set.
func (c *Client) ListTodos(ctx context.Context) ([]model.Task, error) {
	var resp TodosResponse
	if err := c.get(ctx, "/get_user_todos", &resp); err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}

	tasks := make([]model.Task, 0, len(resp.Datas))
	for _, t := range resp.Datas {
		tasks = append(tasks, todoToTask(t))
	}
	return tasks, nil
}

// CreateTodo creates a task from explicit fields.
func (c *Client) CreateTodo(ctx context.Context, t model.Task) error {
	body := taskToCreateRequest(t)
	if err := c.post(ctx, "/manual_insert_todo", body, nil); err != nil {
		return fmt.Errorf("creating todo: %w", err)
	}
	return nil
}

// CreateFromText creates a task from free text; the backend does the
// parsing.
func (c *Client) CreateFromText(ctx context.Context, text string) error {
	body := TextInsertRequest{Text: text}
	if err := c.post(ctx, "/insert_todo", body, nil); err != nil {
		return fmt.Errorf("creating todo from text: %w", err)
	}
	return nil
}

// SetFinished flips a task's completion flag.
func (c *Client) SetFinished(ctx context.Context, todoID string, finished bool) error {
	flag := 0
	if finished {
		flag = 1
	}
	body := FinishUpdateRequest{TodoID: todoID, FinishFlg: flag}
	if err := c.post(ctx, "/get_user_todos_finishflg_update", body, nil); err != nil {
		return fmt.Errorf("updating finish flag for %s: %w", todoID, err)
	}
	return nil
}

// DeleteTodo removes a task.
func (c *Client) DeleteTodo(ctx context.Context, todoID string) error {
	body := DeleteRequest{TodoID: todoID}
	if err := c.post(ctx, "/get_user_todos_delete", body, nil); err != nil {
		return fmt.Errorf("deleting todo %s: %w", todoID, err)
	}
	return nil
}

// MoveToTomorrow shifts a task's deadline to the next day.
func (c *Client) MoveToTomorrow(ctx context.Context, todoID string) error {
	path := "/tomorrow_todo?todo_id=" + url.QueryEscape(todoID)
	if err := c.get(ctx, path, nil); err != nil {
		return fmt.Errorf("moving todo %s to tomorrow: %w", todoID, err)
	}
	return nil
}

// ListTags fetches every tag the user has used, for the form's tag picker.
func (c *Client) ListTags(ctx context.Context) ([]string, error) {
	var resp TagsResponse
	if err := c.get(ctx, "/get_tags", &resp); err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return resp.Tags, nil
}

// SaveSubscription registers a push subscription with the backend.
func (c *Client) SaveSubscription(ctx context.Context, sub PushSubscription) error {
	body := SaveSubscriptionRequest{Subscription: sub}
	if err := c.post(ctx, "/save-subscription", body, nil); err != nil {
		return fmt.Errorf("saving push subscription: %w", err)
	}
	return nil
}

// The wire contract of the remote todo backend. The client in internal/api
// implements this surface.
package contracts

import "context"

// Todo is a task as the backend serializes it.
type Todo struct {
	TodoID        string   `json:"todo_id"`
	Todo          string   `json:"todo"`
	Deadline      string   `json:"deadline"` // "YYYY-MM-DD" or "YYYY-MM-DD HH:MM"
	Priority      int      `json:"priority"` // 1..5, 5 most urgent
	FinishFlg     int      `json:"finish_flg"`
	EstimatedTime int      `json:"estimated_time,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

// PushPayload is the shape of a push notification body.
type PushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Backend is the operation surface of the remote API. All calls carry the
// user's session cookie; 401 responses surface as auth errors.
type Backend interface {
	// ListTodos fetches the user's full task set.
	// GET /get_user_todos
	ListTodos(ctx context.Context) ([]Todo, error)

	// CreateTodo creates a task from explicit fields.
	// POST /manual_insert_todo
	CreateTodo(ctx context.Context, t Todo) error

	// CreateFromText creates a task from free text the backend parses.
	// POST /insert_todo
	CreateFromText(ctx context.Context, text string) error

	// SetFinished flips a task's completion flag.
	// POST /get_user_todos_finishflg_update
	SetFinished(ctx context.Context, todoID string, finished bool) error

	// DeleteTodo removes a task.
	// POST /get_user_todos_delete
	DeleteTodo(ctx context.Context, todoID string) error

	// MoveToTomorrow shifts a task's deadline to the next day.
	// GET /tomorrow_todo?todo_id=
	MoveToTomorrow(ctx context.Context, todoID string) error

	// ListTags fetches every tag the user has used.
	// GET /get_tags
	ListTags(ctx context.Context) ([]string, error)
}

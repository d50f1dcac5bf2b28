package api

// TodosResponse is the response from GET /get_user_todos.
type TodosResponse struct {
	Datas []Todo `json:"datas"`
}

// Todo is a single task as the backend serializes it.
type Todo struct {
	TodoID        string   `json:"todo_id"`
	Todo          string   `json:"todo"`
	Deadline      string   `json:"deadline"`
	Priority      int      `json:"priority"`
	FinishFlg     int      `json:"finish_flg"`
	EstimatedTime int      `json:"estimated_time,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

// CreateTodoRequest is the body of POST /manual_insert_todo.
type CreateTodoRequest struct {
	Todo          string   `json:"todo"`
	Deadline      string   `json:"deadline"`
	Priority      int      `json:"priority"`
	EstimatedTime int      `json:"estimated_time,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

// TextInsertRequest is the body of POST /insert_todo: free text the backend
// parses into a task itself.
type TextInsertRequest struct {
	Text string `json:"text"`
}

// FinishUpdateRequest is the body of POST /get_user_todos_finishflg_update.
type FinishUpdateRequest struct {
	TodoID    string `json:"todo_id"`
	FinishFlg int    `json:"finish_flg"`
}

// DeleteRequest is the body of POST /get_user_todos_delete.
type DeleteRequest struct {
	TodoID string `json:"todo_id"`
}

// TagsResponse is the response from GET /get_tags.
type TagsResponse struct {
	Tags []string `json:"tags"`
}

// PushSubscription is the subscription handle registered with the backend
// via POST /save-subscription. Opaque to this client.
type PushSubscription struct {
	Endpoint string            `json:"endpoint"`
	Keys     map[string]string `json:"keys,omitempty"`
}

// SaveSubscriptionRequest is the body of POST /save-subscription.
type SaveSubscriptionRequest struct {
	Subscription PushSubscription `json:"subscription"`
}

// PushPayload is the wire shape of a push notification as the backend sends
// it to the platform worker. Carried here for the delivery boundary; this
// client never renders it.
type PushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Package repo holds the authoritative in-memory set of tasks. It is pure
// CRUD plus change observation; deadline detection and notification state
// live elsewhere.
package repo

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nhle/taskflow/internal/logger"
	"github.com/nhle/taskflow/internal/model"
)

// Patch describes a partial task update. Nil fields are left untouched;
// a non-nil pointer to the zero value clears the field where that is legal
// (Time, Duration, Tags).
type Patch struct {
	Title    *string
	Date     *string
	Time     *string
	Priority *int
	Status   *string
	Duration *int
	Tags     *[]string
}

// TaskRepository owns the in-memory task set. All methods are safe for
// concurrent use; every mutation is applied atomically, so a reader always
// observes either the full pre-mutation or full post-mutation set.
type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]model.Task
	order []string
	subs  []func()
}

// New creates an empty task repository.
func New() *TaskRepository {
	return &TaskRepository{
		tasks: make(map[string]model.Task),
	}
}

// OnChange registers a callback invoked after every successful mutation.
// Callbacks run outside the repository lock and must not block for long.
func (r *TaskRepository) OnChange(fn func()) {
	r.mu.Lock()
	r.subs = append(r.subs, fn)
	r.mu.Unlock()
}

func (r *TaskRepository) notifySubs() {
	r.mu.RLock()
	subs := make([]func(), len(r.subs))
	copy(subs, r.subs)
	r.mu.RUnlock()

	for _, fn := range subs {
		fn()
	}
}

// Create validates and stores a new task, assigning an id when absent.
// Validation reports every violation at once.
func (r *TaskRepository) Create(t model.Task) (model.Task, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = model.StatusPending
	}

	if err := t.Validate(); err != nil {
		return model.Task{}, err
	}

	r.mu.Lock()
	if _, exists := r.tasks[t.ID]; !exists {
		r.order = append(r.order, t.ID)
	}
	r.tasks[t.ID] = t.Clone()
	r.mu.Unlock()

	logger.Debug("task created", zap.String("task_id", t.ID))
	r.notifySubs()
	return t, nil
}

// Update applies a partial update to an existing task. The merged result is
// validated as a whole before it replaces the stored task.
func (r *TaskRepository) Update(id string, p Patch) (model.Task, error) {
	r.mu.Lock()
	current, ok := r.tasks[id]
	if !ok {
		r.mu.Unlock()
		return model.Task{}, &model.NotFoundError{Kind: "task", ID: id}
	}

	merged := current.Clone()
	if p.Title != nil {
		merged.Title = *p.Title
	}
	if p.Date != nil {
		merged.Date = *p.Date
	}
	if p.Time != nil {
		merged.Time = *p.Time
	}
	if p.Priority != nil {
		merged.Priority = *p.Priority
	}
	if p.Status != nil {
		merged.Status = *p.Status
	}
	if p.Duration != nil {
		merged.Duration = *p.Duration
	}
	if p.Tags != nil {
		merged.Tags = append([]string(nil), (*p.Tags)...)
	}

	if err := merged.Validate(); err != nil {
		r.mu.Unlock()
		return model.Task{}, err
	}

	r.tasks[id] = merged
	r.mu.Unlock()

	logger.Debug("task updated", zap.String("task_id", id))
	r.notifySubs()
	return merged.Clone(), nil
}

// SetStatus changes a task's status.
func (r *TaskRepository) SetStatus(id, status string) (model.Task, error) {
	return r.Update(id, Patch{Status: &status})
}

// Delete removes a task. Deleting an unknown id is a no-op, so the
// operation is idempotent.
func (r *TaskRepository) Delete(id string) {
	r.mu.Lock()
	if _, ok := r.tasks[id]; !ok {
		r.mu.Unlock()
		return
	}
	delete(r.tasks, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	logger.Debug("task deleted", zap.String("task_id", id))
	r.notifySubs()
}

// Get retrieves a single task by id.
func (r *TaskRepository) Get(id string) (model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return model.Task{}, &model.NotFoundError{Kind: "task", ID: id}
	}
	return t.Clone(), nil
}

// List returns a snapshot of all tasks in insertion order.
func (r *TaskRepository) List() []model.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]model.Task, 0, len(r.order))
	for _, id := range r.order {
		tasks = append(tasks, r.tasks[id].Clone())
	}
	return tasks
}

// ListByDate returns the snapshot filtered to tasks due on the given date.
func (r *TaskRepository) ListByDate(date string) []model.Task {
	var matched []model.Task
	for _, t := range r.List() {
		if t.Date == date {
			matched = append(matched, t)
		}
	}
	return matched
}

// Replace swaps the entire task set in one atomic step. Used by the sync
// layer so a concurrent deadline sweep sees either the old or the new set,
// never a half-applied reconciliation.
func (r *TaskRepository) Replace(tasks []model.Task) {
	fresh := make(map[string]model.Task, len(tasks))
	order := make([]string, 0, len(tasks))
	for _, t := range tasks {
		if _, dup := fresh[t.ID]; dup {
			continue
		}
		fresh[t.ID] = t.Clone()
		order = append(order, t.ID)
	}

	r.mu.Lock()
	r.tasks = fresh
	r.order = order
	r.mu.Unlock()

	logger.Debug("task set replaced", zap.Int("count", len(order)))
	r.notifySubs()
}

// Tags returns the distinct tag labels across all tasks, in first-seen order.
func (r *TaskRepository) Tags() []string {
	seen := make(map[string]bool)
	var tags []string
	for _, t := range r.List() {
		for _, tag := range t.Tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

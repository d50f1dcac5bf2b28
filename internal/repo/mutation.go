package repo

import (
	"sync"

	"go.uber.org/zap"

	"github.com/nhle/taskflow/internal/logger"
	"github.com/nhle/taskflow/internal/model"
)

// MutationState tracks the lifecycle of an optimistic mutation.
type MutationState int

const (
	MutationPending MutationState = iota
	MutationApplied
	MutationReverted
)

// Mutation is an optimistic local change awaiting remote confirmation.
// The prior state of the touched task is captured before the change is
// applied; Revert restores it exactly. Because the deadline watcher is
// driven by its watermark rather than by edit events, a revert can never
// open a fresh notification window.
type Mutation struct {
	repo    *TaskRepository
	mu      sync.Mutex
	state   MutationState
	taskID  string
	existed bool
	prior   model.Task
	pos     int
}

// Begin captures the current state of the task identified by id and returns
// a pending mutation. The task need not exist yet (optimistic create).
func (r *TaskRepository) Begin(id string) *Mutation {
	m := &Mutation{repo: r, taskID: id, pos: -1}

	r.mu.RLock()
	if prior, ok := r.tasks[id]; ok {
		m.existed = true
		m.prior = prior.Clone()
		for i, existing := range r.order {
			if existing == id {
				m.pos = i
				break
			}
		}
	}
	r.mu.RUnlock()
	return m
}

// State returns the mutation's lifecycle state.
func (m *Mutation) State() MutationState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Commit marks the mutation as confirmed. The local change stands.
func (m *Mutation) Commit() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != MutationPending {
		return
	}
	m.state = MutationApplied
}

// Revert rolls the task back to its captured prior state: a task that
// existed is restored byte for byte, one that did not is removed. Safe to
// call at most effectively once; later calls are no-ops.
func (m *Mutation) Revert() {
	m.mu.Lock()
	if m.state != MutationPending {
		m.mu.Unlock()
		return
	}
	m.state = MutationReverted
	m.mu.Unlock()

	r := m.repo
	if !m.existed {
		r.Delete(m.taskID)
		logger.Info("optimistic create rolled back", zap.String("task_id", m.taskID))
		return
	}

	r.mu.Lock()
	if _, ok := r.tasks[m.taskID]; !ok {
		// Task was optimistically deleted; put it back where it was.
		pos := m.pos
		if pos < 0 || pos > len(r.order) {
			pos = len(r.order)
		}
		r.order = append(r.order[:pos], append([]string{m.taskID}, r.order[pos:]...)...)
	}
	r.tasks[m.taskID] = m.prior.Clone()
	r.mu.Unlock()
	r.notifySubs()

	logger.Info("optimistic mutation rolled back", zap.String("task_id", m.taskID))
}

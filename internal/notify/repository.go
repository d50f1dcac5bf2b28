// Package notify stores deadline notification events: a bounded,
// deduplicated, ordered collection with a read/unread projection, plus the
// delivery boundary toward platform-level alerts.
package notify

import (
	"sync"

	"go.uber.org/zap"

	"github.com/nhle/taskflow/internal/logger"
	"github.com/nhle/taskflow/internal/model"
)

// Capacity is the maximum number of events kept. Insertion beyond it
// evicts the oldest event by insertion order.
const Capacity = 10

// dedupKey identifies the one live event allowed per task and type.
type dedupKey struct {
	taskID string
	typ    model.EventType
}

// Repository is the bounded in-app notification store. All methods are
// safe for concurrent use.
type Repository struct {
	mu       sync.RWMutex
	events   []model.Event // insertion order, oldest first
	index    map[dedupKey]string
	delivery Delivery // optional; nil means in-app only
	subs     []func()
}

// NewRepository creates an empty notification repository. delivery may be
// nil; the store then works purely in-app.
func NewRepository(delivery Delivery) *Repository {
	return &Repository{
		index:    make(map[dedupKey]string),
		delivery: delivery,
	}
}

// OnChange registers a callback invoked after every state change.
// Callbacks run outside the lock.
func (r *Repository) OnChange(fn func()) {
	r.mu.Lock()
	r.subs = append(r.subs, fn)
	r.mu.Unlock()
}

func (r *Repository) notifySubs() {
	r.mu.RLock()
	subs := make([]func(), len(r.subs))
	copy(subs, r.subs)
	r.mu.RUnlock()

	for _, fn := range subs {
		fn()
	}
}

// Add inserts the event unless a live event with the same (task, type) pair
// already exists; in that case it reports false and changes nothing. When
// the insertion pushes the store past Capacity, the oldest event is
// evicted. A stored event is offered to the delivery adapter fire-and-
// forget: delivery failure never unwinds the insertion.
func (r *Repository) Add(ev model.Event) bool {
	key := dedupKey{taskID: ev.Task.ID, typ: ev.Type}

	r.mu.Lock()
	if _, dup := r.index[key]; dup {
		r.mu.Unlock()
		return false
	}

	r.events = append(r.events, ev)
	r.index[key] = ev.ID

	if len(r.events) > Capacity {
		oldest := r.events[0]
		r.events = r.events[1:]
		delete(r.index, dedupKey{taskID: oldest.Task.ID, typ: oldest.Type})
	}
	delivery := r.delivery
	r.mu.Unlock()

	logger.Info("notification stored",
		zap.String("task_id", ev.Task.ID), zap.String("type", string(ev.Type)))

	if delivery != nil {
		if err := delivery.Show(ev); err != nil {
			logger.Warn("platform alert failed",
				zap.String("event_id", ev.ID), zap.Error(err))
		}
	}

	r.notifySubs()
	return true
}

// Remove deletes an event by id. Unknown ids are ignored.
func (r *Repository) Remove(id string) {
	r.mu.Lock()
	removed := false
	for i, ev := range r.events {
		if ev.ID == id {
			delete(r.index, dedupKey{taskID: ev.Task.ID, typ: ev.Type})
			r.events = append(r.events[:i], r.events[i+1:]...)
			removed = true
			break
		}
	}
	r.mu.Unlock()

	if removed {
		r.notifySubs()
	}
}

// MarkRead flags an event as read. Idempotent: an already-read or unknown
// id is a no-op.
func (r *Repository) MarkRead(id string) {
	r.mu.Lock()
	changed := false
	for i := range r.events {
		if r.events[i].ID == id && !r.events[i].IsRead {
			r.events[i].IsRead = true
			changed = true
			break
		}
	}
	r.mu.Unlock()

	if changed {
		r.notifySubs()
	}
}

// Clear empties the collection.
func (r *Repository) Clear() {
	r.mu.Lock()
	r.events = nil
	r.index = make(map[dedupKey]string)
	r.mu.Unlock()

	r.notifySubs()
}

// UnreadCount recomputes the number of unread events from current state.
func (r *Repository) UnreadCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, ev := range r.events {
		if !ev.IsRead {
			count++
		}
	}
	return count
}

// Len returns the number of stored events.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events)
}

// List returns the events newest-first, the order the panel displays them
// in. Eviction order is unaffected; internally the store stays
// insertion-ordered.
func (r *Repository) List() []model.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Event, len(r.events))
	for i, ev := range r.events {
		out[len(r.events)-1-i] = ev
	}
	return out
}

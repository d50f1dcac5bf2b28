// Package watch turns approaching task deadlines into discrete notification
// events, exactly once per threshold crossing.
package watch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nhle/taskflow/internal/logger"
	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/taskdate"
)

// WarningWindow is how long before a deadline the warning event fires.
// The tick interval must stay well below it or crossings can be missed.
const WarningWindow = 30 * time.Minute

// DefaultInterval is the logical sweep period.
const DefaultInterval = time.Minute

// TaskSource supplies the task set to sweep. Snapshots must be atomic with
// respect to concurrent mutation.
type TaskSource interface {
	List() []model.Task
}

// EventSink receives deadline crossing events. Add reports whether the
// event was actually stored (false for duplicates).
type EventSink interface {
	Add(model.Event) bool
}

// Clock supplies the current time; injectable for deterministic tests.
type Clock func() time.Time

// Watcher owns a single watermark: the last instant up to which every task
// was evaluated. Edge-triggering works off that watermark, not per-task
// state, so a window is reported once no matter how many ticks observe it,
// and a missed tick is healed by the next sweep because the checks are
// range-based rather than point-in-time.
//
// Consequence of the global watermark, preserved deliberately: a task
// created or edited after its warning or deadline instant has already
// passed the watermark will never fire for that instant.
type Watcher struct {
	source   TaskSource
	sink     EventSink
	clock    Clock
	interval time.Duration

	// mu makes each sweep a critical section: the watermark only advances
	// after a full pass over all tasks, and sweeps never interleave even
	// if the host drives Check from more than one goroutine.
	mu        sync.Mutex
	lastCheck time.Time

	checkCh chan struct{}
}

// New creates a watcher over the given task source and event sink.
// A nil clock means wall-clock time; a non-positive interval means
// DefaultInterval.
func New(source TaskSource, sink EventSink, interval time.Duration, clock Clock) *Watcher {
	if clock == nil {
		clock = time.Now
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{
		source:    source,
		sink:      sink,
		clock:     clock,
		interval:  interval,
		lastCheck: clock(),
		checkCh:   make(chan struct{}, 1),
	}
}

// Run sweeps deadlines on a fixed interval until ctx is cancelled. The
// ticker is always released; no timers leak past cancellation.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("deadline watcher started", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ctx.Done():
			logger.Info("deadline watcher stopped")
			return
		case <-ticker.C:
			w.Check()
		case <-w.checkCh:
			w.Check()
		}
	}
}

// Trigger requests an immediate sweep from the Run loop without waiting for
// the next tick. Non-blocking; a sweep already queued is enough.
func (w *Watcher) Trigger() {
	select {
	case w.checkCh <- struct{}{}:
	default:
	}
}

// Check performs one full sweep: every active task is tested against the
// warning window and the deadline, events are emitted for fresh crossings,
// and only then does the watermark advance to the sweep's start time.
// The sweep is a single critical section; ticks never interleave.
func (w *Watcher) Check() {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.clock()
	emitted := 0

	for _, t := range w.source.List() {
		if !t.Active() {
			continue
		}

		deadline, err := taskdate.Deadline(t)
		if err != nil {
			logger.Warn("skipping task with unparseable deadline",
				zap.String("task_id", t.ID), zap.Error(err))
			continue
		}
		warnAt := deadline.Add(-WarningWindow)

		// Inside the warning window, and the window opened after the
		// last sweep: this is the first observation of the edge.
		if !now.Before(warnAt) && now.Before(deadline) && w.lastCheck.Before(warnAt) {
			if w.emit(model.EventWarning, t, now) {
				emitted++
			}
		}

		// Past the deadline, and it passed after the last sweep.
		if !now.Before(deadline) && w.lastCheck.Before(deadline) {
			if w.emit(model.EventOverdue, t, now) {
				emitted++
			}
		}
	}

	w.lastCheck = now
	if emitted > 0 {
		logger.Info("deadline sweep emitted events", zap.Int("count", emitted))
	}
}

func (w *Watcher) emit(typ model.EventType, t model.Task, now time.Time) bool {
	return w.sink.Add(model.Event{
		ID:        uuid.New().String(),
		Type:      typ,
		Task:      t,
		Timestamp: now,
		Message:   typ.Message(),
	})
}

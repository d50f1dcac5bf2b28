// Package sync keeps the in-memory task set aligned with the remote backend:
// a background poller for fetches plus optimistic commands for mutations.
package sync

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/taskflow/internal/api"
	"github.com/nhle/taskflow/internal/logger"
	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/repo"
	"github.com/nhle/taskflow/internal/store"
)

// SyncState represents the current state of the sync loop.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncError
)

// SyncResultMsg is a tea.Msg sent when a background fetch completes.
type SyncResultMsg struct {
	Tasks     []model.Task
	Error     error
	AuthError *AuthErrorMsg
}

// AuthErrorMsg is a tea.Msg sent when the backend rejects the session.
type AuthErrorMsg struct {
	Message string
}

// fetchTimeout is the maximum time allowed for a single fetch operation.
const fetchTimeout = 30 * time.Second

// Syncer polls the backend and reconciles the task repository against it.
// Fetched sets replace the repository atomically and are cached to SQLite
// so the next start is not blank.
type Syncer struct {
	client   *api.Client
	repo     *repo.TaskRepository
	cache    *store.SQLiteStore // optional; nil disables snapshot caching
	interval time.Duration

	resultCh  chan SyncResultMsg
	triggerCh chan struct{}
	stopCh    chan struct{}

	mu       gosync.Mutex
	running  bool
	state    SyncState
	lastSync time.Time
	lastErr  error
}

// New creates a syncer over the given client and repository. cache may be
// nil. A non-positive interval defaults to two minutes.
func New(
	client *api.Client,
	r *repo.TaskRepository,
	cache *store.SQLiteStore,
	interval time.Duration,
) *Syncer {
	if interval <= 0 {
		interval = 120 * time.Second
	}
	return &Syncer{
		client:    client,
		repo:      r,
		cache:     cache,
		interval:  interval,
		resultCh:  make(chan SyncResultMsg, 16),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// Start launches the polling goroutine and returns a tea.Cmd that waits on
// the result channel, feeding SyncResultMsg values to the Bubble Tea
// runtime. Calling Start twice is a no-op.
func (s *Syncer) Start() tea.Cmd {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	go s.poll()

	return s.waitForResult()
}

// Stop halts the polling goroutine. Results from fetches still in flight
// are dropped.
func (s *Syncer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	close(s.stopCh)
	s.running = false
}

// Refresh triggers an immediate fetch without waiting for the next tick.
// Non-blocking; a fetch already queued is enough.
func (s *Syncer) Refresh() tea.Cmd {
	select {
	case s.triggerCh <- struct{}{}:
	default:
	}
	return nil
}

// Status returns the loop state, last successful sync time, and last error.
func (s *Syncer) Status() (SyncState, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.lastSync, s.lastErr
}

// poll runs the fetch loop until Stop.
func (s *Syncer) poll() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Initial fetch immediately; the UI starts from the cached snapshot.
	s.fetchAndReplace()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.fetchAndReplace()
		case <-s.triggerCh:
			s.fetchAndReplace()
		}
	}
}

// fetchAndReplace performs one fetch, atomically replaces the repository's
// task set, caches the snapshot, and reports the outcome on the result
// channel.
func (s *Syncer) fetchAndReplace() {
	s.setState(SyncRunning, nil)

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	tasks, err := s.client.ListTodos(ctx)
	if err != nil {
		s.setState(SyncError, err)

		if api.IsAuthError(err) {
			s.sendResult(SyncResultMsg{
				Error: err,
				AuthError: &AuthErrorMsg{
					Message: "Session expired. Log in again and update the stored cookie.",
				},
			})
			return
		}

		logger.Warn("sync fetch failed", zap.Error(err))
		s.sendResult(SyncResultMsg{Error: err})
		return
	}

	s.repo.Replace(tasks)

	if s.cache != nil {
		if cacheErr := s.cache.SaveTasks(ctx, tasks); cacheErr != nil {
			// Cache failure is not a sync failure; the in-memory set is
			// already current.
			logger.Warn("caching task snapshot failed", zap.Error(cacheErr))
		}
	}

	s.setState(SyncIdle, nil)
	s.sendResult(SyncResultMsg{Tasks: tasks})
}

// setState updates the loop state under the lock.
func (s *Syncer) setState(state SyncState, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state
	s.lastErr = err
	if state == SyncIdle && err == nil {
		s.lastSync = time.Now()
	}
}

// sendResult sends a result without blocking. Results are dropped once the
// syncer is stopped or when the channel is full.
func (s *Syncer) sendResult(msg SyncResultMsg) {
	select {
	case <-s.stopCh:
		return
	default:
	}

	select {
	case s.resultCh <- msg:
	default:
	}
}

// waitForResult returns a tea.Cmd that waits for the next fetch result.
func (s *Syncer) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-s.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next sync result.
// Call it after processing a SyncResultMsg to keep listening.
func (s *Syncer) WaitForNextResult() tea.Cmd {
	return s.waitForResult()
}

package sync_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskflow/internal/api"
	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/repo"
	tasksync "github.com/nhle/taskflow/internal/sync"
	"github.com/nhle/taskflow/tests/testutil"
)

// newSyncer wires a syncer against an httptest backend, with a long poll
// interval so only explicit fetches happen during a test.
func newSyncer(t *testing.T, handler http.Handler) (*tasksync.Syncer, *repo.TaskRepository) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := api.NewClient(srv.URL, "cookie", 5*time.Second)
	require.NoError(t, err)

	r := repo.New()
	return tasksync.New(client, r, nil, time.Hour), r
}

func seedTask(t *testing.T, r *repo.TaskRepository, id, title string) model.Task {
	t.Helper()
	created, err := r.Create(model.Task{
		ID: id, Title: title, Date: "2026-09-01",
		Priority: 3, Status: model.StatusPending,
	})
	require.NoError(t, err)
	return created
}

func TestStart_FetchReplacesRepositoryAndCaches(t *testing.T) {
	remote := []api.Todo{
		{TodoID: "r1", Todo: "from remote", Deadline: "2026-09-01 10:00", Priority: 3},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.TodosResponse{Datas: remote})
	}))
	t.Cleanup(srv.Close)

	client, err := api.NewClient(srv.URL, "cookie", 5*time.Second)
	require.NoError(t, err)

	r := repo.New()
	seedTask(t, r, "stale", "stale cached task")
	cache := testutil.NewTestStore(t)

	s := tasksync.New(client, r, cache, time.Hour)
	cmd := s.Start()
	t.Cleanup(s.Stop)

	msg, ok := cmd().(tasksync.SyncResultMsg)
	require.True(t, ok)
	require.NoError(t, msg.Error)
	require.Len(t, msg.Tasks, 1)

	list := r.List()
	require.Len(t, list, 1)
	assert.Equal(t, "r1", list[0].ID, "fetched set replaces the stale one")

	cached, err := cache.LoadTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "from remote", cached[0].Title)

	state, lastSync, lastErr := s.Status()
	assert.Equal(t, tasksync.SyncIdle, state)
	assert.False(t, lastSync.IsZero())
	assert.NoError(t, lastErr)
}

func TestStart_AuthErrorSurfacesWithoutTouchingRepo(t *testing.T) {
	s, r := newSyncer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	seedTask(t, r, "local", "survives a failed fetch")

	cmd := s.Start()
	t.Cleanup(s.Stop)

	msg, ok := cmd().(tasksync.SyncResultMsg)
	require.True(t, ok)
	require.Error(t, msg.Error)
	require.NotNil(t, msg.AuthError)
	assert.Contains(t, msg.AuthError.Message, "Log in again")

	assert.Len(t, r.List(), 1, "a failed fetch never clears local tasks")

	state, _, lastErr := s.Status()
	assert.Equal(t, tasksync.SyncError, state)
	assert.True(t, api.IsAuthError(lastErr))
}

func TestToggleDone_CompletesAndConfirms(t *testing.T) {
	var got api.FinishUpdateRequest
	s, r := newSyncer(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, json.NewDecoder(req.Body).Decode(&got))
	}))
	task := seedTask(t, r, "t1", "x")

	msg := s.ToggleDone(task.ID)().(tasksync.MutationDoneMsg)
	require.NoError(t, msg.Error)
	assert.Equal(t, tasksync.OpComplete, msg.Op)
	assert.Equal(t, api.FinishUpdateRequest{TodoID: task.ID, FinishFlg: 1}, got)

	after, err := r.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDone, after.Status)
}

func TestToggleDone_ReopensDoneTask(t *testing.T) {
	s, r := newSyncer(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	task := seedTask(t, r, "t1", "x")
	_, err := r.SetStatus(task.ID, model.StatusDone)
	require.NoError(t, err)

	msg := s.ToggleDone(task.ID)().(tasksync.MutationDoneMsg)
	require.NoError(t, msg.Error)
	assert.Equal(t, tasksync.OpReopen, msg.Op)

	after, err := r.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, after.Status)
}

func TestToggleDone_ServerFailureRevertsStatus(t *testing.T) {
	s, r := newSyncer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	task := seedTask(t, r, "t1", "x")

	msg := s.ToggleDone(task.ID)().(tasksync.MutationDoneMsg)
	require.Error(t, msg.Error)

	after, err := r.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, after.Status, "rollback undoes the optimistic flip")
}

func TestDelete_ServerFailureRestoresListPosition(t *testing.T) {
	s, r := newSyncer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	seedTask(t, r, "a", "first")
	seedTask(t, r, "b", "second")
	seedTask(t, r, "c", "third")

	msg := s.Delete("b")().(tasksync.MutationDoneMsg)
	require.Error(t, msg.Error)

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, "b", list[1].ID, "rollback restores the original position")
}

func TestDelete_Success(t *testing.T) {
	s, r := newSyncer(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	seedTask(t, r, "a", "x")

	msg := s.Delete("a")().(tasksync.MutationDoneMsg)
	require.NoError(t, msg.Error)
	assert.Equal(t, tasksync.OpDelete, msg.Op)
	assert.Empty(t, r.List())
}

func TestCreate_ServerFailureRemovesOptimisticInsert(t *testing.T) {
	s, r := newSyncer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	msg := s.Create(model.Task{
		Title: "new task", Date: "2026-09-01", Priority: 3,
	})().(tasksync.MutationDoneMsg)

	require.Error(t, msg.Error)
	assert.Equal(t, tasksync.OpCreate, msg.Op)
	assert.Empty(t, r.List(), "rollback removes the optimistic insert")
}

func TestCreate_Success(t *testing.T) {
	var got api.CreateTodoRequest
	s, r := newSyncer(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/manual_insert_todo" {
			require.NoError(t, json.NewDecoder(req.Body).Decode(&got))
		}
	}))

	msg := s.Create(model.Task{
		Title: "new task", Date: "2026-09-01", Priority: 3,
	})().(tasksync.MutationDoneMsg)

	require.NoError(t, msg.Error)
	assert.NotEmpty(t, msg.TaskID)
	assert.Equal(t, "new task", got.Todo)
	assert.Len(t, r.List(), 1, "optimistic insert stays until the next fetch")
}

func TestMoveToTomorrow_ServerFailureRevertsDate(t *testing.T) {
	s, r := newSyncer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	task := seedTask(t, r, "t1", "x")

	msg := s.MoveToTomorrow(task.ID)().(tasksync.MutationDoneMsg)
	require.Error(t, msg.Error)

	after, err := r.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-01", after.Date, "rollback restores the original date")
}

func TestCreateFromText(t *testing.T) {
	var got api.TextInsertRequest
	s, _ := newSyncer(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, json.NewDecoder(req.Body).Decode(&got))
	}))

	msg := s.CreateFromText("明日の15時に資料提出")().(tasksync.MutationDoneMsg)
	require.NoError(t, msg.Error)
	assert.Equal(t, tasksync.OpTextCreate, msg.Op)
	assert.Equal(t, "明日の15時に資料提出", got.Text)
}

func TestFetchTags(t *testing.T) {
	s, _ := newSyncer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(api.TagsResponse{Tags: []string{"work", "home"}})
	}))

	msg := s.FetchTags()().(tasksync.TagsMsg)
	require.NoError(t, msg.Error)
	assert.Equal(t, []string{"work", "home"}, msg.Tags)
}

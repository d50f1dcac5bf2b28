package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/tests/testutil"
)

func TestSaveLoad_Roundtrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	tasks := []model.Task{
		{
			ID: "t1", Title: "資料提出", Date: "2026-09-01", Time: "15:30",
			Priority: 4, Status: model.StatusPending, Duration: 45,
			Tags: []string{"work", "urgent"},
		},
		{
			ID: "t2", Title: "buy milk", Date: "2026-09-02",
			Priority: 1, Status: model.StatusDone,
		},
	}

	require.NoError(t, s.SaveTasks(ctx, tasks))

	loaded, err := s.LoadTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, tasks, loaded)
}

func TestSaveTasks_PreservesInputOrder(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	var tasks []model.Task
	for _, id := range []string{"z", "a", "m"} {
		tasks = append(tasks, model.Task{
			ID: id, Title: id, Date: "2026-09-01",
			Priority: 3, Status: model.StatusPending,
		})
	}
	require.NoError(t, s.SaveTasks(ctx, tasks))

	loaded, err := s.LoadTasks(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, "z", loaded[0].ID)
	assert.Equal(t, "a", loaded[1].ID)
	assert.Equal(t, "m", loaded[2].ID)
}

func TestSaveTasks_ReplacesPreviousSnapshot(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	first := []model.Task{{
		ID: "old", Title: "old", Date: "2026-09-01",
		Priority: 3, Status: model.StatusPending,
	}}
	require.NoError(t, s.SaveTasks(ctx, first))

	second := []model.Task{{
		ID: "new", Title: "new", Date: "2026-09-02",
		Priority: 2, Status: model.StatusPending,
	}}
	require.NoError(t, s.SaveTasks(ctx, second))

	loaded, err := s.LoadTasks(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "new", loaded[0].ID)
}

func TestSaveTasks_EmptySetClearsCache(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveTasks(ctx, []model.Task{{
		ID: "t1", Title: "x", Date: "2026-09-01",
		Priority: 3, Status: model.StatusPending,
	}}))
	require.NoError(t, s.SaveTasks(ctx, nil))

	loaded, err := s.LoadTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestLoadTasks_EmptyDatabase(t *testing.T) {
	s := testutil.NewTestStore(t)

	loaded, err := s.LoadTasks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

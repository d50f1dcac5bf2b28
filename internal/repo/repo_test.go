package repo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/repo"
)

func pending(id, title, date string) model.Task {
	return model.Task{
		ID:       id,
		Title:    title,
		Date:     date,
		Priority: 3,
		Status:   model.StatusPending,
	}
}

func TestCreate_AssignsIDAndDefaults(t *testing.T) {
	r := repo.New()

	created, err := r.Create(model.Task{Title: "買い物", Date: "2026-09-01", Priority: 2})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.StatusPending, created.Status)

	got, err := r.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "買い物", got.Title)
}

func TestCreate_RejectsInvalid(t *testing.T) {
	r := repo.New()

	_, err := r.Create(model.Task{Title: "", Date: "bad", Priority: 0})

	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, 0, len(r.List()))
}

func TestUpdate_MergesPatch(t *testing.T) {
	r := repo.New()
	created, err := r.Create(pending("", "report", "2026-09-01"))
	require.NoError(t, err)

	newTitle := "report v2"
	newTime := "14:00"
	updated, err := r.Update(created.ID, repo.Patch{Title: &newTitle, Time: &newTime})
	require.NoError(t, err)

	assert.Equal(t, "report v2", updated.Title)
	assert.Equal(t, "14:00", updated.Time)
	assert.Equal(t, "2026-09-01", updated.Date, "untouched fields survive")
}

func TestUpdate_UnknownID(t *testing.T) {
	r := repo.New()

	_, err := r.Update("ghost", repo.Patch{})

	var nfErr *model.NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "ghost", nfErr.ID)
}

func TestUpdate_RejectsInvalidMerge(t *testing.T) {
	r := repo.New()
	created, err := r.Create(pending("", "x", "2026-09-01"))
	require.NoError(t, err)

	empty := ""
	_, err = r.Update(created.ID, repo.Patch{Title: &empty})
	require.Error(t, err)

	got, err := r.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "x", got.Title, "failed update leaves the task untouched")
}

func TestDelete_Idempotent(t *testing.T) {
	r := repo.New()
	created, err := r.Create(pending("", "x", "2026-09-01"))
	require.NoError(t, err)

	r.Delete(created.ID)
	r.Delete(created.ID) // second delete is a no-op
	r.Delete("never-existed")

	assert.Empty(t, r.List())
}

func TestList_InsertionOrder(t *testing.T) {
	r := repo.New()
	for _, title := range []string{"first", "second", "third"} {
		_, err := r.Create(pending("", title, "2026-09-01"))
		require.NoError(t, err)
	}

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, "first", list[0].Title)
	assert.Equal(t, "third", list[2].Title)
}

func TestListByDate(t *testing.T) {
	r := repo.New()
	_, err := r.Create(pending("", "today", "2026-09-01"))
	require.NoError(t, err)
	_, err = r.Create(pending("", "later", "2026-09-05"))
	require.NoError(t, err)

	matched := r.ListByDate("2026-09-01")
	require.Len(t, matched, 1)
	assert.Equal(t, "today", matched[0].Title)
}

func TestReplace_SwapsWholeSet(t *testing.T) {
	r := repo.New()
	_, err := r.Create(pending("", "old", "2026-09-01"))
	require.NoError(t, err)

	r.Replace([]model.Task{
		pending("n1", "new one", "2026-09-02"),
		pending("n2", "new two", "2026-09-03"),
	})

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "n1", list[0].ID)
	assert.Equal(t, "n2", list[1].ID)
}

func TestTags_DistinctFirstSeen(t *testing.T) {
	r := repo.New()
	t1 := pending("", "a", "2026-09-01")
	t1.Tags = []string{"work", "urgent"}
	t2 := pending("", "b", "2026-09-01")
	t2.Tags = []string{"urgent", "home"}

	_, err := r.Create(t1)
	require.NoError(t, err)
	_, err = r.Create(t2)
	require.NoError(t, err)

	assert.Equal(t, []string{"work", "urgent", "home"}, r.Tags())
}

func TestOnChange_FiresAfterMutations(t *testing.T) {
	r := repo.New()
	calls := 0
	r.OnChange(func() { calls++ })

	created, err := r.Create(pending("", "x", "2026-09-01"))
	require.NoError(t, err)
	_, err = r.SetStatus(created.ID, model.StatusDone)
	require.NoError(t, err)
	r.Delete(created.ID)

	assert.Equal(t, 3, calls)
}

func TestMutation_CommitKeepsChange(t *testing.T) {
	r := repo.New()
	created, err := r.Create(pending("", "x", "2026-09-01"))
	require.NoError(t, err)

	m := r.Begin(created.ID)
	_, err = r.SetStatus(created.ID, model.StatusDone)
	require.NoError(t, err)
	m.Commit()

	assert.Equal(t, repo.MutationApplied, m.State())

	got, err := r.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDone, got.Status)

	// A commit cannot be undone.
	m.Revert()
	got, err = r.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDone, got.Status)
}

func TestMutation_RevertRestoresExactState(t *testing.T) {
	r := repo.New()
	created, err := r.Create(pending("", "x", "2026-09-01"))
	require.NoError(t, err)
	before, err := r.Get(created.ID)
	require.NoError(t, err)

	m := r.Begin(created.ID)
	_, err = r.SetStatus(created.ID, model.StatusDone)
	require.NoError(t, err)
	m.Revert()

	assert.Equal(t, repo.MutationReverted, m.State())

	after, err := r.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestMutation_RevertRestoresListPosition(t *testing.T) {
	r := repo.New()
	var ids []string
	for _, title := range []string{"a", "b", "c"} {
		created, err := r.Create(pending("", title, "2026-09-01"))
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	// Optimistically delete the middle task, then roll back.
	m := r.Begin(ids[1])
	r.Delete(ids[1])
	m.Revert()

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, ids[1], list[1].ID, "revert puts the task back where it was")
}

func TestMutation_RevertOfOptimisticCreateRemovesTask(t *testing.T) {
	r := repo.New()

	m := r.Begin("new-id")
	_, err := r.Create(pending("new-id", "optimistic", "2026-09-01"))
	require.NoError(t, err)
	m.Revert()

	_, err = r.Get("new-id")
	var nfErr *model.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

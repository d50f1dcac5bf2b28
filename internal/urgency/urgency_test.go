package urgency_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/taskdate"
	"github.com/nhle/taskflow/internal/urgency"
)

func TestFactor(t *testing.T) {
	cases := []struct {
		daysLeft int
		want     float64
	}{
		{-3, 2.0},
		{-1, 2.0},
		{0, 1.5},
		{1, 1.2},
		{2, 1.1},
		{3, 1.0},
		{30, 1.0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, urgency.Factor(tc.daysLeft), "daysLeft=%d", tc.daysLeft)
	}
}

// TestScore_Property checks score = priority × factor across every priority
// and a window of relative due dates.
func TestScore_Property(t *testing.T) {
	today := time.Date(2026, 8, 30, 10, 0, 0, 0, time.Local)

	for p := 1; p <= 5; p++ {
		for d := -5; d <= 10; d++ {
			date := taskdate.Format(today.AddDate(0, 0, d))
			task := model.Task{Title: "x", Date: date, Priority: p, Status: model.StatusPending}

			want := float64(p) * urgency.Factor(d)
			got := urgency.Score(task, today)
			assert.Equal(t, want, got, fmt.Sprintf("priority=%d daysLeft=%d", p, d))
		}
	}
}

func TestScore_TimeOfDayIgnored(t *testing.T) {
	today := time.Date(2026, 8, 30, 10, 0, 0, 0, time.Local)

	morning := model.Task{Date: "2026-08-30", Time: "00:05", Priority: 3}
	evening := model.Task{Date: "2026-08-30", Time: "23:55", Priority: 3}

	assert.Equal(t, urgency.Score(morning, today), urgency.Score(evening, today))
}

func TestScore_BadDateUsesNeutralFactor(t *testing.T) {
	today := time.Now()
	task := model.Task{Date: "garbage", Priority: 4}
	assert.Equal(t, 4.0, urgency.Score(task, today))
}

func TestRank_DescendingAndStable(t *testing.T) {
	today := time.Date(2026, 8, 30, 10, 0, 0, 0, time.Local)

	a := model.Task{ID: "a", Date: "2026-09-10", Priority: 2} // 2.0
	b := model.Task{ID: "b", Date: "2026-08-30", Priority: 4} // 6.0
	c := model.Task{ID: "c", Date: "2026-09-10", Priority: 2} // 2.0, ties with a
	d := model.Task{ID: "d", Date: "2026-08-29", Priority: 5} // 10.0

	ranked := urgency.Rank([]model.Task{a, b, c, d}, today)

	ids := make([]string, len(ranked))
	for i, task := range ranked {
		ids[i] = task.ID
	}
	assert.Equal(t, []string{"d", "b", "a", "c"}, ids)
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	today := time.Now()
	tasks := []model.Task{
		{ID: "low", Date: taskdate.Format(today.AddDate(0, 0, 5)), Priority: 1},
		{ID: "high", Date: taskdate.Format(today), Priority: 5},
	}

	urgency.Rank(tasks, today)
	assert.Equal(t, "low", tasks[0].ID)
}

func TestTop(t *testing.T) {
	today := time.Date(2026, 8, 30, 10, 0, 0, 0, time.Local)

	tasks := []model.Task{
		{ID: "1", Date: "2026-09-10", Priority: 1},
		{ID: "2", Date: "2026-08-30", Priority: 5},
		{ID: "3", Date: "2026-08-31", Priority: 4},
		{ID: "4", Date: "2026-09-10", Priority: 2},
	}

	top := urgency.Top(tasks, today, 2)
	assert.Len(t, top, 2)
	assert.Equal(t, "2", top[0].ID)
	assert.Equal(t, "3", top[1].ID)

	assert.Len(t, urgency.Top(tasks[:1], today, 5), 1)
}

// Package urgency ranks tasks by how soon and how important they are.
package urgency

import (
	"sort"
	"time"

	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/taskdate"
)

// Factor returns the deadline multiplier for the given number of whole
// calendar days until the due date. Time of day never influences the
// factor: two tasks due the same date score identically.
func Factor(daysLeft int) float64 {
	switch {
	case daysLeft < 0:
		return 2.0
	case daysLeft == 0:
		return 1.5
	case daysLeft == 1:
		return 1.2
	case daysLeft == 2:
		return 1.1
	default:
		return 1.0
	}
}

// Score computes the urgency of a task relative to today:
// priority multiplied by the deadline factor. An unparseable date scores
// with the neutral factor.
func Score(t model.Task, today time.Time) float64 {
	daysLeft, err := taskdate.DaysLeft(t.Date, today)
	if err != nil {
		return float64(t.Priority)
	}
	return float64(t.Priority) * Factor(daysLeft)
}

// Rank returns the tasks ordered by descending urgency. The sort is
// stable: tasks with equal scores keep their original relative order.
func Rank(tasks []model.Task, today time.Time) []model.Task {
	ranked := make([]model.Task, len(tasks))
	copy(ranked, tasks)
	sort.SliceStable(ranked, func(i, j int) bool {
		return Score(ranked[i], today) > Score(ranked[j], today)
	})
	return ranked
}

// Top returns the n most urgent tasks.
func Top(tasks []model.Task, today time.Time, n int) []model.Task {
	ranked := Rank(tasks, today)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

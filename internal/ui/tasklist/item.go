package tasklist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/taskdate"
	"github.com/nhle/taskflow/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list. Urgent
// marks the top-ranked tasks of the visible set.
type TaskItem struct {
	Task   model.Task
	Urgent bool
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// ItemDelegate implements list.ItemDelegate for rendering task lines.
type ItemDelegate struct {
	// ShowDate prefixes each line with the task date; used in week view.
	ShowDate bool

	// Now supplies the current time for remaining-time labels.
	Now func() time.Time
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(TaskItem)
	if !ok {
		return
	}

	t := i.Task
	isSelected := index == m.Index()

	var prefix string
	switch t.Status {
	case model.StatusDone:
		prefix = "✓"
	case model.StatusCancelled:
		prefix = "✗"
	default:
		prefix = "○"
	}

	priBadge := theme.PriorityStyle(t.Priority).Render(fmt.Sprintf("P%d", t.Priority))

	title := t.Title
	if i.Urgent && t.Active() {
		title = theme.UrgentItemStyle.Render(title)
	}

	dateStr := ""
	if d.ShowDate {
		dateStr = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(t.Date + " ")
	}

	timeStr := ""
	if t.Time != "" {
		timeStr = " " + t.Time
	}

	now := time.Now()
	if d.Now != nil {
		now = d.Now()
	}

	remaining := ""
	if t.Active() {
		if label := taskdate.Remaining(t, now); label != "" {
			style := lipgloss.NewStyle().Foreground(theme.ColorGray)
			if label == model.MessageOverdue {
				style = lipgloss.NewStyle().Foreground(theme.ColorRed).Bold(true)
			}
			remaining = "  " + style.Render(label)
		}
	}

	tagBadge := ""
	if len(t.Tags) > 0 {
		display := t.Tags
		if len(display) > 2 {
			display = append(append([]string(nil), display[:2]...), "…")
		}
		tagBadge = lipgloss.NewStyle().
			Foreground(theme.ColorMagenta).
			Render("  " + strings.Join(display, ","))
	}

	durBadge := ""
	if t.Duration > 0 {
		durBadge = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render("  (" + taskdate.FormatDuration(t.Duration) + ")")
	}

	line := fmt.Sprintf(
		"%s %s %s%s%s%s%s%s",
		prefix, priBadge, dateStr, title, timeStr, remaining, tagBadge, durBadge,
	)

	if t.Status == model.StatusDone {
		line = theme.DoneItemStyle.Render(line)
	}

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

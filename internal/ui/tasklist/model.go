// Package tasklist renders the day and week task views over the in-memory
// repository.
package tasklist

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskflow/internal/keys"
	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/repo"
	"github.com/nhle/taskflow/internal/taskdate"
	"github.com/nhle/taskflow/internal/theme"
	"github.com/nhle/taskflow/internal/urgency"
)

// ViewMode selects between the single-day and seven-day views.
type ViewMode int

const (
	ViewDay ViewMode = iota
	ViewWeek
)

// urgentHighlightCount is how many top-ranked tasks get the urgent style.
const urgentHighlightCount = 3

// SelectedTaskMsg is sent when the user selects a task.
type SelectedTaskMsg struct {
	TaskID string
}

// Model is the task list view component.
type Model struct {
	list   list.Model
	repo   *repo.TaskRepository
	keys   *keys.KeyMap
	mode   ViewMode
	date   string // anchor date for the day/week window
	width  int
	height int
}

// New creates a task list anchored on today's date in day view.
func New(r *repo.TaskRepository, k *keys.KeyMap, width, height int) Model {
	delegate := ItemDelegate{}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	m := Model{
		list:   l,
		repo:   r,
		keys:   k,
		mode:   ViewDay,
		date:   taskdate.Format(time.Now()),
		width:  width,
		height: height,
	}
	m.Reload()
	return m
}

// Date returns the anchor date of the current view.
func (m Model) Date() string { return m.date }

// Mode returns the current view mode.
func (m Model) Mode() ViewMode { return m.mode }

// SelectedTaskID returns the id of the focused task, or "".
func (m Model) SelectedTaskID() string {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return ""
	}
	return item.Task.ID
}

// Reload rebuilds the visible items from the repository. Tasks are ranked
// by urgency within each day, and the top three urgent pending tasks of the
// visible window are highlighted.
func (m *Model) Reload() {
	now := time.Now()

	var visible []model.Task
	switch m.mode {
	case ViewWeek:
		dates, err := taskdate.WeekDates(m.date)
		if err != nil {
			dates = []string{m.date}
		}
		for _, d := range dates {
			visible = append(visible, urgency.Rank(m.repo.ListByDate(d), now)...)
		}
	default:
		visible = urgency.Rank(m.repo.ListByDate(m.date), now)
	}

	urgent := make(map[string]bool, urgentHighlightCount)
	var active []model.Task
	for _, t := range visible {
		if t.Active() {
			active = append(active, t)
		}
	}
	for _, t := range urgency.Top(active, now, urgentHighlightCount) {
		urgent[t.ID] = true
	}

	items := make([]list.Item, len(visible))
	for i, t := range visible {
		items[i] = TaskItem{Task: t, Urgent: urgent[t.ID]}
	}

	m.list.SetDelegate(ItemDelegate{ShowDate: m.mode == ViewWeek})
	m.list.SetItems(items)
	m.list.Title = m.title()
}

// title renders the view heading.
func (m Model) title() string {
	switch m.mode {
	case ViewWeek:
		return "Week of " + m.date
	default:
		return m.date
	}
}

// Init is a no-op; the app drives reloads.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.PrevDay):
			m.shiftDate(-1)
			return m, nil

		case key.Matches(msg, m.keys.NextDay):
			m.shiftDate(1)
			return m, nil

		case key.Matches(msg, m.keys.Today):
			m.date = taskdate.Format(time.Now())
			m.Reload()
			return m, nil

		case key.Matches(msg, m.keys.ToggleView):
			if m.mode == ViewDay {
				m.mode = ViewWeek
			} else {
				m.mode = ViewDay
			}
			m.Reload()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// shiftDate moves the anchor date by days (a week in week view).
func (m *Model) shiftDate(days int) {
	step := days
	if m.mode == ViewWeek {
		step = days * 7
	}
	if day, err := taskdate.ParseDate(m.date); err == nil {
		m.date = taskdate.Format(day.AddDate(0, 0, step))
	}
	m.Reload()
}

// View renders the task list view.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}
	return m.list.View()
}

// renderEmptyState shows guidance text when the window holds no tasks.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	return style.Render(
		m.title() + ": no tasks.\n\nPress 'n' to create one.",
	)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}

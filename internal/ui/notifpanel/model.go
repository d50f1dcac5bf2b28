// Package notifpanel renders the stored notification events, newest first.
package notifpanel

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskflow/internal/keys"
	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/notify"
	"github.com/nhle/taskflow/internal/taskdate"
	"github.com/nhle/taskflow/internal/theme"
)

// eventIcon maps an event type to its panel icon.
func eventIcon(typ model.EventType) string {
	switch typ {
	case model.EventOverdue:
		return "🚨"
	default:
		return "⚠️"
	}
}

// Model is the notification panel view.
type Model struct {
	store  *notify.Repository
	keys   *keys.KeyMap
	events []model.Event
	cursor int
	width  int
	height int
}

// New creates a notification panel over the given store.
func New(store *notify.Repository, k *keys.KeyMap, width, height int) Model {
	m := Model{
		store:  store,
		keys:   k,
		width:  width,
		height: height,
	}
	m.Reload()
	return m
}

// Reload re-reads the event list from the store.
func (m *Model) Reload() {
	m.events = m.store.List()
	if m.cursor >= len(m.events) {
		m.cursor = len(m.events) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Init is a no-op; the app drives reloads.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.events)-1 {
			m.cursor++
		}

	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, m.keys.ToggleDone):
		if m.cursor < len(m.events) {
			m.store.MarkRead(m.events[m.cursor].ID)
			m.Reload()
		}

	case key.Matches(keyMsg, m.keys.Delete):
		if m.cursor < len(m.events) {
			m.store.Remove(m.events[m.cursor].ID)
			m.Reload()
		}

	case keyMsg.String() == "C":
		m.store.Clear()
		m.Reload()
	}

	return m, nil
}

// View renders the panel.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render(
		fmt.Sprintf("Notifications (%d unread)", m.store.UnreadCount()),
	)

	var body string
	if len(m.events) == 0 {
		body = theme.HelpStyle.Render("No notifications.")
	} else {
		now := time.Now()
		lines := make([]string, 0, len(m.events))
		for i, ev := range m.events {
			lines = append(lines, m.renderEvent(ev, i == m.cursor, now))
		}
		body = strings.Join(lines, "\n")
	}

	hints := theme.HelpStyle.Render("x mark read · d dismiss · C clear all · esc back")

	content := lipgloss.JoinVertical(lipgloss.Left, title, body, "", hints)

	return theme.BorderStyle.
		Padding(1, 2).
		Width(m.width - 4).
		Render(content)
}

// renderEvent draws one notification line: icon, message, task title,
// deadline, and relative age. Unread events are bold.
func (m Model) renderEvent(ev model.Event, selected bool, now time.Time) string {
	msg := theme.EventStyle(string(ev.Type)).Render(ev.Message)

	deadline := ev.Task.Date
	if ev.Task.Time != "" {
		deadline += " " + ev.Task.Time
	}

	age := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(taskdate.Ago(ev.Timestamp, now))

	line := fmt.Sprintf(
		"%s %s %s (%s)  %s",
		eventIcon(ev.Type), msg, ev.Task.Title, deadline, age,
	)

	if !ev.IsRead {
		line = lipgloss.NewStyle().Bold(true).Render(line)
	} else {
		line = lipgloss.NewStyle().Foreground(theme.ColorGray).Render(line)
	}

	if selected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

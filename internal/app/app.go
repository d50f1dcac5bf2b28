// Package app is the root Bubble Tea model: view routing, key handling,
// and the glue between the repositories, the watcher, and the syncer.
package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskflow/internal/keys"
	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/notify"
	"github.com/nhle/taskflow/internal/repo"
	appsync "github.com/nhle/taskflow/internal/sync"
	"github.com/nhle/taskflow/internal/ui"
	helpview "github.com/nhle/taskflow/internal/ui/help"
	"github.com/nhle/taskflow/internal/ui/notifpanel"
	"github.com/nhle/taskflow/internal/ui/taskform"
	"github.com/nhle/taskflow/internal/ui/tasklist"
	"github.com/nhle/taskflow/internal/watch"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewForm
	ViewNotifications
	ViewHelp
)

// tasksChangedMsg signals that the task repository changed.
type tasksChangedMsg struct{}

// alertsChangedMsg signals that the notification store changed.
type alertsChangedMsg struct{}

// Model is the root Bubble Tea model.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout

	repo    *repo.TaskRepository
	alerts  *notify.Repository
	syncer  *appsync.Syncer
	watcher *watch.Watcher
	keys    *keys.KeyMap

	taskList   tasklist.Model
	notifPanel notifpanel.Model
	formView   taskform.Model
	helpView   helpview.Model

	// Channels bridging repository callbacks into tea messages.
	taskCh  chan struct{}
	alertCh chan struct{}

	cancelWatch context.CancelFunc

	ready            bool
	alertsEnabled    bool
	authErrorMessage string
	statusMessage    string
}

// New creates the root application model and wires change observation.
func New(
	r *repo.TaskRepository,
	alerts *notify.Repository,
	syncer *appsync.Syncer,
	watcher *watch.Watcher,
	alertsEnabled bool,
) *Model {
	k := keys.DefaultKeyMap()

	m := &Model{
		currentView:   ViewList,
		repo:          r,
		alerts:        alerts,
		syncer:        syncer,
		watcher:       watcher,
		keys:          k,
		taskList:      tasklist.New(r, k, 80, 24),
		notifPanel:    notifpanel.New(alerts, k, 80, 24),
		formView:      taskform.New(80, 24),
		helpView:      helpview.New(k, 80, 24),
		taskCh:        make(chan struct{}, 1),
		alertCh:       make(chan struct{}, 1),
		alertsEnabled: alertsEnabled,
	}

	r.OnChange(func() { signal(m.taskCh) })
	alerts.OnChange(func() { signal(m.alertCh) })

	return m
}

// signal performs a non-blocking send; a change already queued is enough.
func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Init starts the deadline watcher goroutine, the background syncer, and
// the change subscriptions.
func (m *Model) Init() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelWatch = cancel
	go m.watcher.Run(ctx)

	return tea.Batch(
		m.syncer.Start(),
		m.syncer.FetchTags(),
		m.waitForTasks(),
		m.waitForAlerts(),
	)
}

// waitForTasks re-arms the repository change subscription.
func (m *Model) waitForTasks() tea.Cmd {
	ch := m.taskCh
	return func() tea.Msg {
		<-ch
		return tasksChangedMsg{}
	}
}

// waitForAlerts re-arms the notification change subscription.
func (m *Model) waitForAlerts() tea.Cmd {
	ch := m.alertCh
	return func() tea.Msg {
		<-ch
		return alertsChangedMsg{}
	}
}

// shutdown stops the background machinery before quitting.
func (m *Model) shutdown() {
	m.syncer.Stop()
	if m.cancelWatch != nil {
		m.cancelWatch()
	}
}

// Update handles messages and dispatches to the active view.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.taskList.SetSize(contentWidth, contentHeight)
		m.notifPanel.SetSize(contentWidth, contentHeight)
		m.formView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		// Forward to the active view so huh forms can compute their layout.
		return m.updateActiveView(msg)

	case tasksChangedMsg:
		m.taskList.Reload()
		// A changed task set may cross a deadline threshold right away.
		m.watcher.Trigger()
		return m, m.waitForTasks()

	case alertsChangedMsg:
		m.notifPanel.Reload()
		return m, m.waitForAlerts()

	case appsync.SyncResultMsg:
		if msg.AuthError != nil {
			m.authErrorMessage = msg.AuthError.Message
		} else if msg.Error == nil {
			m.authErrorMessage = ""
		}
		return m, m.syncer.WaitForNextResult()

	case appsync.MutationDoneMsg:
		if msg.Error != nil {
			m.statusMessage = fmt.Sprintf("%s failed: %v (change undone)", msg.Op, msg.Error)
		} else {
			m.statusMessage = ""
		}
		return m, nil

	case appsync.TagsMsg:
		if msg.Error == nil {
			m.formView.SetTags(msg.Tags)
		}
		return m, nil

	case taskform.TaskSubmittedMsg:
		m.currentView = ViewList
		if msg.Edit {
			return m, m.applyEdit(msg.Task)
		}
		return m, m.syncer.Create(msg.Task)

	case taskform.TextSubmittedMsg:
		m.currentView = ViewList
		return m, m.syncer.CreateFromText(msg.Text)

	case taskform.CancelMsg:
		m.currentView = ViewList
		return m, nil

	case tea.KeyMsg:
		if handled, mdl, cmd := m.handleGlobalKeys(msg); handled {
			return mdl, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that work regardless of the active view,
// plus the list view's action keys. Form input is never intercepted.
func (m *Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if m.currentView == ViewForm {
		// Only ctrl+c escapes a form; esc is huh's abort.
		if msg.String() == "ctrl+c" {
			m.shutdown()
			return true, m, tea.Quit
		}
		return false, m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		m.shutdown()
		return true, m, tea.Quit

	case "q":
		if m.currentView == ViewList {
			m.shutdown()
			return true, m, tea.Quit
		}

	case "esc":
		if m.currentView != ViewList {
			m.currentView = ViewList
			return true, m, nil
		}

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return true, m, nil

	case "N":
		if !m.alertsEnabled {
			return true, m, nil
		}
		if m.currentView == ViewNotifications {
			m.currentView = ViewList
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewNotifications
		m.notifPanel.Reload()
		return true, m, nil

	case "b":
		// Display toggle only: events keep accumulating while hidden.
		m.alertsEnabled = !m.alertsEnabled
		if !m.alertsEnabled && m.currentView == ViewNotifications {
			m.currentView = ViewList
		}
		return true, m, nil

	case "r":
		if m.currentView == ViewList {
			m.statusMessage = ""
			return true, m, m.syncer.Refresh()
		}

	case "n":
		if m.currentView == ViewList {
			m.previousView = m.currentView
			m.currentView = ViewForm
			return true, m, m.formView.StartCreate(m.taskList.Date())
		}

	case "e":
		if m.currentView == ViewList {
			if t, ok := m.selectedTask(); ok {
				m.previousView = m.currentView
				m.currentView = ViewForm
				return true, m, m.formView.StartEdit(t)
			}
		}

	case "i":
		if m.currentView == ViewList {
			m.previousView = m.currentView
			m.currentView = ViewForm
			return true, m, m.formView.StartQuickAdd()
		}

	case "x":
		if m.currentView == ViewList {
			if id := m.taskList.SelectedTaskID(); id != "" {
				return true, m, m.syncer.ToggleDone(id)
			}
		}

	case "d":
		if m.currentView == ViewList {
			if id := m.taskList.SelectedTaskID(); id != "" {
				return true, m, m.syncer.Delete(id)
			}
		}

	case "m":
		if m.currentView == ViewList {
			if id := m.taskList.SelectedTaskID(); id != "" {
				return true, m, m.syncer.MoveToTomorrow(id)
			}
		}
	}

	return false, m, nil
}

// selectedTask fetches the focused task from the repository.
func (m *Model) selectedTask() (model.Task, bool) {
	id := m.taskList.SelectedTaskID()
	if id == "" {
		return model.Task{}, false
	}
	t, err := m.repo.Get(id)
	if err != nil {
		return model.Task{}, false
	}
	return t, true
}

// applyEdit updates a task's fields locally. The backend exposes no field
// update endpoint; the edit holds until the next fetch.
func (m *Model) applyEdit(t model.Task) tea.Cmd {
	r := m.repo
	return func() tea.Msg {
		_, err := r.Update(t.ID, repo.Patch{
			Title:    &t.Title,
			Date:     &t.Date,
			Time:     &t.Time,
			Priority: &t.Priority,
			Duration: &t.Duration,
			Tags:     &t.Tags,
		})
		return appsync.MutationDoneMsg{Op: "edit", TaskID: t.ID, Error: err}
	}
}

// updateActiveView dispatches the message to the currently active view.
func (m *Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewForm:
		m.formView, cmd = m.formView.Update(msg)
	case ViewNotifications:
		m.notifPanel, cmd = m.notifPanel.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("TaskFlow", m.unreadBadge(), m.syncStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.alertMessage())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// unreadBadge returns the unread count for the header bell, zero while the
// bell is toggled off. Display-only; hiding it never stops event collection.
func (m *Model) unreadBadge() int {
	if !m.alertsEnabled {
		return 0
	}
	return m.alerts.UnreadCount()
}

// alertMessage returns the status bar override: the auth error first, then
// the last rolled-back mutation. Only the list view shows overrides.
func (m *Model) alertMessage() string {
	if m.currentView != ViewList {
		return ""
	}
	if m.authErrorMessage != "" {
		return m.authErrorMessage
	}
	return m.statusMessage
}

// renderContent returns the rendered string for the current active view.
func (m *Model) renderContent() string {
	switch m.currentView {
	case ViewForm:
		return m.formView.View()
	case ViewNotifications:
		return m.notifPanel.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return m.taskList.View()
	}
}

// syncStatus returns a short string describing the sync loop state.
func (m *Model) syncStatus() string {
	state, lastSync, _ := m.syncer.Status()
	switch state {
	case appsync.SyncRunning:
		return "syncing"
	case appsync.SyncError:
		return "⚠ offline"
	default:
		if lastSync.IsZero() {
			return "idle"
		}
		return "synced " + lastSync.Format("15:04")
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m *Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewForm:
		return "enter submit | esc cancel"
	case ViewNotifications:
		return "x mark read | d dismiss | C clear | esc back"
	default:
		return "q quit | ? help | n new | i quick add | x done | m tomorrow | N alerts"
	}
}

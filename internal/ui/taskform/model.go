// Package taskform is the create/edit form for tasks, plus the one-line
// quick-add input that sends free text to the backend parser.
package taskform

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/taskdate"
	"github.com/nhle/taskflow/internal/theme"
)

// TaskSubmittedMsg is dispatched when the form completes with a full task.
type TaskSubmittedMsg struct {
	Task model.Task
	Edit bool
}

// TextSubmittedMsg is dispatched when the quick-add input completes.
type TextSubmittedMsg struct {
	Text string
}

// CancelMsg is dispatched when the user abandons the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title    string
	date     string
	clock    string
	priority int
	duration string
	tags     []string
	text     string
}

// Model is the Bubble Tea model for the task form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	textMode bool
	editID   string
	allTags  []string
	width    int
	height   int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{priority: 3},
		width:  width,
		height: height,
	}
}

// SetTags sets the tag labels offered by the form's picker.
func (m *Model) SetTags(tags []string) {
	m.allTags = tags
}

// StartCreate initializes the form for a new task dated on date.
func (m *Model) StartCreate(date string) tea.Cmd {
	m.editMode = false
	m.textMode = false
	m.editID = ""
	m.fb.title = ""
	m.fb.date = date
	m.fb.clock = ""
	m.fb.priority = 3
	m.fb.duration = ""
	m.fb.tags = nil
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form with an existing task's fields.
func (m *Model) StartEdit(t model.Task) tea.Cmd {
	m.editMode = true
	m.textMode = false
	m.editID = t.ID
	m.fb.title = t.Title
	m.fb.date = t.Date
	m.fb.clock = t.Time
	m.fb.priority = t.Priority
	if t.Duration > 0 {
		m.fb.duration = strconv.Itoa(t.Duration)
	} else {
		m.fb.duration = ""
	}
	m.fb.tags = append([]string(nil), t.Tags...)
	m.form = m.buildForm()
	return m.form.Init()
}

// StartQuickAdd initializes the free-text input. The backend parses the
// text into a task.
func (m *Model) StartQuickAdd() tea.Cmd {
	m.editMode = false
	m.textMode = true
	m.fb.text = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Quick add").
				Placeholder("明日の15時に資料提出…").
				Value(&m.fb.text).
				Validate(validateRequired("Text")),
		),
	).WithWidth(m.formWidth())
	return m.form.Init()
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task"
	if m.editMode {
		titleText = "Edit Task"
	}
	if m.textMode {
		titleText = "Quick Add"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What needs to be done?").
			Value(&m.fb.title).
			Validate(validateRequired("Title")),
		huh.NewInput().
			Title("Date").
			Placeholder("YYYY-MM-DD").
			Value(&m.fb.date).
			Validate(validateDate),
		huh.NewInput().
			Title("Time").
			Placeholder("HH:MM (optional, blank = end of day)").
			Value(&m.fb.clock).
			Validate(validateOptionalTime),
		huh.NewSelect[int]().
			Title("Priority").
			Options(
				huh.NewOption("P5 - Highest", 5),
				huh.NewOption("P4 - High", 4),
				huh.NewOption("P3 - Medium", 3),
				huh.NewOption("P2 - Low", 2),
				huh.NewOption("P1 - Lowest", 1),
			).
			Value(&m.fb.priority),
		huh.NewInput().
			Title("Estimated minutes").
			Placeholder("optional").
			Value(&m.fb.duration).
			Validate(validateOptionalMinutes),
	}
	if tagField := m.tagField(); tagField != nil {
		fields = append(fields, tagField)
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) tagField() huh.Field {
	if len(m.allTags) == 0 {
		return nil
	}
	opts := make([]huh.Option[string], len(m.allTags))
	for i, t := range m.allTags {
		opts[i] = huh.NewOption(t, t)
	}
	return huh.NewMultiSelect[string]().
		Title("Tags").
		Options(opts...).
		Value(&m.fb.tags)
}

func (m Model) handleSubmit() tea.Cmd {
	if m.textMode {
		text := strings.TrimSpace(m.fb.text)
		return func() tea.Msg { return TextSubmittedMsg{Text: text} }
	}

	duration := 0
	if s := strings.TrimSpace(m.fb.duration); s != "" {
		duration, _ = strconv.Atoi(s)
	}

	task := model.Task{
		Title:    strings.TrimSpace(m.fb.title),
		Date:     strings.TrimSpace(m.fb.date),
		Time:     strings.TrimSpace(m.fb.clock),
		Priority: m.fb.priority,
		Duration: duration,
		Tags:     m.fb.tags,
	}

	edit := m.editMode
	if edit {
		task.ID = m.editID
	}
	return func() tea.Msg { return TaskSubmittedMsg{Task: task, Edit: edit} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateDate(s string) error {
	if _, err := taskdate.ParseDate(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

func validateOptionalTime(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(taskdate.TimeLayout, s); err != nil {
		return fmt.Errorf("invalid time format, use HH:MM")
	}
	return nil
}

func validateOptionalMinutes(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > 1440 {
		return fmt.Errorf("minutes must be between 1 and 1440")
	}
	return nil
}

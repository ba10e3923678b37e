// Package ui provides the optional interactive terminal session.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/todoapp/todoapp-go/internal/store"
	"github.com/todoapp/todoapp-go/internal/task"
	"github.com/todoapp/todoapp-go/internal/theme"
)

// Run starts the interactive session against the task file at path.
func Run(ctx context.Context, path string, palette theme.Palette) error {
	if !IsTTY(os.Stdout) {
		return task.Errorf(task.CodeInvalidInput, "interactive mode requires a terminal")
	}
	model := newSessionModel(path, palette, time.Now)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := program.Run()
	if err != nil {
		return task.Errorf(task.CodeIO, "interactive session: %v", err)
	}
	if m, ok := finalModel.(*sessionModel); ok && m.fatalErr != nil {
		return m.fatalErr
	}
	return nil
}

type sessionModel struct {
	path    string
	palette theme.Palette
	now     func() time.Time

	col      *store.Collection
	cursor   int
	adding   bool
	input    textinput.Model
	status   string
	fatalErr error
}

func newSessionModel(path string, palette theme.Palette, now func() time.Time) *sessionModel {
	input := textinput.New()
	input.Placeholder = "task title"
	input.CharLimit = 200
	return &sessionModel{
		path:    path,
		palette: palette,
		now:     now,
		input:   input,
	}
}

func (m *sessionModel) Init() tea.Cmd {
	m.refresh()
	return nil
}

func (m *sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.adding {
		return m.updateAdding(keyMsg)
	}

	switch keyMsg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "a":
		m.adding = true
		m.input.SetValue("")
		m.input.Focus()
		m.status = ""
		return m, textinput.Blink
	case "j", "down":
		if m.cursor < len(m.open())-1 {
			m.cursor++
		}
		return m, nil
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "d":
		m.completeSelected()
		return m, nil
	case "f":
		m.toggleSelected(func(t task.Task) task.Task { return t.SetFocus(!t.Focused) })
		return m, nil
	case "u":
		m.toggleSelected(func(t task.Task) task.Task { return t.SetUrgent(!t.Urgent) })
		return m, nil
	case "r":
		m.refresh()
		return m, nil
	}
	return m, nil
}

func (m *sessionModel) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.adding = false
		m.input.Blur()
		return m, nil
	case "enter":
		m.adding = false
		m.input.Blur()
		m.addTask(m.input.Value())
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *sessionModel) View() string {
	var b strings.Builder
	title := "todoapp"
	b.WriteString(m.palette.Accentize(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")

	if m.fatalErr != nil {
		b.WriteString("Error: " + m.fatalErr.Error() + "\n")
		return b.String()
	}

	open := m.open()
	if len(open) == 0 {
		b.WriteString("  No open tasks.\n")
	}
	for i, t := range open {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		flags := ""
		if t.Urgent {
			flags += " [urgent]"
		}
		if t.Focused {
			flags += " [focus]"
		}
		scheduled := ""
		if t.ScheduledAt != nil {
			scheduled = " @ " + m.palette.Mutedize(t.ScheduledAt.Format(time.RFC3339))
		}
		b.WriteString(fmt.Sprintf("%s%d %s%s%s\n", marker, t.ID, t.Title, flags, scheduled))
	}
	b.WriteString("\n")

	if m.adding {
		b.WriteString("Add: " + m.input.View() + "\n")
		b.WriteString("enter to save, esc to cancel\n")
	} else {
		b.WriteString("a add | d done | f focus | u urgent | j/k move | r reload | q quit\n")
	}
	if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	return b.String()
}

// open returns the open tasks in display order, focused first.
func (m *sessionModel) open() []task.Task {
	if m.col == nil {
		return nil
	}
	var out []task.Task
	for _, t := range store.PromoteFocused(m.col.Tasks()) {
		if t.Status == task.StatusOpen {
			out = append(out, t)
		}
	}
	return out
}

func (m *sessionModel) selected() (task.Task, bool) {
	open := m.open()
	if m.cursor < 0 || m.cursor >= len(open) {
		return task.Task{}, false
	}
	return open[m.cursor], true
}

func (m *sessionModel) refresh() {
	col, err := store.Load(m.path)
	if err != nil {
		m.fatalErr = err
		m.col = nil
		return
	}
	m.fatalErr = nil
	m.col = col
	m.clampCursor()
}

func (m *sessionModel) clampCursor() {
	if n := len(m.open()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *sessionModel) addTask(title string) {
	if m.col == nil {
		return
	}
	t, err := task.New(m.col.NextID(), title, m.now())
	if err != nil {
		m.status = err.Error()
		return
	}
	m.col.Upsert(t)
	m.persist(fmt.Sprintf("added %d", t.ID))
}

func (m *sessionModel) completeSelected() {
	t, ok := m.selected()
	if !ok {
		return
	}
	done, err := t.MarkDone("", m.now())
	if err != nil {
		m.status = err.Error()
		return
	}
	m.col.Upsert(done)
	m.persist(fmt.Sprintf("completed %d", t.ID))
	m.clampCursor()
}

func (m *sessionModel) toggleSelected(change func(task.Task) task.Task) {
	t, ok := m.selected()
	if !ok {
		return
	}
	m.col.Upsert(change(t))
	m.persist(fmt.Sprintf("updated %d", t.ID))
}

func (m *sessionModel) persist(status string) {
	err := store.WithLock(m.path, func() error {
		return store.Save(m.path, m.col)
	})
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = status
}

// IsTTY reports whether w is attached to a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

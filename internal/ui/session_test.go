package ui

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/todoapp/todoapp-go/internal/store"
	"github.com/todoapp/todoapp-go/internal/task"
	"github.com/todoapp/todoapp-go/internal/theme"
)

func fixedNow() time.Time {
	return time.Date(2025, 12, 20, 10, 0, 0, 0, time.UTC)
}

func seedStore(t *testing.T, titles ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.json")
	col := store.NewCollection()
	for _, title := range titles {
		tk, err := task.New(col.NextID(), title, fixedNow())
		if err != nil {
			t.Fatal(err)
		}
		col.Upsert(tk)
	}
	if err := store.Save(path, col); err != nil {
		t.Fatal(err)
	}
	return path
}

func startSession(t *testing.T, path string) *sessionModel {
	t.Helper()
	m := newSessionModel(path, theme.ForName("default"), fixedNow)
	m.Init()
	if m.fatalErr != nil {
		t.Fatalf("session failed to load: %v", m.fatalErr)
	}
	return m
}

func press(m *sessionModel, key string) *sessionModel {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(*sessionModel)
}

func typeText(m *sessionModel, text string) *sessionModel {
	for _, r := range text {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(*sessionModel)
	}
	return m
}

func TestSessionQuit(t *testing.T) {
	m := startSession(t, seedStore(t, "one"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("q produced %T, want tea.QuitMsg", cmd())
	}
}

func TestSessionAddPersists(t *testing.T) {
	path := seedStore(t, "existing")
	m := startSession(t, path)

	m = press(m, "a")
	if !m.adding {
		t.Fatal("a should enter add mode")
	}
	m = typeText(m, "new one")
	m = press(m, "enter")
	if m.adding {
		t.Fatal("enter should leave add mode")
	}

	col, err := store.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	added, err := col.Find(2)
	if err != nil {
		t.Fatalf("added task not persisted: %v", err)
	}
	if added.Title != "new one" {
		t.Errorf("title: got %q", added.Title)
	}
}

func TestSessionAddEscCancels(t *testing.T) {
	path := seedStore(t, "existing")
	m := startSession(t, path)

	m = press(m, "a")
	m = typeText(m, "discard me")
	m = press(m, "esc")

	col, err := store.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if col.Len() != 1 {
		t.Errorf("esc should not persist, store has %d tasks", col.Len())
	}
}

func TestSessionCompleteSelected(t *testing.T) {
	path := seedStore(t, "first", "second")
	m := startSession(t, path)

	m = press(m, "j")
	m = press(m, "d")

	col, err := store.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	done, err := col.Find(2)
	if err != nil {
		t.Fatal(err)
	}
	if done.Status != task.StatusDone {
		t.Errorf("second task should be done, got %s", done.Status)
	}
	first, _ := col.Find(1)
	if first.Status != task.StatusOpen {
		t.Errorf("first task should stay open, got %s", first.Status)
	}
	// The completed task leaves the list, so only one row remains.
	if got := len(m.open()); got != 1 {
		t.Errorf("open rows: got %d, want 1", got)
	}
}

func TestSessionToggleUrgentAndFocus(t *testing.T) {
	path := seedStore(t, "only")
	m := startSession(t, path)

	m = press(m, "u")
	m = press(m, "f")

	col, err := store.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := col.Find(1)
	if !got.Urgent || !got.Focused {
		t.Errorf("urgent=%v focused=%v, want both true", got.Urgent, got.Focused)
	}
}

func TestSessionCursorBounds(t *testing.T) {
	m := startSession(t, seedStore(t, "a", "b"))

	m = press(m, "k")
	if m.cursor != 0 {
		t.Errorf("cursor moved above top: %d", m.cursor)
	}
	m = press(m, "j")
	m = press(m, "j")
	m = press(m, "j")
	if m.cursor != 1 {
		t.Errorf("cursor moved past bottom: %d", m.cursor)
	}
}

func TestSessionViewListsFocusedFirst(t *testing.T) {
	path := seedStore(t, "plain", "starred")
	col, err := store.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	starred, _ := col.Find(2)
	col.Upsert(starred.SetFocus(true))
	if err := store.Save(path, col); err != nil {
		t.Fatal(err)
	}

	m := startSession(t, path)
	view := m.View()
	if !strings.Contains(view, "[focus]") {
		t.Errorf("view missing focus flag:\n%s", view)
	}
	if strings.Index(view, "starred") > strings.Index(view, "plain") {
		t.Errorf("focused task should list first:\n%s", view)
	}
}

func TestIsTTYRejectsBuffer(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("a bytes.Buffer is not a terminal")
	}
}

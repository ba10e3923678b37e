package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/todoapp/todoapp-go/internal/task"
	"github.com/todoapp/todoapp-go/internal/theme"
)

func sampleTask(t *testing.T) task.Task {
	t.Helper()
	tk, err := task.New(1, "Buy milk", time.Date(2025, 12, 20, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	return tk
}

func plainRenderer(buf *bytes.Buffer, jsonOut bool) *Renderer {
	return &Renderer{Out: buf, JSON: jsonOut, Palette: theme.ForName("default")}
}

func TestTasksPlain(t *testing.T) {
	var buf bytes.Buffer
	r := plainRenderer(&buf, false)

	tk := sampleTask(t)
	if err := r.Tasks([]task.Task{tk}); err != nil {
		t.Fatalf("Tasks failed: %v", err)
	}

	line := strings.TrimSpace(buf.String())
	want := "1 | Buy milk | open | 2025-12-20T10:00:00Z | -"
	if line != want {
		t.Errorf("line: got %q, want %q", line, want)
	}
}

func TestTasksPlainMarksFocused(t *testing.T) {
	var buf bytes.Buffer
	r := plainRenderer(&buf, false)

	if err := r.Tasks([]task.Task{sampleTask(t).SetFocus(true)}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "* ") {
		t.Errorf("focused task should carry a marker, got %q", buf.String())
	}
}

func TestTasksJSON(t *testing.T) {
	var buf bytes.Buffer
	r := plainRenderer(&buf, true)

	scheduled := sampleTask(t).SetSchedule(time.Date(2025, 12, 22, 9, 0, 0, 0, time.UTC))
	if err := r.Tasks([]task.Task{scheduled, sampleTask(t)}); err != nil {
		t.Fatalf("Tasks failed: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if len(decoded) != 2 {
		t.Fatalf("got %d entries, want 2", len(decoded))
	}
	if decoded[0]["scheduled_at"] != "2025-12-22T09:00:00Z" {
		t.Errorf("scheduled_at: got %v", decoded[0]["scheduled_at"])
	}
	if v, present := decoded[1]["scheduled_at"]; !present || v != nil {
		t.Errorf("unscheduled task must carry scheduled_at: null, got %v (present=%v)", v, present)
	}
}

func TestCompletedTaskJSON(t *testing.T) {
	var buf bytes.Buffer
	r := plainRenderer(&buf, true)

	done, err := sampleTask(t).MarkDone("bought from local store", time.Date(2025, 12, 21, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.CompletedTask(done, "Completed task: %s (%d)"); err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["completed_at"] != "2025-12-21T08:00:00Z" {
		t.Errorf("completed_at: got %v", decoded["completed_at"])
	}
	if decoded["completion_note"] != "bought from local store" {
		t.Errorf("completion_note: got %v", decoded["completion_note"])
	}
	history, ok := decoded["completion_history"].([]any)
	if !ok || len(history) != 1 {
		t.Errorf("completion_history: got %v", decoded["completion_history"])
	}
}

func TestTaskPlainMessage(t *testing.T) {
	var buf bytes.Buffer
	r := plainRenderer(&buf, false)

	if err := r.Task(sampleTask(t), "Added task: %s (%d)"); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "Added task: Buy milk (1)\n" {
		t.Errorf("got %q", got)
	}
}

func TestScheduledTaskPlainMessage(t *testing.T) {
	var buf bytes.Buffer
	r := plainRenderer(&buf, false)

	scheduled := sampleTask(t).SetSchedule(time.Date(2025, 12, 21, 9, 0, 0, 0, time.UTC))
	if err := r.ScheduledTask(scheduled, "Rescheduled task: %s (%d) at %s"); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "Rescheduled task: Buy milk (1) at 2025-12-21T09:00:00Z\n" {
		t.Errorf("got %q", got)
	}
}

func TestDetailPlain(t *testing.T) {
	var buf bytes.Buffer
	r := plainRenderer(&buf, false)

	done, err := sampleTask(t).MarkDone("done", time.Date(2025, 12, 21, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Detail(done); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"Task 1", "Status:    done", "Completed: 2025-12-21T08:00:00Z", "Note:      done"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail output missing %q:\n%s", want, out)
		}
	}
}

func TestErrorLine(t *testing.T) {
	var buf bytes.Buffer
	ErrorLine(&buf, task.Errorf(task.CodeNotFound, "task 9 not found"))
	if got := buf.String(); got != "ERROR: not_found - task 9 not found\n" {
		t.Errorf("got %q", got)
	}
}

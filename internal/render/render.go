// Package render formats tasks and errors for the terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/todoapp/todoapp-go/internal/task"
	"github.com/todoapp/todoapp-go/internal/theme"
)

// Renderer writes command output. A single invocation produces either plain
// text or JSON, never both.
type Renderer struct {
	Out     io.Writer
	JSON    bool
	Palette theme.Palette
}

// taskPayload is the stable JSON shape for one task in list output.
// scheduled_at is always present (null when unscheduled) so consumers can
// rely on the key.
type taskPayload struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Status      task.Status `json:"status"`
	Urgent      bool        `json:"urgent"`
	Focused     bool        `json:"focused"`
	CreatedAt   time.Time   `json:"created_at"`
	ScheduledAt *time.Time  `json:"scheduled_at"`
}

// completedPayload extends taskPayload with completion details.
type completedPayload struct {
	taskPayload
	CompletedAt       *time.Time             `json:"completed_at"`
	CompletionNote    string                 `json:"completion_note,omitempty"`
	CompletionHistory []task.CompletionEntry `json:"completion_history"`
}

func payload(t task.Task) taskPayload {
	return taskPayload{
		ID:          t.ID,
		Title:       t.Title,
		Status:      t.Status,
		Urgent:      t.Urgent,
		Focused:     t.Focused,
		CreatedAt:   t.CreatedAt,
		ScheduledAt: t.ScheduledAt,
	}
}

func (r *Renderer) encode(v any) error {
	enc := json.NewEncoder(r.Out)
	return enc.Encode(v)
}

// Encode writes an arbitrary payload as a single JSON document.
func (r *Renderer) Encode(v any) error { return r.encode(v) }

// Tasks writes a task listing: one line per task, or a JSON array.
func (r *Renderer) Tasks(tasks []task.Task) error {
	if r.JSON {
		payloads := make([]taskPayload, 0, len(tasks))
		for _, t := range tasks {
			payloads = append(payloads, payload(t))
		}
		return r.encode(payloads)
	}
	for _, t := range tasks {
		if _, err := fmt.Fprintln(r.Out, r.taskLine(t)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) taskLine(t task.Task) string {
	scheduled := "-"
	if t.ScheduledAt != nil {
		scheduled = t.ScheduledAt.Format(time.RFC3339)
	}
	marker := ""
	if t.Focused {
		marker = r.Palette.Accentize("*") + " "
	}
	return fmt.Sprintf("%s%d | %s | %s | %s | %s",
		marker,
		t.ID,
		r.Palette.Accentize(t.Title),
		string(t.Status),
		r.Palette.Mutedize(t.CreatedAt.Format(time.RFC3339)),
		r.Palette.Mutedize(scheduled),
	)
}

// Task writes the summary payload for one task, or a plain message built by
// format with the task's title and id appended ("Added task: %s (%d)").
func (r *Renderer) Task(t task.Task, format string) error {
	if r.JSON {
		return r.encode(payload(t))
	}
	_, err := fmt.Fprintf(r.Out, format+"\n", t.Title, t.ID)
	return err
}

// ScheduledTask writes the summary payload, or a plain message built by
// format with the task's title, id, and scheduled time appended
// ("Scheduled task: %s (%d) at %s").
func (r *Renderer) ScheduledTask(t task.Task, format string) error {
	if r.JSON {
		return r.encode(payload(t))
	}
	at := "-"
	if t.ScheduledAt != nil {
		at = t.ScheduledAt.Format(time.RFC3339)
	}
	_, err := fmt.Fprintf(r.Out, format+"\n", t.Title, t.ID, at)
	return err
}

// CompletedTask writes the full payload including completion details.
func (r *Renderer) CompletedTask(t task.Task, format string) error {
	if r.JSON {
		p := completedPayload{
			taskPayload:       payload(t),
			CompletedAt:       t.CompletedAt,
			CompletionNote:    t.CompletionNote,
			CompletionHistory: t.CompletionHistory,
		}
		if p.CompletionHistory == nil {
			p.CompletionHistory = []task.CompletionEntry{}
		}
		return r.encode(p)
	}
	_, err := fmt.Fprintf(r.Out, format+"\n", t.Title, t.ID)
	return err
}

// Detail writes the multi-line view used by the show command.
func (r *Renderer) Detail(t task.Task) error {
	if r.JSON {
		return r.CompletedTask(t, "")
	}

	yesNo := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}
	optional := func(ts *time.Time) string {
		if ts == nil {
			return "-"
		}
		return ts.Format(time.RFC3339)
	}

	fmt.Fprintf(r.Out, "%s %d\n", r.Palette.Accentize("Task"), t.ID)
	fmt.Fprintf(r.Out, "  Title:     %s\n", t.Title)
	fmt.Fprintf(r.Out, "  Status:    %s\n", string(t.Status))
	fmt.Fprintf(r.Out, "  Urgent:    %s\n", yesNo(t.Urgent))
	fmt.Fprintf(r.Out, "  Focused:   %s\n", yesNo(t.Focused))
	fmt.Fprintf(r.Out, "  Created:   %s\n", r.Palette.Mutedize(t.CreatedAt.Format(time.RFC3339)))
	fmt.Fprintf(r.Out, "  Scheduled: %s\n", r.Palette.Mutedize(optional(t.ScheduledAt)))
	if t.Status == task.StatusDone {
		fmt.Fprintf(r.Out, "  Completed: %s\n", r.Palette.Mutedize(optional(t.CompletedAt)))
		if t.CompletionNote != "" {
			fmt.Fprintf(r.Out, "  Note:      %s\n", t.CompletionNote)
		}
	}
	for _, entry := range t.CompletionHistory {
		fmt.Fprintf(r.Out, "  History:   %s (%s)\n", entry.Message, r.Palette.Mutedize(entry.CompletedAt.Format(time.RFC3339)))
	}
	return nil
}

// ErrorLine writes the single user-visible failure line.
func ErrorLine(w io.Writer, err error) {
	fmt.Fprintf(w, "ERROR: %s - %s\n", task.CodeOf(err), task.MessageOf(err))
}

// Package task defines the task entity and its state transitions.
package task

import (
	"slices"
	"strings"
	"time"
)

// Status represents a task lifecycle state.
type Status string

const (
	StatusOpen Status = "open"
	StatusDone Status = "done"
)

// CompletionEntry records one completion with its optional message.
type CompletionEntry struct {
	Message     string    `json:"message"`
	CompletedAt time.Time `json:"completed_at"`
}

// Task represents a single tracked task. All transition methods are pure:
// they return an updated copy and never touch the filesystem.
type Task struct {
	ID                int64             `json:"id"`
	Title             string            `json:"title"`
	Status            Status            `json:"status"`
	Urgent            bool              `json:"urgent"`
	Focused           bool              `json:"focused"`
	CreatedAt         time.Time         `json:"created_at"`
	ScheduledAt       *time.Time        `json:"scheduled_at,omitempty"`
	CompletedAt       *time.Time        `json:"completed_at,omitempty"`
	CompletionNote    string            `json:"completion_note,omitempty"`
	CompletionHistory []CompletionEntry `json:"completion_history,omitempty"`
}

// New creates an open, unscheduled task. The caller supplies a unique id
// (see store.NextID) and the creation time.
func New(id int64, title string, now time.Time) (Task, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return Task{}, Errorf(CodeInvalidInput, "title is required")
	}
	return Task{
		ID:        id,
		Title:     trimmed,
		Status:    StatusOpen,
		CreatedAt: now.UTC(),
	}, nil
}

// MarkDone transitions an open task to done at the given time. An empty note
// means no completion message; a whitespace-only note is rejected so a typo
// does not silently record nothing. Completing an already-done task is a
// hard error, not a no-op.
func (t Task) MarkDone(note string, now time.Time) (Task, error) {
	if t.Status == StatusDone {
		return Task{}, Errorf(CodeInvalidTransition, "task %d is already completed", t.ID)
	}

	trimmed := strings.TrimSpace(note)
	if note != "" && trimmed == "" {
		return Task{}, Errorf(CodeInvalidInput, "completion message is empty")
	}

	completedAt := now.UTC()
	t.Status = StatusDone
	t.CompletedAt = &completedAt
	t.CompletionNote = trimmed
	if trimmed != "" {
		t.CompletionHistory = append(slices.Clone(t.CompletionHistory), CompletionEntry{
			Message:     trimmed,
			CompletedAt: completedAt,
		})
	}
	return t, nil
}

// Reopen transitions a done task back to open, clearing the completion
// timestamp and note. The completion history is kept as an audit trail.
func (t Task) Reopen() (Task, error) {
	if t.Status != StatusDone {
		return Task{}, Errorf(CodeInvalidTransition, "task %d is not completed", t.ID)
	}
	t.Status = StatusOpen
	t.CompletedAt = nil
	t.CompletionNote = ""
	return t, nil
}

// SetSchedule sets the scheduled time. Legal in any state; past-dated
// schedules are allowed so completed work can be backfilled.
func (t Task) SetSchedule(at time.Time) Task {
	scheduled := at.UTC()
	t.ScheduledAt = &scheduled
	return t
}

// ClearSchedule removes the scheduled time.
func (t Task) ClearSchedule() Task {
	t.ScheduledAt = nil
	return t
}

// SetUrgent sets or clears the urgency flag.
func (t Task) SetUrgent(urgent bool) Task {
	t.Urgent = urgent
	return t
}

// SetFocus sets or clears the focus highlight. Focus is independent of
// status and urgency, and any number of tasks may be focused.
func (t Task) SetFocus(focused bool) Task {
	t.Focused = focused
	return t
}

// Rename replaces the title, rejecting blank titles.
func (t Task) Rename(title string) (Task, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return Task{}, Errorf(CodeInvalidInput, "title is required")
	}
	t.Title = trimmed
	return t, nil
}

// Overdue reports whether the task is scheduled before ref. Unscheduled
// tasks are never overdue.
func (t Task) Overdue(ref time.Time) bool {
	return t.ScheduledAt != nil && t.ScheduledAt.Before(ref)
}

// Due reports whether the task is open and scheduled at or before ref.
func (t Task) Due(ref time.Time) bool {
	return t.Status == StatusOpen && t.ScheduledAt != nil && !t.ScheduledAt.After(ref)
}

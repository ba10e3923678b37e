// Package notify delivers desktop reminders for due and urgent tasks.
package notify

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/todoapp/todoapp-go/internal/task"
)

// EnvDisable, when set, turns all notification delivery into a no-op.
const EnvDisable = "TODOAPP_DISABLE_NOTIFICATIONS"

const actionPrefix = "show:"

// Notifier delivers a single task notification. The action argument, when
// non-empty, identifies the task to open if the user activates the
// notification.
type Notifier interface {
	Notify(t task.Task, action string) error
}

// Noop silently discards notifications.
type Noop struct{}

// Notify implements Notifier.
func (Noop) Notify(task.Task, string) error { return nil }

// Desktop shells out to notify-send. Linux only; delivery failures surface
// as io_error so the caller can report them per task.
type Desktop struct{}

// Notify implements Notifier.
func (Desktop) Notify(t task.Task, action string) error {
	args := []string{"todoapp", fmt.Sprintf("%s (%d)", t.Title, t.ID)}
	if strings.TrimSpace(action) != "" {
		args = append(args, "--hint", "string:x-todoapp-action:"+action)
	}
	if err := exec.Command("notify-send", args...).Run(); err != nil {
		return task.Errorf(task.CodeIO, "notify-send: %v", err)
	}
	return nil
}

// FromEnv selects the notifier for this process: Noop when notifications
// are disabled or the platform has no supported delivery mechanism.
func FromEnv() Notifier {
	if _, disabled := os.LookupEnv(EnvDisable); disabled {
		return Noop{}
	}
	if runtime.GOOS != "linux" {
		return Noop{}
	}
	if _, err := exec.LookPath("notify-send"); err != nil {
		return Noop{}
	}
	return Desktop{}
}

// ActivationArgument encodes a task id for notification activation.
func ActivationArgument(id int64) string {
	return fmt.Sprintf("%s%d", actionPrefix, id)
}

// ParseActivationArgument decodes an activation argument back to a task id.
func ParseActivationArgument(arg string) (int64, bool) {
	rest, ok := strings.CutPrefix(arg, actionPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Failure records one task whose notification could not be delivered.
type Failure struct {
	TaskID int64
	Err    error
}

// Outcome reports which tasks were notified and which deliveries failed.
type Outcome struct {
	Notified []task.Task
	Failures []Failure
}

// Dispatch notifies every open task that is overdue at ref or flagged
// urgent, in insertion order. A delivery failure is collected and does not
// stop the remaining notifications. The query has no side effects on the
// tasks: nothing is marked as notified, so repeated runs renotify until the
// user acts.
func Dispatch(n Notifier, tasks []task.Task, ref time.Time) Outcome {
	var out Outcome
	for _, t := range tasks {
		if t.Status != task.StatusOpen {
			continue
		}
		if !t.Overdue(ref) && !t.Urgent {
			continue
		}
		if err := n.Notify(t, ActivationArgument(t.ID)); err != nil {
			out.Failures = append(out.Failures, Failure{TaskID: t.ID, Err: err})
			continue
		}
		out.Notified = append(out.Notified, t)
	}
	return out
}

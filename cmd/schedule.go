package cmd

import (
	"fmt"
	"strings"

	"github.com/todoapp/todoapp-go/internal/notify"
	"github.com/todoapp/todoapp-go/internal/store"
	"github.com/todoapp/todoapp-go/internal/task"
	"github.com/todoapp/todoapp-go/internal/theme"
)

func (a *app) scheduleCommand(args []string) error {
	if len(args) != 2 {
		return task.Errorf(task.CodeInvalidInput, "schedule requires a task id and a datetime")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	at, err := parseDatetime(args[1])
	if err != nil {
		return err
	}

	scheduled, err := a.mutate(func(col *store.Collection) (task.Task, error) {
		t, err := col.Find(id)
		if err != nil {
			return task.Task{}, err
		}
		updated := t.SetSchedule(at)
		col.Upsert(updated)
		return updated, nil
	})
	if err != nil {
		return err
	}
	return a.renderer().ScheduledTask(scheduled, "Scheduled task: %s (%d) at %s")
}

// rescheduleCommand moves an existing schedule forward. It only applies to
// tasks whose schedule has already passed: rescheduling the future is a plain
// schedule call.
func (a *app) rescheduleCommand(args []string) error {
	if len(args) != 2 {
		return task.Errorf(task.CodeInvalidInput, "reschedule requires a task id and a datetime")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	at, err := parseDatetime(args[1])
	if err != nil {
		return err
	}

	rescheduled, err := a.mutate(func(col *store.Collection) (task.Task, error) {
		t, err := col.Find(id)
		if err != nil {
			return task.Task{}, err
		}
		if t.ScheduledAt == nil {
			return task.Task{}, task.Errorf(task.CodeInvalidInput, "task is not scheduled")
		}
		if !t.Overdue(a.now()) {
			return task.Task{}, task.Errorf(task.CodeInvalidInput, "task is not overdue")
		}
		updated := t.SetSchedule(at)
		col.Upsert(updated)
		return updated, nil
	})
	if err != nil {
		return err
	}
	return a.renderer().ScheduledTask(rescheduled, "Rescheduled task: %s (%d) at %s")
}

func (a *app) unscheduleCommand(args []string) error {
	if len(args) != 1 {
		return task.Errorf(task.CodeInvalidInput, "unschedule requires exactly one task id")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	updated, err := a.mutate(func(col *store.Collection) (task.Task, error) {
		t, err := col.Find(id)
		if err != nil {
			return task.Task{}, err
		}
		cleared := t.ClearSchedule()
		col.Upsert(cleared)
		return cleared, nil
	})
	if err != nil {
		return err
	}
	return a.renderer().Task(updated, "Unscheduled task: %s (%d)")
}

func (a *app) urgentCommand(args []string) error {
	fs := newFlagSet("urgent")
	clear := fs.Bool("clear", false, "Clear the urgent flag")
	if err := parseSubFlags(fs, args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) != 1 {
		return task.Errorf(task.CodeInvalidInput, "urgent requires exactly one task id")
	}
	id, err := parseID(rest[0])
	if err != nil {
		return err
	}

	updated, err := a.mutate(func(col *store.Collection) (task.Task, error) {
		t, err := col.Find(id)
		if err != nil {
			return task.Task{}, err
		}
		changed := t.SetUrgent(!*clear)
		col.Upsert(changed)
		return changed, nil
	})
	if err != nil {
		return err
	}
	if *clear {
		return a.renderer().Task(updated, "Cleared urgency: %s (%d)")
	}
	return a.renderer().Task(updated, "Marked task urgent: %s (%d)")
}

func (a *app) focusCommand(args []string) error {
	fs := newFlagSet("focus")
	clear := fs.Bool("clear", false, "Clear the focus flag")
	if err := parseSubFlags(fs, args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) != 1 {
		return task.Errorf(task.CodeInvalidInput, "focus requires exactly one task id")
	}
	id, err := parseID(rest[0])
	if err != nil {
		return err
	}

	updated, err := a.mutate(func(col *store.Collection) (task.Task, error) {
		t, err := col.Find(id)
		if err != nil {
			return task.Task{}, err
		}
		changed := t.SetFocus(!*clear)
		col.Upsert(changed)
		return changed, nil
	})
	if err != nil {
		return err
	}
	if *clear {
		return a.renderer().Task(updated, "Cleared focus: %s (%d)")
	}
	return a.renderer().Task(updated, "Focused task: %s (%d)")
}

func (a *app) dueCommand(args []string) error {
	if len(args) != 0 {
		return task.Errorf(task.CodeInvalidInput, "due takes no arguments")
	}
	col, err := a.load()
	if err != nil {
		return err
	}
	return a.renderer().Tasks(col.Due(a.now()))
}

func (a *app) notifyCommand(args []string) error {
	if len(args) != 0 {
		return task.Errorf(task.CodeInvalidInput, "notify takes no arguments")
	}
	col, err := a.load()
	if err != nil {
		return err
	}

	outcome := notify.Dispatch(notify.FromEnv(), col.Tasks(), a.now())
	for _, f := range outcome.Failures {
		a.logger.Warn("notification failed", "task", f.TaskID, "error", f.Err)
	}

	if a.jsonOut {
		payload := struct {
			Notified int     `json:"notified"`
			Failed   []int64 `json:"failed"`
		}{Notified: len(outcome.Notified), Failed: []int64{}}
		for _, f := range outcome.Failures {
			payload.Failed = append(payload.Failed, f.TaskID)
		}
		return a.renderer().Encode(payload)
	}
	fmt.Fprintf(a.stdout, "Notified %d task(s)\n", len(outcome.Notified))
	return nil
}

func (a *app) configCommand(args []string) error {
	if len(args) != 0 {
		return task.Errorf(task.CodeInvalidInput, "config takes no arguments")
	}
	if a.jsonOut {
		return a.renderer().Encode(a.cfg)
	}
	fmt.Fprintln(a.stdout, a.cfg.Describe())
	fmt.Fprintf(a.stdout, "themes: %s\n", strings.Join(theme.Names(), ", "))
	return nil
}

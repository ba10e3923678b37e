package cmd

import (
	"strings"
	"time"

	"github.com/todoapp/todoapp-go/internal/store"
	"github.com/todoapp/todoapp-go/internal/task"
)

func (a *app) addCommand(args []string) error {
	fs := newFlagSet("add")
	urgent := fs.Bool("urgent", false, "Mark the new task as urgent")
	if err := parseSubFlags(fs, args); err != nil {
		return err
	}
	title := strings.Join(fs.Args(), " ")

	added, err := a.mutate(func(col *store.Collection) (task.Task, error) {
		t, err := task.New(col.NextID(), title, a.now())
		if err != nil {
			return task.Task{}, err
		}
		if *urgent {
			t = t.SetUrgent(true)
		}
		col.Upsert(t)
		return t, nil
	})
	if err != nil {
		return err
	}
	a.logger.Debug("task added", "id", added.ID)
	return a.renderer().Task(added, "Added task: %s (%d)")
}

func (a *app) listCommand(args []string) error {
	filter := ""
	if len(args) > 0 {
		filter = args[0]
		args = args[1:]
	}
	if len(args) > 0 {
		return task.Errorf(task.CodeInvalidInput, "unexpected arguments after list filter")
	}

	col, err := a.load()
	if err != nil {
		return err
	}

	var tasks []task.Task
	switch filter {
	case "":
		tasks = store.PromoteFocused(col.Tasks())
	case "today":
		tasks = col.Today(a.now(), time.Local)
	case "backlog":
		tasks = col.Backlog(a.now(), time.Local)
	case "focused":
		tasks = col.Focused()
	default:
		return task.Errorf(task.CodeInvalidInput, "unknown list filter %q (want today, backlog, or focused)", filter)
	}
	return a.renderer().Tasks(tasks)
}

func (a *app) showCommand(args []string) error {
	if len(args) != 1 {
		return task.Errorf(task.CodeInvalidInput, "show requires exactly one task id")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	col, err := a.load()
	if err != nil {
		return err
	}
	t, err := col.Find(id)
	if err != nil {
		return err
	}
	return a.renderer().Detail(t)
}

func (a *app) doneCommand(args []string) error {
	fs := newFlagSet("done")
	note := fs.String("m", "", "Completion message")
	fs.StringVar(note, "message", "", "Completion message")
	if err := parseSubFlags(fs, args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return task.Errorf(task.CodeInvalidInput, "id is required")
	}
	id, err := parseID(rest[0])
	if err != nil {
		return err
	}
	if *note == "" && len(rest) > 1 {
		*note = strings.Join(rest[1:], " ")
	}

	completed, err := a.mutate(func(col *store.Collection) (task.Task, error) {
		t, err := col.Find(id)
		if err != nil {
			return task.Task{}, err
		}
		done, err := t.MarkDone(*note, a.now())
		if err != nil {
			return task.Task{}, err
		}
		// Completion releases focus so listings stop promoting the task.
		done = done.SetFocus(false)
		col.Upsert(done)
		return done, nil
	})
	if err != nil {
		return err
	}
	return a.renderer().CompletedTask(completed, "Completed task: %s (%d)")
}

func (a *app) reopenCommand(args []string) error {
	if len(args) != 1 {
		return task.Errorf(task.CodeInvalidInput, "reopen requires exactly one task id")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	reopened, err := a.mutate(func(col *store.Collection) (task.Task, error) {
		t, err := col.Find(id)
		if err != nil {
			return task.Task{}, err
		}
		open, err := t.Reopen()
		if err != nil {
			return task.Task{}, err
		}
		col.Upsert(open)
		return open, nil
	})
	if err != nil {
		return err
	}
	return a.renderer().Task(reopened, "Reopened task: %s (%d)")
}

func (a *app) editCommand(args []string) error {
	if len(args) < 2 {
		return task.Errorf(task.CodeInvalidInput, "edit requires a task id and a new title")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	title := strings.Join(args[1:], " ")

	updated, err := a.mutate(func(col *store.Collection) (task.Task, error) {
		t, err := col.Find(id)
		if err != nil {
			return task.Task{}, err
		}
		renamed, err := t.Rename(title)
		if err != nil {
			return task.Task{}, err
		}
		col.Upsert(renamed)
		return renamed, nil
	})
	if err != nil {
		return err
	}
	return a.renderer().Task(updated, "Updated task: %s (%d)")
}

func (a *app) deleteCommand(args []string) error {
	if len(args) != 1 {
		return task.Errorf(task.CodeInvalidInput, "delete requires exactly one task id")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	removed, err := a.mutate(func(col *store.Collection) (task.Task, error) {
		return col.Remove(id)
	})
	if err != nil {
		return err
	}
	return a.renderer().Task(removed, "Deleted task: %s (%d)")
}

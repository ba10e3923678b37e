// Package cmd implements the CLI command structure for todoapp.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/todoapp/todoapp-go/internal/config"
	"github.com/todoapp/todoapp-go/internal/logging"
	"github.com/todoapp/todoapp-go/internal/notify"
	"github.com/todoapp/todoapp-go/internal/render"
	"github.com/todoapp/todoapp-go/internal/store"
	"github.com/todoapp/todoapp-go/internal/task"
	"github.com/todoapp/todoapp-go/internal/theme"
	"github.com/todoapp/todoapp-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// app carries the resolved per-invocation state shared by all subcommands.
type app struct {
	ctx       context.Context
	cfg       config.Config
	logger    *log.Logger
	stdout    io.Writer
	stderr    io.Writer
	jsonOut   bool
	palette   theme.Palette
	storePath string
	now       func() time.Time
}

// Execute runs the todoapp CLI and returns the process exit code. Every
// failure prints exactly one line "ERROR: <code> - <message>" to stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if err := run(ctx, args, stdout, stderr); err != nil {
		render.ErrorLine(stderr, err)
		return 1
	}
	return 0
}

// overrideFlags collects repeated --config-override arguments.
type overrideFlags []string

func (o *overrideFlags) String() string { return strings.Join(*o, ",") }

func (o *overrideFlags) Set(value string) error {
	*o = append(*o, value)
	return nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("todoapp", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { printUsage(stderr) }

	jsonOut := fs.Bool("json", false, "Output JSON")
	verbose := fs.Bool("verbose", false, "Enable debug logging")
	var overrides overrideFlags
	fs.Var(&overrides, "config-override", "Override configuration values (format KEY=VALUE)")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			printUsage(stdout)
			return nil
		}
		return task.Errorf(task.CodeInvalidInput, "%v", err)
	}

	logger := logging.ForCLI(*verbose)

	cfg, err := config.LoadWithFallback()
	if err != nil {
		logger.Warn("using default config", "error", err)
	}
	parsed := make([]config.Override, 0, len(overrides))
	for _, raw := range overrides {
		o, err := config.ParseOverride(raw)
		if err != nil {
			return err
		}
		parsed = append(parsed, o)
	}
	cfg = cfg.Merge(parsed)

	storePath, err := store.DefaultPath()
	if err != nil {
		return err
	}

	a := &app{
		ctx:       ctx,
		cfg:       cfg,
		logger:    logger,
		stdout:    stdout,
		stderr:    stderr,
		jsonOut:   *jsonOut,
		palette:   theme.ForName(config.CanonicalTheme(cfg.Theme)),
		storePath: storePath,
		now:       time.Now,
	}

	rest := cfg.ExpandAlias(fs.Args())
	if len(rest) == 0 {
		if ui.IsTTY(os.Stdout) {
			return ui.Run(ctx, storePath, a.palette)
		}
		printUsage(stdout)
		return nil
	}

	subcommand := rest[0]
	rest = rest[1:]

	// Activating a desktop notification re-invokes the binary with the
	// notification's action argument.
	if id, ok := notify.ParseActivationArgument(subcommand); ok {
		return a.showCommand([]string{strconv.FormatInt(id, 10)})
	}

	switch subcommand {
	case "add":
		return a.addCommand(rest)
	case "list":
		return a.listCommand(rest)
	case "show":
		return a.showCommand(rest)
	case "done":
		return a.doneCommand(rest)
	case "reopen":
		return a.reopenCommand(rest)
	case "edit":
		return a.editCommand(rest)
	case "delete":
		return a.deleteCommand(rest)
	case "schedule":
		return a.scheduleCommand(rest)
	case "reschedule":
		return a.rescheduleCommand(rest)
	case "unschedule":
		return a.unscheduleCommand(rest)
	case "urgent":
		return a.urgentCommand(rest)
	case "focus":
		return a.focusCommand(rest)
	case "due":
		return a.dueCommand(rest)
	case "notify":
		return a.notifyCommand(rest)
	case "config":
		return a.configCommand(rest)
	case "interactive":
		return ui.Run(ctx, storePath, a.palette)
	case "version", "--version", "-v":
		fmt.Fprintf(stdout, "todoapp version %s\n", Version)
		return nil
	case "help", "--help", "-h":
		printUsage(stdout)
		return nil
	default:
		return task.Errorf(task.CodeInvalidInput, "unknown command %q", subcommand)
	}
}

func (a *app) renderer() *render.Renderer {
	return &render.Renderer{Out: a.stdout, JSON: a.jsonOut, Palette: a.palette}
}

// load reads the store for a read-only query.
func (a *app) load() (*store.Collection, error) {
	return store.Load(a.storePath)
}

// mutate runs a load-mutate-save cycle under the advisory store lock and
// returns the task the mutation reported.
func (a *app) mutate(fn func(*store.Collection) (task.Task, error)) (task.Task, error) {
	var out task.Task
	err := store.WithLock(a.storePath, func() error {
		col, err := store.Load(a.storePath)
		if err != nil {
			return err
		}
		t, err := fn(col)
		if err != nil {
			return err
		}
		out = t
		return store.Save(a.storePath, col)
	})
	return out, err
}

func parseID(raw string) (int64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, task.Errorf(task.CodeInvalidInput, "id is required")
	}
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, task.Errorf(task.CodeInvalidInput, "invalid task id %q", raw)
	}
	return id, nil
}

func parseDatetime(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, task.Errorf(task.CodeInvalidInput, "datetime is required")
	}
	at, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return time.Time{}, task.Errorf(task.CodeInvalidInput, "datetime must be RFC3339")
	}
	return at, nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("todoapp "+name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseSubFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return task.Errorf(task.CodeInvalidInput, "%v", err)
	}
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "todoapp - Terminal task manager")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todoapp [global options] <command> [arguments]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add [--urgent] <title>       Add a new task")
	fmt.Fprintln(w, "  list [today|backlog|focused] List tasks")
	fmt.Fprintln(w, "  show <id>                    Show details of a task")
	fmt.Fprintln(w, "  done [-m message] <id>       Mark a task as completed")
	fmt.Fprintln(w, "  reopen <id>                  Reopen a completed task")
	fmt.Fprintln(w, "  edit <id> <new title>        Edit a task's title")
	fmt.Fprintln(w, "  delete <id>                  Delete a task")
	fmt.Fprintln(w, "  schedule <id> <datetime>     Schedule a task (RFC3339)")
	fmt.Fprintln(w, "  reschedule <id> <datetime>   Reschedule an overdue task")
	fmt.Fprintln(w, "  unschedule <id>              Remove a task's schedule")
	fmt.Fprintln(w, "  urgent [--clear] <id>        Mark a task as urgent")
	fmt.Fprintln(w, "  focus [--clear] <id>         Focus on a task")
	fmt.Fprintln(w, "  due                          List tasks due now")
	fmt.Fprintln(w, "  notify                       Send notifications for due or urgent tasks")
	fmt.Fprintln(w, "  config                       Show the active configuration")
	fmt.Fprintln(w, "  interactive                  Start the interactive session")
	fmt.Fprintln(w, "  version                      Show version information")
	fmt.Fprintln(w, "  help                         Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fmt.Fprintln(w, "  --json                       Output JSON")
	fmt.Fprintln(w, "  --config-override KEY=VALUE  Override configuration values (repeatable)")
	fmt.Fprintln(w, "  --verbose                    Enable debug logging")
}

// Package store persists the task collection as a single JSON document.
package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/todoapp/todoapp-go/internal/task"
)

// SchemaVersion is the current store file format version. Files written by
// older releases (any version from 1 up to this) load unchanged.
const SchemaVersion = 1

//go:embed schema.json
var schemaJSON []byte

var storeSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource("tasks.schema.json", bytes.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("store: add schema resource: %v", err))
	}
	return compiler.MustCompile("tasks.schema.json")
}

// storeFile is the on-disk document shape.
type storeFile struct {
	SchemaVersion int         `json:"schema_version"`
	Tasks         []task.Task `json:"tasks"`
}

// Collection holds the task sequence in insertion order plus an id index
// for O(1) lookup. It is owned by a single process invocation; the store
// provides no cross-process coordination beyond the atomic replace on save
// and the optional advisory lock in lock.go.
type Collection struct {
	tasks []task.Task
	index map[int64]int
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{index: make(map[int64]int)}
}

// Len returns the number of tasks.
func (c *Collection) Len() int {
	return len(c.tasks)
}

// Tasks returns the tasks in insertion order. The slice is a copy; mutating
// it does not affect the collection.
func (c *Collection) Tasks() []task.Task {
	out := make([]task.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// NextID returns one greater than the highest id ever seen in the file,
// starting at 1. Removing the highest task before the next add can reuse
// its id only within a single invocation that never saved it; persisted ids
// are never reused because the maximum is derived from the loaded document.
func (c *Collection) NextID() int64 {
	var max int64
	for _, t := range c.tasks {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}

// Find returns the task with the given id.
func (c *Collection) Find(id int64) (task.Task, error) {
	i, ok := c.index[id]
	if !ok {
		return task.Task{}, task.Errorf(task.CodeNotFound, "task %d not found", id)
	}
	return c.tasks[i], nil
}

// Upsert replaces the task with a matching id, or appends it to the end of
// the sequence when the id is new.
func (c *Collection) Upsert(t task.Task) {
	if i, ok := c.index[t.ID]; ok {
		c.tasks[i] = t
		return
	}
	c.index[t.ID] = len(c.tasks)
	c.tasks = append(c.tasks, t)
}

// Remove deletes the task with the given id and returns it.
func (c *Collection) Remove(id int64) (task.Task, error) {
	i, ok := c.index[id]
	if !ok {
		return task.Task{}, task.Errorf(task.CodeNotFound, "task %d not found", id)
	}
	removed := c.tasks[i]
	c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
	delete(c.index, id)
	for j := i; j < len(c.tasks); j++ {
		c.index[c.tasks[j].ID] = j
	}
	return removed, nil
}

// Due returns, in insertion order, the open tasks scheduled at or before
// ref. The query has no side effects: repeated calls with the same ref and
// an unchanged collection return the same tasks.
func (c *Collection) Due(ref time.Time) []task.Task {
	var due []task.Task
	for _, t := range c.tasks {
		if t.Due(ref) {
			due = append(due, t)
		}
	}
	return due
}

// Today returns tasks whose scheduled date, in loc, falls on or before the
// date of ref. Unscheduled and future tasks are excluded.
func (c *Collection) Today(ref time.Time, loc *time.Location) []task.Task {
	return c.filterByDate(ref, loc, true)
}

// Backlog returns tasks scheduled after the date of ref in loc, plus all
// unscheduled tasks.
func (c *Collection) Backlog(ref time.Time, loc *time.Location) []task.Task {
	return c.filterByDate(ref, loc, false)
}

func (c *Collection) filterByDate(ref time.Time, loc *time.Location, today bool) []task.Task {
	refYear, refMonth, refDay := ref.In(loc).Date()
	refDate := time.Date(refYear, refMonth, refDay, 0, 0, 0, 0, loc)

	var out []task.Task
	for _, t := range c.tasks {
		if t.ScheduledAt == nil {
			if !today {
				out = append(out, t)
			}
			continue
		}
		y, m, d := t.ScheduledAt.In(loc).Date()
		scheduledDate := time.Date(y, m, d, 0, 0, 0, 0, loc)
		if scheduledDate.After(refDate) != today {
			out = append(out, t)
		}
	}
	return out
}

// Focused returns the focused tasks in insertion order.
func (c *Collection) Focused() []task.Task {
	var out []task.Task
	for _, t := range c.tasks {
		if t.Focused {
			out = append(out, t)
		}
	}
	return out
}

// PromoteFocused reorders tasks so focused ones come first, preserving the
// relative order within each group. Presentation only; storage order is
// untouched.
func PromoteFocused(tasks []task.Task) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Focused {
			out = append(out, t)
		}
	}
	for _, t := range tasks {
		if !t.Focused {
			out = append(out, t)
		}
	}
	return out
}

// Load reads the store file at path. A missing file is a first run and
// yields an empty collection. A file that exists but does not parse, fails
// schema validation, or carries an unknown schema version is a corrupt-store
// error; unreadable data is never silently discarded.
func Load(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewCollection(), nil
		}
		return nil, task.Errorf(task.CodeIO, "read store %s: %v", path, err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, task.Errorf(task.CodeCorruptStore, "store %s is not valid JSON: %v", path, err)
	}
	if err := storeSchema.Validate(doc); err != nil {
		return nil, task.Errorf(task.CodeCorruptStore, "store %s failed validation: %v", path, err)
	}

	var f storeFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, task.Errorf(task.CodeCorruptStore, "store %s does not match the task schema: %v", path, err)
	}
	if f.SchemaVersion < 1 || f.SchemaVersion > SchemaVersion {
		return nil, task.Errorf(task.CodeCorruptStore, "store %s has unsupported schema_version %d", path, f.SchemaVersion)
	}

	c := NewCollection()
	for _, t := range f.Tasks {
		if _, dup := c.index[t.ID]; dup {
			return nil, task.Errorf(task.CodeCorruptStore, "store %s contains duplicate task id %d", path, t.ID)
		}
		c.index[t.ID] = len(c.tasks)
		c.tasks = append(c.tasks, t)
	}
	return c, nil
}

// Save serializes the collection and atomically replaces the file at path:
// the document is written to a temp file in the same directory, restricted
// to mode 0600 before any task data lands in it, synced, and renamed over
// the destination. A reader never observes a half-written store.
func Save(path string, c *Collection) error {
	f := storeFile{
		SchemaVersion: SchemaVersion,
		Tasks:         c.tasks,
	}
	if f.Tasks == nil {
		f.Tasks = []task.Task{}
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return task.Errorf(task.CodeIO, "marshal store: %v", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return task.Errorf(task.CodeIO, "create store dir %s: %v", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tasks-*.json")
	if err != nil {
		return task.Errorf(task.CodeIO, "create temp store file: %v", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	// CreateTemp already uses 0600; chmod keeps the guarantee explicit and
	// independent of umask quirks.
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return task.Errorf(task.CodeIO, "restrict store permissions: %v", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return task.Errorf(task.CodeIO, "write store: %v", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return task.Errorf(task.CodeIO, "sync store: %v", err)
	}
	if err := tmp.Close(); err != nil {
		return task.Errorf(task.CodeIO, "close store: %v", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return task.Errorf(task.CodeIO, "replace store %s: %v", path, err)
	}
	return nil
}

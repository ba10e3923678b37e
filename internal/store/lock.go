package store

import (
	"github.com/gofrs/flock"

	"github.com/todoapp/todoapp-go/internal/task"
)

// WithLock runs fn while holding an advisory lock serializing concurrent
// invocations against the same store file. The lock lives in a sidecar file
// because the store file itself is replaced by rename on every save. This is
// a hardening layer: correctness for readers comes from the atomic replace,
// the lock only prevents two simultaneous writers from losing one of their
// load-mutate-save cycles.
func WithLock(path string, fn func() error) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return task.Errorf(task.CodeIO, "lock store %s: %v", path, err)
	}
	defer lock.Unlock()
	return fn()
}

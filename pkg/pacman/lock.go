package pacman

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pacfix/pacfix/pkg/engine"
	"github.com/pacfix/pacfix/pkg/telemetry"
)

// DefaultLockPath is where pacman keeps its database lock.
const DefaultLockPath = "/var/lib/pacman/db.lck"

// LockWaiter blocks until the package database lock is released,
// instead of letting every command fail and be retried blind. Another
// pacman already holding the lock is the common transient failure on a
// freshly installed system still running post-install hooks.
type LockWaiter struct {
	// Path is the lock file, DefaultLockPath when empty.
	Path string

	// Timeout bounds the wait; zero means no waiting at all.
	Timeout time.Duration
}

// Wait returns once the lock file is absent, the timeout expires or the
// context is cancelled. A timeout is a transient error.
func (w *LockWaiter) Wait(ctx context.Context) error {
	path := w.Path
	if path == "" {
		path = DefaultLockPath
	}
	if w.Timeout <= 0 {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	log := telemetry.FromContext(ctx)
	log.WithField("path", path).Info("package database locked, waiting for release")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return engine.NewTransientError("failed to create lock watcher", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return engine.NewTransientError("failed to watch lock directory", err)
	}

	// The lock may have vanished between the stat and the watch.
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	deadline := time.NewTimer(w.Timeout)
	defer deadline.Stop()

	for {
		select {
		case event := <-watcher.Events:
			if event.Name == path && event.Has(fsnotify.Remove) {
				log.Debug("package database lock released")
				return nil
			}
		case err := <-watcher.Errors:
			return engine.NewTransientError("lock watcher failed", err)
		case <-deadline.C:
			return engine.NewTransientError(
				fmt.Sprintf("package database still locked after %s", w.Timeout), nil)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// LockedRunner wraps a Runner with a lock wait before each command.
type LockedRunner struct {
	// Inner executes the command once the lock is clear.
	Inner engine.Runner

	// Waiter blocks on the package database lock.
	Waiter *LockWaiter
}

// Run waits for the package database lock, then delegates.
func (r *LockedRunner) Run(ctx context.Context, command string) (string, error) {
	if r.Waiter != nil {
		if err := r.Waiter.Wait(ctx); err != nil {
			return "", err
		}
	}
	return r.Inner.Run(ctx, command)
}

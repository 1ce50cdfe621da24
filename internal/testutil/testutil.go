// Package testutil provides shared test helpers for document trees, history
// databases and executors.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/starford/lineview/internal/executor"
	"github.com/starford/lineview/internal/history"
)

// TestDB creates a temporary history database that is automatically closed.
func TestDB(t *testing.T) *history.DB {
	t.Helper()
	db, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestDocument writes files (relative paths to content) into a temporary
// directory and returns the canonical directory and the path of root inside it.
func TestDocument(t *testing.T, files map[string]string, root string) (string, string) {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		WriteFile(t, filepath.Join(dir, name), content)
	}
	return dir, filepath.Join(dir, root)
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// Executor records commands instead of spawning them. Err, when set, is
// returned from every call.
type Executor struct {
	mu       sync.Mutex
	Err      error
	commands []executor.Command
}

// Execute records c.
func (e *Executor) Execute(_ context.Context, c executor.Command) (executor.Started, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return executor.Started{}, e.Err
	}
	e.commands = append(e.commands, c)
	return executor.Started{PID: 1000 + len(e.commands)}, nil
}

// Commands returns the recorded commands in order.
func (e *Executor) Commands() []executor.Command {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]executor.Command, len(e.commands))
	copy(out, e.commands)
	return out
}

package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func testTree(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"menu.txt", "parts/part.txt", "other/extra.txt", "unrelated.txt"} {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

type recorder struct {
	mu      sync.Mutex
	calls   [][]string
	sources []string
}

func (r *recorder) reload(changed []string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, changed)
	return r.sources
}

func (r *recorder) snapshot() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]string, len(r.calls))
	copy(out, r.calls)
	return out
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestWatch_ReloadsOnSourceChange(t *testing.T) {
	dir := testTree(t)
	menu := filepath.Join(dir, "menu.txt")
	part := filepath.Join(dir, "parts", "part.txt")
	rec := &recorder{sources: []string{menu, part}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Watch(ctx, rec.sources, 30*time.Millisecond, quietLogger(), rec.reload)
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(part, []byte("changed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	eventually(t, 3*time.Second, 20*time.Millisecond, func() bool {
		calls := rec.snapshot()
		return len(calls) == 1 && len(calls[0]) == 1 && calls[0][0] == part
	}, "expected one reload for part.txt")
}

func TestWatch_DebouncesBursts(t *testing.T) {
	dir := testTree(t)
	menu := filepath.Join(dir, "menu.txt")
	part := filepath.Join(dir, "parts", "part.txt")
	rec := &recorder{sources: []string{menu, part}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Watch(ctx, rec.sources, 200*time.Millisecond, quietLogger(), rec.reload)
	time.Sleep(100 * time.Millisecond)

	for i := range 5 {
		target := menu
		if i%2 == 1 {
			target = part
		}
		if err := os.WriteFile(target, []byte{byte('a' + i), '\n'}, 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	eventually(t, 3*time.Second, 20*time.Millisecond, func() bool {
		return len(rec.snapshot()) >= 1
	}, "expected a reload")
	time.Sleep(400 * time.Millisecond)

	calls := rec.snapshot()
	if len(calls) != 1 {
		t.Fatalf("reloads = %d, want 1", len(calls))
	}
	if len(calls[0]) != 2 || calls[0][0] != menu || calls[0][1] != part {
		t.Errorf("changed = %v", calls[0])
	}
}

func TestWatch_IgnoresUnrelatedFiles(t *testing.T) {
	dir := testTree(t)
	menu := filepath.Join(dir, "menu.txt")
	rec := &recorder{sources: []string{menu}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Watch(ctx, rec.sources, 30*time.Millisecond, quietLogger(), rec.reload)
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("noise\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)
	if calls := rec.snapshot(); len(calls) != 0 {
		t.Errorf("unexpected reloads: %v", calls)
	}
}

func TestWatch_RearmsFromReloadedSources(t *testing.T) {
	dir := testTree(t)
	menu := filepath.Join(dir, "menu.txt")
	extra := filepath.Join(dir, "other", "extra.txt")
	rec := &recorder{sources: []string{menu, extra}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Watch(ctx, []string{menu}, 30*time.Millisecond, quietLogger(), rec.reload)
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(extra, []byte("before\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	if calls := rec.snapshot(); len(calls) != 0 {
		t.Fatalf("extra.txt is not yet a source: %v", calls)
	}

	// The rebuilt document now includes other/extra.txt.
	if err := os.WriteFile(menu, []byte("#-import other/extra.txt\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	eventually(t, 3*time.Second, 20*time.Millisecond, func() bool {
		return len(rec.snapshot()) == 1
	}, "expected reload for menu.txt")
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(extra, []byte("after\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	eventually(t, 3*time.Second, 20*time.Millisecond, func() bool {
		calls := rec.snapshot()
		return len(calls) == 2 && len(calls[1]) == 1 && calls[1][0] == extra
	}, "expected reload for extra.txt after re-arm")
}

func TestWatch_StopsOnCancel(t *testing.T) {
	dir := testTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, []string{filepath.Join(dir, "menu.txt")}, 0, quietLogger(), func([]string) []string { return nil })
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not stop")
	}
}

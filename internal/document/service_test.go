package document

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/lineview/internal/apperr"
	"github.com/starford/lineview/internal/models"
	"github.com/starford/lineview/internal/testutil"
)

type recordingNotifier struct {
	mu       sync.Mutex
	reloads  []models.ViewSummary
	executed []models.Run
}

func (n *recordingNotifier) ViewReloaded(s models.ViewSummary) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reloads = append(n.reloads, s)
}

func (n *recordingNotifier) LineExecuted(r models.Run) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.executed = append(n.executed, r)
}

func (n *recordingNotifier) reloadCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.reloads)
}

var fixedNow = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openService(t *testing.T, files map[string]string, opts ...Option) (*Service, string, *testutil.Executor) {
	t.Helper()
	dir, root := testutil.TestDocument(t, files, "menu.txt")
	exec := &testutil.Executor{}
	opts = append([]Option{WithLogger(quiet()), WithClock(func() time.Time { return fixedNow })}, opts...)
	svc, err := Open(root, exec, opts...)
	require.NoError(t, err)
	return svc, dir, exec
}

func TestOpen_MissingRoot(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "none.txt"), &testutil.Executor{}, WithLogger(quiet()))
	require.Error(t, err)
}

func TestSnapshot(t *testing.T) {
	svc, dir, _ := openService(t, map[string]string{
		"menu.txt": "#-title Ops\n#-subtitle Hosts\n#-pre ssh\nalpha\n#-import missing.txt\n",
	})

	snap := svc.Snapshot(context.Background())
	assert.Equal(t, "Ops", snap.Title)
	assert.Equal(t, filepath.Join(dir, "menu.txt"), snap.Root)
	assert.Equal(t, 3, snap.ViewSummary.Lines)
	assert.Equal(t, 1, snap.ViewSummary.Sources)
	assert.Equal(t, fixedNow, snap.LoadedAt)
	assert.NotEmpty(t, snap.Checksum)
	assert.Equal(t, []string{filepath.Join(dir, "menu.txt")}, snap.SourceFiles)

	require.Len(t, snap.Lines, 3)
	assert.Equal(t, LineDetail{Index: 0, Text: "Hosts", Kind: "title", Source: snap.Root, Position: 2}, snap.Lines[0])
	assert.Equal(t, LineDetail{
		Index: 1, Text: "alpha", Kind: "normal", Source: snap.Root, Position: 4,
		HasCommand: true, Args: []string{"ssh", "alpha"},
	}, snap.Lines[1])
	assert.Equal(t, "warning", snap.Lines[2].Kind)
}

func TestLine(t *testing.T) {
	svc, _, _ := openService(t, map[string]string{"menu.txt": "a\nb\n"})

	got, err := svc.Line(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Text)

	_, err = svc.Line(context.Background(), 2)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.Line(context.Background(), -1)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestExecute(t *testing.T) {
	db := testutil.TestDB(t)
	notifier := &recordingNotifier{}
	svc, dir, exec := openService(t, map[string]string{
		"menu.txt": "plain\n#-pre echo\n#-suf done\n#-source more.txt\n",
		"more.txt": "\nhello\n",
	}, WithHistory(db), WithNotifier(notifier))

	run, err := svc.Execute(context.Background(), 2, svc.Checksum())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, []string{"echo", "hello", "done"}, run.Args)
	assert.Equal(t, filepath.Join(dir, "more.txt"), run.Source)
	assert.Equal(t, 2, run.Position)
	assert.Equal(t, 1001, run.PID)
	assert.Equal(t, fixedNow, run.StartedAt)

	cmds := exec.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, run.Args, cmds[0].Args)
	assert.Equal(t, 2, cmds[0].Position)

	stored, err := db.Get(run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Text, stored.Text)
	require.Len(t, notifier.executed, 1)
	assert.Equal(t, run.ID, notifier.executed[0].ID)

	runs, total, err := svc.History(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, run.ID, runs[0].ID)

	got, err := svc.Run(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
}

func TestExecute_Errors(t *testing.T) {
	svc, _, exec := openService(t, map[string]string{"menu.txt": "plain\n#-pre echo\ncmd\n"})
	ctx := context.Background()

	_, err := svc.Execute(ctx, 0, "")
	require.ErrorIs(t, err, apperr.ErrNoCommand)

	_, err = svc.Execute(ctx, 9, "")
	require.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Execute(ctx, 1, "stale")
	require.ErrorIs(t, err, apperr.ErrConflict)

	assert.Empty(t, exec.Commands())
}

func TestExecute_SpawnFailureIsRecorded(t *testing.T) {
	db := testutil.TestDB(t)
	svc, _, exec := openService(t, map[string]string{"menu.txt": "#-pre nope\nx\n"}, WithHistory(db))
	exec.Err = errors.New("exec: \"nope\": executable file not found")

	run, err := svc.Execute(context.Background(), 0, "")
	require.Error(t, err)
	require.NotNil(t, run)
	assert.Equal(t, exec.Err.Error(), run.Error)

	stored, err := db.Get(run.ID)
	require.NoError(t, err)
	assert.False(t, stored.Succeeded())
}

func TestHistory_WithoutRecorder(t *testing.T) {
	svc, _, _ := openService(t, map[string]string{"menu.txt": "x\n"})
	runs, total, err := svc.History(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.Zero(t, total)

	found, err := svc.SearchHistory(context.Background(), "x", 5)
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = svc.Run(context.Background(), "id")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestReload(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, dir, _ := openService(t, map[string]string{"menu.txt": "one\n"}, WithNotifier(notifier))
	before := svc.Checksum()

	same, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before, same.Checksum, "unchanged document keeps its checksum")

	testutil.WriteFile(t, filepath.Join(dir, "menu.txt"), "one\ntwo\n")
	summary, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Lines)
	assert.NotEqual(t, before, summary.Checksum)
	assert.Equal(t, 2, notifier.reloadCount())

	_, err = svc.Execute(context.Background(), 0, before)
	require.ErrorIs(t, err, apperr.ErrConflict)
}

func TestReload_FailureKeepsView(t *testing.T) {
	svc, dir, _ := openService(t, map[string]string{"menu.txt": "one\n"})
	require.NoError(t, os.Remove(filepath.Join(dir, "menu.txt")))

	_, err := svc.Reload(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, svc.Summary().Lines)
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, dir, _ := openService(t, map[string]string{
		"menu.txt": "#-import part.txt\n",
		"part.txt": "a\n",
	}, WithNotifier(notifier))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.Watch(ctx, 20*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	testutil.WriteFile(t, filepath.Join(dir, "part.txt"), "a\nb\n")
	require.Eventually(t, func() bool {
		return svc.Summary().Lines == 2
	}, 3*time.Second, 20*time.Millisecond)
	assert.GreaterOrEqual(t, notifier.reloadCount(), 1)
}

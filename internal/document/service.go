// Package document owns the currently loaded view and the operations served
// to the HTTP API, the MCP server and the terminal UI.
package document

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/lineview/internal/apperr"
	"github.com/starford/lineview/internal/checksum"
	"github.com/starford/lineview/internal/executor"
	"github.com/starford/lineview/internal/history"
	"github.com/starford/lineview/internal/lineview"
	"github.com/starford/lineview/internal/models"
	"github.com/starford/lineview/internal/watcher"
)

// LineDetail is the serializable form of one view line.
type LineDetail struct {
	Index      int      `json:"index"`
	Text       string   `json:"text"`
	Kind       string   `json:"kind"`
	Source     string   `json:"source"`
	Position   int      `json:"position"`
	HasCommand bool     `json:"has_command"`
	Args       []string `json:"args,omitempty"`
}

// Snapshot is the full serializable view.
type Snapshot struct {
	models.ViewSummary
	Lines       []LineDetail `json:"lines"`
	SourceFiles []string     `json:"sources"`
}

// Notifier is told about reloads and executions.
type Notifier interface {
	ViewReloaded(summary models.ViewSummary)
	LineExecuted(run models.Run)
}

// Option configures a Service.
type Option func(*Service)

// WithReadOptions sets the options used for every build of the view.
func WithReadOptions(opts ...lineview.Option) Option {
	return func(s *Service) { s.readOpts = opts }
}

// WithHistory records every execution in h.
func WithHistory(h history.Recorder) Option {
	return func(s *Service) { s.history = h }
}

// WithNotifier adds a notifier. It may be given several times.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifiers = append(s.notifiers, n) }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service coordinates the loaded view, command execution and history.
type Service struct {
	exec      executor.Executor
	history   history.Recorder
	notifiers []Notifier
	readOpts  []lineview.Option
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.RWMutex
	view     *lineview.View
	checksum string
	loadedAt time.Time
}

// Open builds the view rooted at path. Failing to read the root is an error;
// every other problem shows up as warning lines.
func Open(path string, exec executor.Executor, opts ...Option) (*Service, error) {
	s := &Service{
		exec:   exec,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.readOpts = append([]lineview.Option{lineview.WithLogger(s.logger)}, s.readOpts...)

	view, err := lineview.Read(path, s.readOpts...)
	if err != nil {
		return nil, fmt.Errorf("document: open: %w", err)
	}
	s.install(view)
	return s, nil
}

func (s *Service) install(view *lineview.View) models.ViewSummary {
	sum := fingerprint(view)
	s.mu.Lock()
	s.view = view
	s.checksum = sum
	s.loadedAt = s.now()
	summary := s.summaryLocked()
	s.mu.Unlock()
	return summary
}

// Reload rebuilds the view from its root. On failure the previous view stays
// in place.
func (s *Service) Reload(_ context.Context) (models.ViewSummary, error) {
	s.mu.RLock()
	current := s.view
	s.mu.RUnlock()

	next, err := current.Reload()
	if err != nil {
		s.logger.Warn("document: reload failed", slog.String("root", current.Root()), slog.String("error", err.Error()))
		return models.ViewSummary{}, fmt.Errorf("document: reload: %w", err)
	}
	summary := s.install(next)
	s.logger.Info("document: reloaded",
		slog.String("root", summary.Root),
		slog.Int("lines", summary.Lines),
		slog.String("checksum", summary.Checksum))
	for _, n := range s.notifiers {
		n.ViewReloaded(summary)
	}
	return summary, nil
}

// View returns the current view.
func (s *Service) View() *lineview.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// Summary describes the current view.
func (s *Service) Summary() models.ViewSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summaryLocked()
}

func (s *Service) summaryLocked() models.ViewSummary {
	return models.ViewSummary{
		Root:     s.view.Root(),
		Title:    s.view.Title(),
		Lines:    s.view.Len(),
		Sources:  len(s.view.AllSources()),
		Checksum: s.checksum,
		LoadedAt: s.loadedAt,
	}
}

// Snapshot returns the whole current view.
func (s *Service) Snapshot(_ context.Context) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		ViewSummary: s.summaryLocked(),
		Lines:       details(s.view),
		SourceFiles: nonNilSlice(s.view.AllSources()),
	}
}

// Line returns one line by index.
func (s *Service) Line(_ context.Context, index int) (LineDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	line, ok := s.view.Line(index)
	if !ok {
		return LineDetail{}, fmt.Errorf("document: line %d: %w", index, apperr.ErrNotFound)
	}
	return detail(index, line), nil
}

// Sources returns every file of the current view, root first.
func (s *Service) Sources() []string {
	return s.View().AllSources()
}

// Checksum returns the fingerprint of the current view.
func (s *Service) Checksum() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.checksum
}

// Execute runs the command of the line at index. A non-empty ifMatch must
// equal the current checksum. The returned run is also recorded when the
// spawn itself fails.
func (s *Service) Execute(ctx context.Context, index int, ifMatch string) (*models.Run, error) {
	s.mu.RLock()
	view, sum := s.view, s.checksum
	s.mu.RUnlock()

	if ifMatch != "" && ifMatch != sum {
		return nil, apperr.ErrConflict
	}
	line, ok := view.Line(index)
	if !ok {
		return nil, fmt.Errorf("document: line %d: %w", index, apperr.ErrNotFound)
	}
	if !line.HasCommand() {
		return nil, fmt.Errorf("document: line %d: %w", index, apperr.ErrNoCommand)
	}

	run := models.Run{
		ID:        uuid.NewString(),
		Root:      view.Root(),
		Index:     index,
		Source:    line.Source(),
		Position:  line.Position(),
		Text:      line.Text(),
		Args:      line.Args(),
		StartedAt: s.now(),
	}
	started, execErr := s.exec.Execute(ctx, executor.Command{
		Args:     run.Args,
		Source:   run.Source,
		Position: run.Position,
	})
	run.PID = started.PID
	if execErr != nil {
		run.Error = execErr.Error()
	}

	if s.history != nil {
		if err := s.history.Record(run); err != nil {
			s.logger.Warn("document: record run failed", slog.String("id", run.ID), slog.String("error", err.Error()))
		}
	}
	for _, n := range s.notifiers {
		n.LineExecuted(run)
	}

	if execErr != nil {
		return &run, fmt.Errorf("document: execute line %d: %w", index, execErr)
	}
	return &run, nil
}

// History lists recorded runs newest first. Without a recorder it is empty.
func (s *Service) History(_ context.Context, limit, offset int) ([]models.Run, int, error) {
	if s.history == nil {
		return []models.Run{}, 0, nil
	}
	return s.history.List(limit, offset)
}

// SearchHistory finds recorded runs by line text or arguments.
func (s *Service) SearchHistory(_ context.Context, query string, limit int) ([]models.Run, error) {
	if s.history == nil {
		return []models.Run{}, nil
	}
	return s.history.Search(query, limit)
}

// Run returns a single recorded run.
func (s *Service) Run(_ context.Context, id string) (*models.Run, error) {
	if s.history == nil {
		return nil, fmt.Errorf("document: run %s: %w", id, apperr.ErrNotFound)
	}
	return s.history.Get(id)
}

// Watch reloads the view whenever one of its source files changes, until ctx
// is cancelled.
func (s *Service) Watch(ctx context.Context, debounce time.Duration) error {
	return watcher.Watch(ctx, s.Sources(), debounce, s.logger, func(changed []string) []string {
		s.logger.Debug("document: sources changed", slog.Any("paths", changed))
		if _, err := s.Reload(ctx); err != nil {
			s.logger.Warn("document: watch reload failed", slog.String("error", err.Error()))
		}
		return s.Sources()
	})
}

func details(view *lineview.View) []LineDetail {
	lines := view.Lines()
	out := make([]LineDetail, len(lines))
	for i, l := range lines {
		out[i] = detail(i, l)
	}
	return out
}

func detail(index int, l lineview.Line) LineDetail {
	return LineDetail{
		Index:      index,
		Text:       l.Text(),
		Kind:       l.Kind().String(),
		Source:     l.Source(),
		Position:   l.Position(),
		HasCommand: l.HasCommand(),
		Args:       l.Args(),
	}
}

// fingerprint hashes everything a client can observe about the view.
func fingerprint(view *lineview.View) string {
	sum, err := checksum.JSON(struct {
		Title string       `json:"title"`
		Lines []LineDetail `json:"lines"`
	}{view.Title(), details(view)})
	if err != nil {
		return ""
	}
	return sum
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

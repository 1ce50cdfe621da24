// Package watcher reloads a document when any of its source files changes.
package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Watch is given a non-positive debounce.
const DefaultDebounce = 150 * time.Millisecond

// ReloadFunc is called once per burst of changes with the changed paths,
// sorted. It returns the source list of the rebuilt document, which replaces
// the watched set.
type ReloadFunc func(changed []string) []string

// Watch observes the given source files until ctx is cancelled. fsnotify
// watches directories, so the parent directory of each source is added and
// events are filtered down to the source set. Editors that save by rename
// show up as Create on the source path and are handled the same as Write.
func Watch(ctx context.Context, sources []string, debounce time.Duration, logger *slog.Logger, reload ReloadFunc) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	set := newWatchSet()
	set.arm(w, sources, logger)
	logger.Info("watcher: started", slog.Int("sources", len(set.files)), slog.Int("dirs", len(set.dirs)))

	// reloadTimer debounces bursts of writes into one reload.
	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time
	changed := make(map[string]struct{})

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(debounce)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reloadCh:
			paths := make([]string, 0, len(changed))
			for p := range changed {
				paths = append(paths, p)
			}
			slices.Sort(paths)
			clear(changed)
			reloadTimer, reloadCh = nil, nil

			logger.Debug("watcher: reloading", slog.Any("changed", paths))
			set.arm(w, reload(paths), logger)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			p := filepath.Clean(ev.Name)
			if !set.has(p) {
				continue
			}
			logger.Debug("watcher: source changed", slog.String("path", p), slog.String("op", ev.Op.String()))
			changed[p] = struct{}{}
			scheduleReload()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// watchSet tracks the watched source files and the directories holding them.
type watchSet struct {
	files map[string]struct{}
	dirs  map[string]struct{}
}

func newWatchSet() *watchSet {
	return &watchSet{files: map[string]struct{}{}, dirs: map[string]struct{}{}}
}

func (s *watchSet) has(path string) bool {
	_, ok := s.files[path]
	return ok
}

// arm replaces the watched set with sources, adding and removing directory
// watches as needed. Sources are kept even if their directory could not be
// watched, so a later reload can retry.
func (s *watchSet) arm(w *fsnotify.Watcher, sources []string, logger *slog.Logger) {
	files := make(map[string]struct{}, len(sources))
	dirs := make(map[string]struct{}, len(sources))
	for _, src := range sources {
		src = filepath.Clean(src)
		files[src] = struct{}{}
		dirs[filepath.Dir(src)] = struct{}{}
	}

	for dir := range s.dirs {
		if _, keep := dirs[dir]; keep {
			continue
		}
		if err := w.Remove(dir); err != nil {
			logger.Debug("watcher: remove dir failed", slog.String("path", dir), slog.String("error", err.Error()))
		}
	}
	for dir := range dirs {
		if _, ok := s.dirs[dir]; ok {
			continue
		}
		if err := w.Add(dir); err != nil {
			logger.Warn("watcher: add dir failed", slog.String("path", dir), slog.String("error", err.Error()))
			delete(dirs, dir)
		}
	}

	s.files = files
	s.dirs = dirs
}

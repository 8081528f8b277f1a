package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/jonwraymond/studysearch/query"
)

// contentWatcher triggers a debounced rebuild when a group document under
// root changes.
type contentWatcher struct {
	root     string
	pattern  string
	watcher  *fsnotify.Watcher
	debounce *query.Debouncer
	rebuild  func()
	logger   *slog.Logger
}

func newContentWatcher(root, pattern string, delay time.Duration, rebuild func(), logger *slog.Logger) (*contentWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &contentWatcher{
		root:     root,
		pattern:  pattern,
		watcher:  watcher,
		debounce: query.NewDebouncer(delay, nil),
		rebuild:  rebuild,
		logger:   logger,
	}
	if err := w.addWatches(root); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return w, nil
}

// addWatches watches dir and every directory below it.
func (w *contentWatcher) addWatches(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// Run processes events until ctx is done or the watcher is closed.
func (w *contentWatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("content watcher error", "error", err)
		}
	}
}

func (w *contentWatcher) handle(ev fsnotify.Event) {
	if ev.Op == fsnotify.Chmod {
		return
	}
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			_ = w.addWatches(ev.Name)
			w.debounce.Trigger(w.rebuild)
			return
		}
	}

	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil {
		return
	}
	if ok, _ := doublestar.Match(w.pattern, filepath.ToSlash(rel)); !ok {
		return
	}
	w.logger.Debug("content changed", "path", rel, "op", ev.Op.String())
	w.debounce.Trigger(w.rebuild)
}

// Close stops watching and drops a pending rebuild.
func (w *contentWatcher) Close() error {
	w.debounce.Cancel()
	return w.watcher.Close()
}

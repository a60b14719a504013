// Package watch re-runs the layout pipeline when markdown files change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/mdlayout/internal/pipeline"
)

// Watcher monitors content roots and triggers a callback after markdown
// changes settle.
type Watcher struct {
	roots    []string
	debounce time.Duration
	run      func(ctx context.Context)
}

// New creates a watcher over the given roots. run is invoked after each
// debounced batch of markdown changes; debounce values below 1ms fall back
// to 500ms.
func New(roots []string, debounce time.Duration, run func(ctx context.Context)) *Watcher {
	if debounce < time.Millisecond {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{roots: roots, debounce: debounce, run: run}
}

// Run watches until ctx is cancelled.
//
// fsnotify does not watch recursively, so every directory under the roots is
// registered individually and newly created directories are added as they
// appear. Rewrites performed by the pipeline itself re-trigger events; the
// pipeline only writes when content actually changes, so the follow-up run
// settles as a no-op.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	for _, root := range w.roots {
		if err := addRecursive(watcher, root); err != nil {
			return err
		}
	}

	slog.Info("Watching content roots", "roots", w.roots, "debounce", w.debounce)

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) {
				// New directories need their own watch registration.
				if err := addIfDir(watcher, event.Name); err != nil {
					slog.Warn("Failed to watch new directory", "path", event.Name, "error", err)
				}
			}
			if !pipeline.IsMarkdown(event.Name) {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			slog.Debug("Markdown change detected", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			w.run(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("File watcher error", "error", err)
		}
	}
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", path, err)
		}
		return nil
	})
}

func addIfDir(watcher *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil
	}
	return addRecursive(watcher, path)
}

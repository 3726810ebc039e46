// Package watch implements the optional dev-mode rebuild-on-change loop
// (spec.md's bundler-integration surface does not mandate this, but the
// ambient tooling a real build plugin ships with does). Grounded on
// internal/indexing/watcher.go: fsnotify.NewWatcher, recursive watcher.Add
// over directories, and an event-type switch on event.Op bitmasks, trimmed
// down from the teacher's full debounced/stats-tracking watcher to the
// single callback this tool's rebuild loop needs.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fuzdev/fuzcss/internal/pathfilter"
)

// Watcher rebuilds on any filtered-in file change, debounced.
type Watcher struct {
	fsw      *fsnotify.Watcher
	filter   *pathfilter.Filter
	debounce time.Duration
}

// New creates a Watcher rooted at root, recursively watching every
// directory under it at construction time (fsnotify does not watch
// subtrees automatically).
func New(root string, filter *pathfilter.Filter, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{fsw: fsw, filter: filter, debounce: debounce}

	err = filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if info.IsDir() {
			_ = fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		fsw.Close()
		return nil, err
	}

	return w, nil
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run blocks, invoking onChange (debounced) whenever a filtered-in path is
// created, written, or renamed, until ctx is canceled.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	var timer *time.Timer
	fire := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.debounce, onChange)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !w.filter.Accept(event.Name) {
				continue
			}
			fire()

		case _, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
		}
	}
}

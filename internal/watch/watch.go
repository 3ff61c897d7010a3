// Package watch monitors a fixed set of files and reports debounced change
// events. It backs nbpipe's --watch mode: when a notebook source is edited,
// the pipeline is re-run.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event reports a change to a watched file, or a watcher error.
type Event struct {
	Path string
	Err  error
}

// Watcher monitors a set of files for modification.
type Watcher struct {
	paths    map[string]bool
	watcher  *fsnotify.Watcher
	events   chan Event
	debounce time.Duration
}

// New creates a watcher for the given file paths. The parent directory of
// each file is watched, since editors often replace files on save rather
// than writing them in place.
func New(paths []string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[filepath.Clean(p)] = true
	}

	return &Watcher{
		paths:    set,
		watcher:  fsWatcher,
		events:   make(chan Event, 10),
		debounce: 500 * time.Millisecond,
	}, nil
}

// Events returns the channel that receives change events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins watching. Events are delivered until ctx is cancelled or
// Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	dirs := make(map[string]bool)
	for p := range w.paths {
		dirs[filepath.Dir(p)] = true
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	go w.run(ctx)
	return nil
}

// Stop closes the watcher and cleans up resources.
func (w *Watcher) Stop() error {
	close(w.events)
	return w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	// Debounce map so a burst of writes yields one event per file.
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			path := filepath.Clean(event.Name)
			if !w.paths[path] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				pending[path] = time.Now()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.events <- Event{Err: err}

		case <-ticker.C:
			now := time.Now()
			for path, stamp := range pending {
				if now.Sub(stamp) >= w.debounce {
					delete(pending, path)
					w.events <- Event{Path: path}
				}
			}
		}
	}
}

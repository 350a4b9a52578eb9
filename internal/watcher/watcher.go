// Package watcher monitors the hotstring definitions file and triggers
// reloads when it changes.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces the bursts of events editors emit when saving.
const debounceDelay = 100 * time.Millisecond

// Watcher watches one file and invokes a callback after changes settle.
type Watcher struct {
	path      string
	onChange  func()
	fsWatcher *fsnotify.Watcher

	done      chan struct{}
	wg        sync.WaitGroup
	closeErr  error
	closeOnce sync.Once
}

// New creates a watcher for path. onChange runs on the watcher's goroutine,
// so it must not block for long.
func New(path string, onChange func()) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}

	return &Watcher{
		path:      abs,
		onChange:  onChange,
		fsWatcher: fsWatcher,
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching. The containing directory is watched rather than
// the file itself so atomic save-and-rename (how most editors write) keeps
// working after the original inode disappears.
func (w *Watcher) Start() error {
	if err := w.fsWatcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	w.wg.Add(1)
	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, w.onChange)

		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops watching and waits for the event loop to exit. Pending
// debounced callbacks may still fire.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)
		w.closeErr = w.fsWatcher.Close()
		w.wg.Wait()
	})
	return w.closeErr
}

// Package watcher provides file system watching with debouncing for the
// grammar and theme directories, so edits to .lang and .theme files take
// effect in open documents without restarting the editor.
package watcher

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors the configuration directories and signals changes.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dirs      []string
	debounce  time.Duration
	onChange  chan struct{}
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	// Dirs are the directories to watch (grammar and theme dirs).
	Dirs []string
	// DebounceDur coalesces bursts of events into one signal.
	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(dirs ...string) Config {
	return Config{
		Dirs:        dirs,
		DebounceDur: 500 * time.Millisecond,
	}
}

// New creates a new configuration watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		dirs:      cfg.Dirs,
		debounce:  cfg.DebounceDur,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching the configured directories.
// Returns a channel that receives a signal when a grammar or theme changes.
func (w *Watcher) Start() (<-chan struct{}, error) {
	for _, dir := range w.dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			return nil, fmt.Errorf("watching directory %s: %w", dir, err)
		}
	}

	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if !w.isRelevantEvent(event) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				pending = true
			} else {
				if !timer.Stop() {
					// Drain the timer channel if it already fired
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
				pending = true
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				// Non-blocking send - drop if channel full
				select {
				case w.onChange <- struct{}{}:
				default:
				}
				pending = false
			}

		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			// Keep watching; callers can wrap the watcher if they need
			// error visibility.

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent checks whether the event touches a grammar or theme file.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}

	switch filepath.Ext(event.Name) {
	case ".lang", ".theme":
		return true
	default:
		return false
	}
}

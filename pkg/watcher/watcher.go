package watcher

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a heightmap file and triggers a callback when it changes.
// Change bursts are debounced so a single save produces a single callback.
type Watcher struct {
	fsw      *fsnotify.Watcher
	mu       sync.Mutex
	path     string
	onChange func(string)
	debounce time.Duration
	timer    *time.Timer
	log      *slog.Logger
}

// New creates a watcher with the given debounce interval.
func New(debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Watcher{
		fsw:      fsw,
		debounce: debounce,
		log:      slog.Default().With("component", "watcher"),
	}, nil
}

// Watch registers the file to watch and the callback to invoke on change,
// then starts the event loop. The callback runs on a timer goroutine.
func (w *Watcher) Watch(path string, onChange func(string)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	// Watch the directory rather than the file itself. Editors that save
	// via rename-and-replace would otherwise silently drop the watch.
	if err := w.fsw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", abs, err)
	}

	w.mu.Lock()
	w.path = abs
	w.onChange = onChange
	w.mu.Unlock()

	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			w.mu.Lock()
			match := event.Name == w.path
			w.mu.Unlock()
			if match {
				w.schedule()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

// schedule arms the debounce timer, resetting any pending one.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	path, onChange := w.path, w.onChange
	w.timer = time.AfterFunc(w.debounce, func() {
		onChange(path)
	})
}

// Close stops the watcher. Pending debounced callbacks are cancelled.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fsw.Close()
}

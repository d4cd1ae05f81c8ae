// Package watcher reports changes to the task storage file so a running TUI
// picks up writes made by the CLI.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is how long the watcher waits after the last event before
// calling back. A save touches the file several times; they coalesce into one
// call.
const DefaultDelay = 100 * time.Millisecond

const relevantOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay overrides DefaultDelay.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// Watcher calls back once per burst of changes to any of its files.
type Watcher struct {
	fsw      *fsnotify.Watcher
	callback func()
	delay    time.Duration
	names    map[string]bool

	mu    sync.Mutex
	timer *time.Timer
}

// New watches files. The parent directories are what fsnotify actually
// watches, because an atomic save replaces the file by rename and a watch on
// the old inode would go quiet.
func New(files []string, callback func(), opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		callback: callback,
		delay:    DefaultDelay,
		names:    make(map[string]bool, len(files)),
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, f := range files {
		w.names[filepath.Base(f)] = true
		if err := fsw.Add(filepath.Dir(f)); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Run blocks until ctx is canceled or the underlying watcher closes. Watch
// errors go to errFn when it is not nil.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	defer w.stopTimer()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				w.schedule()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
			}
		}
	}
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	return event.Op&relevantOps != 0 && w.names[filepath.Base(event.Name)]
}

// schedule restarts the quiet-period timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.callback)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

// Package watch monitors one directory with fsnotify and coalesces
// bursts of events into single change notifications.
package watch

import (
	"sync"
	"time"

	"astrofs/internal/errors"
	"astrofs/internal/log"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces event bursts within this window.
const DefaultDebounce = 200 * time.Millisecond

// Watcher follows a single directory at a time. Rapid event bursts
// (an editor's write-rename dance, a bulk copy) collapse into one
// notification on Changes.
type Watcher struct {
	fs       *fsnotify.Watcher
	changes  chan string
	stop     chan struct{}
	debounce time.Duration

	mu  sync.Mutex
	dir string
}

// New creates a watcher. Callers receive coalesced change notifications
// on Changes until Close.
func New(debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(errors.IOError, err, "cannot create filesystem watcher")
	}
	w := &Watcher{
		fs:       fs,
		changes:  make(chan string, 1),
		stop:     make(chan struct{}),
		debounce: debounce,
	}
	go w.loop()
	return w, nil
}

// Watch switches the watcher to dir, dropping the previous directory.
func (w *Watcher) Watch(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dir == dir {
		return nil
	}
	if w.dir != "" {
		if err := w.fs.Remove(w.dir); err != nil {
			log.Debug("unwatch %s: %v", w.dir, err)
		}
		w.dir = ""
	}
	if err := w.fs.Add(dir); err != nil {
		return errors.WrapPath(errors.IOError, err, "cannot watch directory", dir)
	}
	w.dir = dir
	log.Debug("watching %s", dir)
	return nil
}

// Changes delivers the watched directory once per coalesced burst of
// filesystem events.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Close stops the watcher and releases the fsnotify handle.
func (w *Watcher) Close() error {
	close(w.stop)
	return w.fs.Close()
}

func (w *Watcher) loop() {
	defer close(w.changes)
	var (
		timer   *time.Timer
		pending string
	)
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-w.stop:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) == 0 {
				continue
			}
			w.mu.Lock()
			pending = w.dir
			w.mu.Unlock()
			if timer == nil {
				timer = time.AfterFunc(w.debounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(w.debounce)
			}
		case <-fire:
			timer = nil
			select {
			case w.changes <- pending:
			default: // receiver is behind, one pending notification is enough
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Warn("watcher error: %v", err)
		}
	}
}

// Package watch re-runs work when an input file changes. Editors often
// write a file several times per save, so events are coalesced until the
// file has been quiet for the debounce interval.
package watch

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Watcher.Debounce is zero.
const DefaultDebounce = 100 * time.Millisecond

type Watcher struct {
	Debounce time.Duration
	Logger   *slog.Logger

	fw      *fsnotify.Watcher
	done    chan struct{}
	stopped bool
	mu      sync.Mutex
}

func New() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:   fw,
		done: make(chan struct{}),
	}, nil
}

// Watch calls onChange after path is written, created or replaced. The
// parent directory is watched so editors that save by rename keep
// triggering events.
func (w *Watcher) Watch(path string, onChange func(path string)) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.fw.Add(filepath.Dir(absPath)); err != nil {
		return err
	}

	interval := w.Debounce
	if interval <= 0 {
		interval = DefaultDebounce
	}
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var timer *time.Timer
	go func() {
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != absPath {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				logger.Debug("file event", "path", event.Name, "op", event.Op.String())
				if timer == nil {
					timer = time.AfterFunc(interval, func() { w.fire(absPath, onChange) })
				} else {
					timer.Reset(interval)
				}

			case err, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				logger.Warn("watch error", "err", err)

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

func (w *Watcher) fire(path string, onChange func(string)) {
	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if !stopped {
		onChange(path)
	}
}

// Stop ends monitoring and releases all resources. Safe to call multiple
// times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}

// pattern: Imperative Shell

package dashboard

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"agentmon/internal/logging"
)

// Watcher subscribes to worktree root directories and emits a debounced
// refresh signal when anything inside them changes. Watch mode uses it to
// refresh ahead of the fixed interval.
type Watcher struct {
	fsw      *fsnotify.Watcher
	refresh  chan struct{}
	debounce time.Duration
	logger   *logging.ScopedLogger

	mu      sync.Mutex
	watched map[string]bool
	closed  bool
}

func NewWatcher(debounce time.Duration, logger *logging.ScopedLogger) (*Watcher, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		refresh:  make(chan struct{}, 1),
		debounce: debounce,
		logger:   logger,
		watched:  make(map[string]bool),
	}
	go w.loop()
	return w, nil
}

// SetPaths updates the watched directory set to match the given paths.
// Only the top level of each worktree is watched; a recursive watch over
// large trees would cost more than the early refresh is worth.
func (w *Watcher) SetPaths(paths []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	want := make(map[string]bool, len(paths))
	for _, p := range paths {
		want[p] = true
	}

	for p := range w.watched {
		if !want[p] {
			_ = w.fsw.Remove(p)
			delete(w.watched, p)
		}
	}
	for p := range want {
		if !w.watched[p] {
			if err := w.fsw.Add(p); err != nil {
				w.logger.Debug("watch add failed", "path", p, "error", err)
				continue
			}
			w.watched[p] = true
		}
	}
}

// Refresh returns the channel signaled after a debounced burst of events.
func (w *Watcher) Refresh() <-chan struct{} {
	return w.refresh
}

func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	var timer *time.Timer
	for {
		select {
		case _, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case w.refresh <- struct{}{}:
				default:
				}
			})
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Debug("watch error", "error", err)
		}
	}
}

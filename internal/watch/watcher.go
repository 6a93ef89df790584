// Package watch observes a plan file and reports each settled change.
//
// The watcher is a read-only observer: it never writes the plan. It watches
// the file's parent directory rather than the file itself, because atomic
// writes replace the file by rename and a direct file watch would go stale
// after the first update. Bursts of events (editors and atomic writers both
// produce several per save) are debounced into one reload.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/planwright/planwright/internal/errors"
	"github.com/planwright/planwright/internal/logging"
	"github.com/planwright/planwright/internal/plan"
)

// DefaultDebounce is used when no debounce interval is configured.
const DefaultDebounce = 200 * time.Millisecond

// ChangeCallback is invoked after each settled change with the freshly
// loaded document, or with the load error when the file is missing or
// unreadable. The plan may legitimately disappear and reappear mid-watch.
type ChangeCallback func(doc *plan.Document, err error)

// Watcher observes one plan file.
type Watcher struct {
	path     string
	dir      string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *logging.Logger

	onChange ChangeCallback

	started bool
	stopCh  chan struct{}
	mu      sync.RWMutex
}

// New creates a watcher for the plan at path. The debounce interval
// coalesces event bursts; zero or negative falls back to DefaultDebounce.
func New(path string, debounce time.Duration, logger *logging.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.NewStoreError("failed to resolve plan path", err).WithPath(path)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.NewStoreError("failed to create file watcher", err).WithPath(abs)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Watcher{
		path:     abs,
		dir:      filepath.Dir(abs),
		debounce: debounce,
		watcher:  fw,
		logger:   logger.WithPlan(abs),
		stopCh:   make(chan struct{}),
	}, nil
}

// OnChange sets the callback invoked after each settled change.
func (w *Watcher) OnChange(cb ChangeCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = cb
}

// Start begins watching. Safe to call multiple times; subsequent calls are
// no-ops.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	w.started = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.dir); err != nil {
		return errors.NewStoreError("failed to watch plan directory", err).WithPath(w.dir)
	}
	go w.loop()
	return nil
}

// Stop shuts the watcher down. Safe to call multiple times.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	select {
	case <-w.stopCh:
		return
	default:
		close(w.stopCh)
	}
	_ = w.watcher.Close()
}

// loop debounces filesystem events into settled reloads.
func (w *Watcher) loop() {
	timer := time.NewTimer(0)
	<-timer.C // drain initial timer
	defer timer.Stop()

	dirty := false

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.logger.Debug("plan file event", "op", event.Op.String())
			dirty = true
			timer.Reset(w.debounce)

		case <-timer.C:
			if !dirty {
				continue
			}
			dirty = false
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// reload loads the plan and hands the result to the callback.
func (w *Watcher) reload() {
	doc, err := plan.Load(w.path)
	if err != nil {
		w.logger.Debug("plan reload failed", "error", err)
	}

	w.mu.RLock()
	cb := w.onChange
	w.mu.RUnlock()
	if cb != nil {
		cb(doc, err)
	}
}

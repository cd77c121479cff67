// Package watch re-runs a dashboard merge whenever one of the input chart
// files changes. The merge itself stays the same single-pass operation; this
// is only the outer loop around it.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Watcher monitors the parent directories of a set of input files and
// triggers a merge when a watched input settles after a change. Rapid saves
// are debounced so an editor writing in several steps triggers one merge.
type Watcher struct {
	mu       sync.RWMutex
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	merge    func() error
	inputs   map[string]struct{}
	pending  map[string]time.Time
	debounce time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	session  string

	stats Stats
}

// Stats tracks watcher activity.
type Stats struct {
	EventsSeen      int
	MergesTriggered int
	Errors          int
	LastEventTime   time.Time
	LastEventPath   string
}

// New creates a Watcher over the given input paths. merge is invoked after a
// change settles; its error is counted but does not stop the watch loop.
func New(inputs []string, merge func() error, logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	watched := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			abs = filepath.Clean(in)
		}
		watched[abs] = struct{}{}
	}

	return &Watcher{
		watcher:  fsw,
		logger:   logger,
		merge:    merge,
		inputs:   watched,
		pending:  make(map[string]time.Time),
		debounce: 500 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		session:  uuid.NewString(),
	}, nil
}

// SessionID returns the identifier of this watch session.
func (w *Watcher) SessionID() string {
	return w.session
}

// Start begins watching. Non-blocking; the event loop runs in a goroutine
// until Stop is called or the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	// Watch each distinct parent directory; watching the files directly
	// breaks on editors that replace the file on save.
	dirs := make(map[string]struct{})
	for in := range w.inputs {
		dirs[filepath.Dir(in)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			w.logger.Warn("watch: cannot watch directory", zap.String("dir", dir), zap.Error(err))
			continue
		}
		w.logger.Debug("watch: watching directory", zap.String("dir", dir))
	}

	w.logger.Info("watch: session started",
		zap.String("session", w.session),
		zap.Int("inputs", len(w.inputs)))

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to drain.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.logger.Error("watch: error closing watcher", zap.Error(err))
	}
	w.logger.Info("watch: session stopped", zap.String("session", w.session))
}

// IsWatching reports whether the event loop is running.
func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// GetStats returns a snapshot of watcher activity.
func (w *Watcher) GetStats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("watch: context cancelled")
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch: watcher error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			w.processSettled()
		}
	}
}

// handleEvent records a change to one of the watched inputs. Everything else
// in the watched directories is ignored.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		abs = filepath.Clean(event.Name)
	}
	if _, watched := w.inputs[abs]; !watched {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	w.logger.Debug("watch: input changed",
		zap.String("path", abs),
		zap.String("op", event.Op.String()))

	w.mu.Lock()
	w.stats.EventsSeen++
	w.stats.LastEventTime = time.Now()
	w.stats.LastEventPath = abs
	w.pending[abs] = time.Now()
	w.mu.Unlock()
}

// processSettled triggers one merge when every pending change has been quiet
// for the debounce window. Multiple changed inputs coalesce into one merge.
func (w *Watcher) processSettled() {
	w.mu.Lock()
	now := time.Now()
	settled := false
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			delete(w.pending, path)
			settled = true
		}
	}
	w.mu.Unlock()

	if !settled {
		return
	}

	w.logger.Info("watch: change settled, re-merging", zap.String("session", w.session))
	err := w.merge()

	w.mu.Lock()
	w.stats.MergesTriggered++
	if err != nil {
		w.stats.Errors++
	}
	w.mu.Unlock()

	if err != nil {
		w.logger.Error("watch: merge failed", zap.Error(err))
	}
}

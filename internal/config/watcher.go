package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher watches a config file and pushes reloaded configs to a callback.
// Synthesis weights and engine deadlines can be retuned without restarting a
// long-running process. Rapid successive saves are debounced.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	onReload func(*Config)
	logger   *zap.Logger

	debounce time.Duration
	pending  time.Time

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool

	stats WatcherStats
}

// WatcherStats tracks watcher activity for debugging.
type WatcherStats struct {
	Reloads       int
	ReloadErrors  int
	LastEventTime time.Time
}

// NewWatcher creates a Watcher for the config file at path. onReload receives
// every successfully parsed config.
func NewWatcher(path string, logger *zap.Logger, onReload func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  fw,
		path:     path,
		onReload: onReload,
		logger:   logger,
		debounce: 250 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in a goroutine.
// The parent directory is watched because editors replace files on save.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
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
		w.logger.Error("config watcher close failed", zap.Error(err))
	}
}

// Stats returns a snapshot of watcher activity.
func (w *Watcher) Stats() WatcherStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
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
			w.logger.Warn("config watcher error", zap.Error(err))
		case <-ticker.C:
			w.flushPending()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != filepath.Clean(w.path) {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	w.mu.Lock()
	w.pending = time.Now()
	w.stats.LastEventTime = w.pending
	w.mu.Unlock()
}

// flushPending reloads once the debounce window after the last event closes.
func (w *Watcher) flushPending() {
	w.mu.Lock()
	if w.pending.IsZero() || time.Since(w.pending) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.pending = time.Time{}
	w.mu.Unlock()

	cfg, err := Load(w.path)
	if err != nil {
		w.mu.Lock()
		w.stats.ReloadErrors++
		w.mu.Unlock()
		w.logger.Warn("config reload rejected", zap.String("path", w.path), zap.Error(err))
		return
	}

	w.mu.Lock()
	w.stats.Reloads++
	w.mu.Unlock()
	w.logger.Info("config reloaded", zap.String("path", w.path))
	if w.onReload != nil {
		w.onReload(cfg)
	}
}

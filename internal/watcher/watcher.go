// Package watcher watches a single file for changes and reports them after
// a settle delay, so a rebuild fires once per export instead of once per
// write syscall.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultSettleDelay is how long a file must stay quiet before a change is
// reported. Vendor export tools write CSVs in bursts.
const defaultSettleDelay = 250 * time.Millisecond

// Watcher watches one file. Export tools commonly replace the file rather
// than rewrite it in place, so the parent directory is watched and events
// are filtered by name.
type Watcher struct {
	path   string // cleaned absolute path of the watched file
	settle time.Duration
	logger *slog.Logger

	fsw     *fsnotify.Watcher
	changes chan string

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a watcher for path. settle <= 0 uses the default delay.
func New(path string, settle time.Duration, logger *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve watch path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	if settle <= 0 {
		settle = defaultSettleDelay
	}

	return &Watcher{
		path:    abs,
		settle:  settle,
		logger:  logger,
		fsw:     fsw,
		changes: make(chan string, 1),
	}, nil
}

// Changes returns the channel that receives the watched path after each
// settled change.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Start processes events until ctx is canceled. It blocks; run it in a
// goroutine next to the consumer of Changes.
func (w *Watcher) Start(ctx context.Context) error {
	defer w.fsw.Close()

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("file event", "op", event.Op.String(), "path", event.Name)
			w.resetTimer()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// relevant reports whether an event concerns the watched file in a way that
// should trigger a rebuild.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Rename)
}

// resetTimer (re)arms the settle timer. Each new event pushes the report
// further out until the file goes quiet.
func (w *Watcher) resetTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.settle, func() {
		select {
		case w.changes <- w.path:
		default:
			// A change is already queued; the consumer will re-read the
			// latest file contents anyway.
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

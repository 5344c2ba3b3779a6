// Package watch re-runs batch classification whenever a numerals file changes.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"residue/internal/batch"
)

// ResultFunc receives the verdicts of each run, or the error that stopped it.
type ResultFunc func([]batch.Verdict, error)

// Watcher watches one file and classifies its contents after every change.
// The parent directory is watched so that editors which replace the file on
// save are still observed.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	path        string
	classifier  *batch.Classifier
	onResult    ResultFunc
	logger      *zap.Logger
	debounceDur time.Duration
	pending     time.Time // zero when nothing is pending
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	runs        int
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the file must stay quiet before a run.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounceDur = d
		}
	}
}

// WithLogger sets the watcher's logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a Watcher for path. onResult is called from the watcher
// goroutine, once at Start and once per debounced change.
func New(path string, c *batch.Classifier, onResult ResultFunc, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		watcher:     fw,
		path:        abs,
		classifier:  c,
		onResult:    onResult,
		logger:      zap.NewNop(),
		debounceDur: 200 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start classifies the file once and then begins watching it. It does not
// block.
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
	w.logger.Info("Watching numerals file", zap.String("path", w.path))

	w.classify(ctx)
	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		_ = w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.logger.Error("Error closing watcher", zap.Error(err))
	}
	w.logger.Debug("Watcher stopped")
}

// Runs returns how many classification runs have completed.
func (w *Watcher) Runs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runs
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(max(w.debounceDur/4, time.Millisecond))
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
			w.logger.Warn("Watcher error", zap.Error(err))

		case <-ticker.C:
			w.mu.Lock()
			due := !w.pending.IsZero() && time.Since(w.pending) >= w.debounceDur
			if due {
				w.pending = time.Time{}
			}
			w.mu.Unlock()
			if due {
				w.classify(ctx)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	w.logger.Debug("Numerals file changed", zap.String("op", event.Op.String()))

	w.mu.Lock()
	w.pending = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) classify(ctx context.Context) {
	f, err := os.Open(w.path)
	if err != nil {
		w.finish(nil, err)
		return
	}
	defer f.Close()

	verdicts, err := w.classifier.ClassifyReader(ctx, f)
	w.finish(verdicts, err)
}

func (w *Watcher) finish(verdicts []batch.Verdict, err error) {
	w.mu.Lock()
	w.runs++
	w.mu.Unlock()
	if w.onResult != nil {
		w.onResult(verdicts, err)
	}
}

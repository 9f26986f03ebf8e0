package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
)

// DefaultDebounce is used when Options.Debounce is zero.
const DefaultDebounce = 300 * time.Millisecond

// BuildFunc runs one site build. Errors are logged; watching continues.
type BuildFunc func(ctx context.Context, trigger Trigger) error

// Options configures a Watcher.
type Options struct {
	Dirs     []string // Directories watched recursively
	Exclude  []string // Paths never watched, such as the output directory
	Debounce time.Duration
	Interval time.Duration // Periodic rebuild; zero disables
	Build    BuildFunc
	Recorder metrics.Recorder
}

// Watcher rebuilds the site on file changes and on a timer.
type Watcher struct {
	opts     Options
	requests *requests

	mu      sync.Mutex
	builds  int
	lastErr error
}

// New validates opts and returns a Watcher. Run starts it.
func New(opts Options) (*Watcher, error) {
	if opts.Build == nil {
		return nil, errors.New("watch: build function is required")
	}
	if len(opts.Dirs) == 0 {
		return nil, errors.New("watch: at least one directory is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	dirs := make([]string, 0, len(opts.Dirs))
	for _, d := range opts.Dirs {
		abs, err := filepath.Abs(d)
		if err != nil {
			return nil, fmt.Errorf("resolve watch dir %s: %w", d, err)
		}
		dirs = append(dirs, abs)
	}
	opts.Dirs = dirs
	excluded := make([]string, 0, len(opts.Exclude))
	for _, d := range opts.Exclude {
		if abs, err := filepath.Abs(d); err == nil {
			excluded = append(excluded, abs)
		}
	}
	opts.Exclude = excluded
	return &Watcher{opts: opts, requests: newRequests()}, nil
}

// Request queues a rebuild, bypassing the debounce.
func (w *Watcher) Request(t Trigger) { w.requests.push(t) }

// Builds returns how many builds have run.
func (w *Watcher) Builds() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.builds
}

// LastError returns the error of the most recent build, nil after a success.
func (w *Watcher) LastError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// Run performs an initial build, then watches until ctx is done. It returns
// nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fsw.Close() }()
	for _, dir := range w.opts.Dirs {
		if st, statErr := os.Stat(dir); statErr != nil || !st.IsDir() {
			slog.Warn("Watch directory missing", logfields.Path(dir))
			continue
		}
		if err := addDirsRecursive(fsw, dir, w.opts.Exclude); err != nil {
			return err
		}
	}

	deb := newDebouncer(w.opts.Debounce, func() { w.requests.push(TriggerFS) })
	defer deb.stop()

	if w.opts.Interval > 0 {
		sched, err := newScheduler(w.opts.Interval, func() { w.requests.push(TriggerInterval) })
		if err != nil {
			return err
		}
		sched.start()
		defer sched.stop()
	}

	return w.serve(ctx, fsw.Events, fsw.Errors, func(ev fsnotify.Event) { w.handleEvent(fsw, ev, deb) })
}

// serve runs the build worker and dispatches watcher events until ctx is done
// or either channel closes. The worker has stopped when serve returns.
func (w *Watcher) serve(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, handle func(fsnotify.Event)) error {
	workerCtx, stopWorker := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.worker(workerCtx)
	}()
	defer wg.Wait()
	defer stopWorker()

	w.requests.push(TriggerInitial)
	slog.Info("Watching for changes", logfields.Count(len(w.opts.Dirs)), slog.Duration("debounce", w.opts.Debounce))

	for {
		select {
		case <-ctx.Done():
			slog.Info("Watch stopped")
			return nil
		case ev, ok := <-events:
			if !ok {
				slog.Warn("Watcher event stream closed")
				return nil
			}
			handle(ev)
		case err, ok := <-errs:
			if !ok {
				slog.Warn("Watcher error stream closed")
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, ev fsnotify.Event, deb *debouncer) {
	if !relevant(ev, w.opts.Exclude) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(fsw, ev.Name, w.opts.Exclude)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	deb.trigger()
}

// worker runs queued builds one at a time until ctx is done.
func (w *Watcher) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.requests.ready:
		}
		t, ok := w.requests.take()
		if !ok {
			continue
		}
		w.rebuild(ctx, t)
	}
}

func (w *Watcher) rebuild(ctx context.Context, t Trigger) {
	w.opts.Recorder.IncRebuild(string(t))
	slog.Info("Rebuilding site", slog.String("trigger", string(t)))
	start := time.Now()
	err := w.opts.Build(ctx, t)

	w.mu.Lock()
	w.builds++
	w.lastErr = err
	w.mu.Unlock()

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Warn("Rebuild failed", logfields.Error(err))
		return
	}
	slog.Info("Rebuild finished", logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
}

package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
)

type rebuildCounter struct {
	metrics.NoopRecorder
	mu       sync.Mutex
	triggers map[string]int
}

func (r *rebuildCounter) IncRebuild(trigger string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.triggers == nil {
		r.triggers = map[string]int{}
	}
	r.triggers[trigger]++
}

func (r *rebuildCounter) count(trigger Trigger) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.triggers[string(trigger)]
}

func TestRequests_CoalesceToLatestTrigger(t *testing.T) {
	r := newRequests()
	r.push(TriggerFS)
	r.push(TriggerInterval)
	r.push(TriggerFS)

	got, ok := r.take()
	require.True(t, ok)
	assert.Equal(t, TriggerFS, got)
	_, ok = r.take()
	assert.False(t, ok)
	assert.Len(t, r.ready, 1)
}

func TestDebouncer_FiresOnceAfterBurst(t *testing.T) {
	var fired atomic.Int32
	d := newDebouncer(30*time.Millisecond, func() { fired.Add(1) })
	for range 5 {
		d.trigger()
		time.Sleep(5 * time.Millisecond)
	}
	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestShouldIgnoreEvent(t *testing.T) {
	tests := map[string]bool{
		"/site/docs/intro.md":       false,
		"/site/docs/.intro.md.swp":  true,
		"/site/docs/intro.md~":      true,
		"/site/docs/intro.md.swp":   true,
		"/site/docs/#intro.md#":     true,
		"/site/docs/.DS_Store":      true,
		"/site/src/Thumbs.db":       true,
		"/site/src/components/x.js": false,
	}
	for path, want := range tests {
		assert.Equal(t, want, shouldIgnoreEvent(path), path)
	}
}

func TestRelevant(t *testing.T) {
	out := filepath.Join("/site", "public")
	assert.True(t, relevant(fsnotify.Event{Name: "/site/docs/a.md", Op: fsnotify.Write}, []string{out}))
	assert.False(t, relevant(fsnotify.Event{Name: "/site/docs/a.md", Op: fsnotify.Chmod}, []string{out}))
	assert.False(t, relevant(fsnotify.Event{Name: "/site/public/index.html", Op: fsnotify.Create}, []string{out}))
	assert.True(t, relevant(fsnotify.Event{Name: "/site/public-notes/a.md", Op: fsnotify.Create}, []string{out}))
}

func TestNew_Validates(t *testing.T) {
	_, err := New(Options{Dirs: []string{t.TempDir()}})
	require.Error(t, err)

	_, err = New(Options{Build: func(context.Context, Trigger) error { return nil }})
	require.Error(t, err)

	w, err := New(Options{Dirs: []string{t.TempDir()}, Build: func(context.Context, Trigger) error { return nil }})
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.opts.Debounce)
}

func startWatcher(t *testing.T, opts Options) (*Watcher, func() error) {
	t.Helper()
	w, err := New(opts)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	stop := sync.OnceValue(func() error {
		cancel()
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
			return nil
		}
	})
	t.Cleanup(func() { _ = stop() })
	return w, stop
}

func TestWatcher_ServeReturnsWhenEventsClose(t *testing.T) {
	started := make(chan struct{})
	var canceled atomic.Bool
	w, err := New(Options{
		Dirs: []string{t.TempDir()},
		Build: func(ctx context.Context, _ Trigger) error {
			close(started)
			<-ctx.Done()
			canceled.Store(true)
			return ctx.Err()
		},
	})
	require.NoError(t, err)

	events := make(chan fsnotify.Event)
	done := make(chan error, 1)
	go func() { done <- w.serve(t.Context(), events, make(chan error), func(fsnotify.Event) {}) }()

	<-started
	close(events)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after the event stream closed")
	}
	assert.True(t, canceled.Load())
	assert.Equal(t, 1, w.Builds())
}

func TestWatcher_RebuildsOnFileChange(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "guide"), 0o750))
	rec := &rebuildCounter{}

	w, _ := startWatcher(t, Options{
		Dirs:     []string{dir},
		Debounce: 20 * time.Millisecond,
		Build:    func(context.Context, Trigger) error { return nil },
		Recorder: rec,
	})
	require.Eventually(t, func() bool { return w.Builds() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, rec.count(TriggerInitial))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "guide", "setup.md"), []byte("# Setup\n"), 0o600))
	require.Eventually(t, func() bool { return rec.count(TriggerFS) >= 1 }, 2*time.Second, 10*time.Millisecond)
	assert.NoError(t, w.LastError())
}

func TestWatcher_IgnoresExcludedDirectories(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "site")
	require.NoError(t, os.MkdirAll(out, 0o750))
	rec := &rebuildCounter{}

	w, _ := startWatcher(t, Options{
		Dirs:     []string{dir},
		Exclude:  []string{out},
		Debounce: 10 * time.Millisecond,
		Build:    func(context.Context, Trigger) error { return nil },
		Recorder: rec,
	})
	require.Eventually(t, func() bool { return w.Builds() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(out, "index.html"), []byte("x"), 0o600))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, rec.count(TriggerFS))
}

func TestWatcher_CoalescesRequestsDuringBuild(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32

	w, _ := startWatcher(t, Options{
		Dirs: []string{t.TempDir()},
		Build: func(ctx context.Context, _ Trigger) error {
			if calls.Add(1) == 1 {
				select {
				case <-release:
				case <-ctx.Done():
				}
			}
			return nil
		},
	})
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 5*time.Millisecond)

	w.Request(TriggerFS)
	w.Request(TriggerFS)
	w.Request(TriggerInterval)
	close(release)

	require.Eventually(t, func() bool { return w.Builds() == 2 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(2), calls.Load())
}

func TestWatcher_IntervalRebuild(t *testing.T) {
	rec := &rebuildCounter{}
	startWatcher(t, Options{
		Dirs:     []string{t.TempDir()},
		Interval: 50 * time.Millisecond,
		Build:    func(context.Context, Trigger) error { return nil },
		Recorder: rec,
	})
	require.Eventually(t, func() bool { return rec.count(TriggerInterval) >= 1 }, 3*time.Second, 10*time.Millisecond)
}

func TestWatcher_FailedBuildKeepsWatching(t *testing.T) {
	var calls atomic.Int32
	w, stop := startWatcher(t, Options{
		Dirs: []string{t.TempDir()},
		Build: func(context.Context, Trigger) error {
			calls.Add(1)
			return assert.AnError
		},
	})
	require.Eventually(t, func() bool { return w.Builds() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, w.LastError(), assert.AnError)

	w.Request(TriggerFS)
	require.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, 5*time.Millisecond)
	assert.NoError(t, stop())
}

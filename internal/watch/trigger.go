package watch

import (
	"sync"
	"time"
)

// Trigger names why a rebuild was requested.
type Trigger string

const (
	TriggerInitial  Trigger = "initial"
	TriggerFS       Trigger = "fs"
	TriggerInterval Trigger = "interval"
)

// requests is a one-slot queue of pending rebuilds. A request made while one
// is already pending replaces its trigger.
type requests struct {
	mu      sync.Mutex
	pending bool
	trigger Trigger
	ready   chan struct{}
}

func newRequests() *requests {
	return &requests{ready: make(chan struct{}, 1)}
}

func (r *requests) push(t Trigger) {
	r.mu.Lock()
	r.pending = true
	r.trigger = t
	r.mu.Unlock()
	select {
	case r.ready <- struct{}{}:
	default:
	}
}

// take returns the pending trigger and clears it.
func (r *requests) take() (Trigger, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.pending {
		return "", false
	}
	r.pending = false
	return r.trigger, true
}

// debouncer delays a request until no new call arrived for the quiet period.
type debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	quiet time.Duration
	fire  func()
}

func newDebouncer(quiet time.Duration, fire func()) *debouncer {
	return &debouncer{quiet: quiet, fire: fire}
}

func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, d.fire)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

// Package debounce coalesces bursts of calls into a single trailing call.
//
// A Debouncer owns one function. Each Trigger restarts the quiet-period timer;
// the function runs once the timer expires without another Trigger. Timers
// come from a Clock so tests can advance time by hand.
package debounce

import (
	"sync"
	"time"
)

// Timer is the subset of *time.Timer a Debouncer needs.
type Timer interface {
	Stop() bool
}

// Clock creates timers and reports the current time.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// RealClock returns a Clock backed by the time package.
func RealClock() Clock { return realClock{} }

// Debouncer runs fn after delay has passed since the last Trigger.
// Runs of fn never overlap.
type Debouncer struct {
	clock Clock
	delay time.Duration
	fn    func()

	mu      sync.Mutex
	idle    *sync.Cond
	timer   Timer
	gen     uint64
	pending bool
	closed  bool
	running int // timer-started runs not yet finished

	runMu sync.Mutex
}

// Option configures a Debouncer.
type Option func(*Debouncer)

// WithClock replaces the real clock.
func WithClock(c Clock) Option {
	return func(d *Debouncer) {
		if c != nil {
			d.clock = c
		}
	}
}

// New creates a Debouncer for fn.
func New(delay time.Duration, fn func(), opts ...Option) *Debouncer {
	d := &Debouncer{
		clock: RealClock(),
		delay: delay,
		fn:    fn,
	}
	d.idle = sync.NewCond(&d.mu)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Trigger schedules fn, restarting the quiet period. It is a no-op after Close.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = true
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.timer = nil
	d.running++
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.running--
		d.idle.Broadcast()
		d.mu.Unlock()
	}()
	d.run()
}

func (d *Debouncer) run() {
	d.runMu.Lock()
	defer d.runMu.Unlock()
	d.fn()
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Flush runs fn immediately if a call is pending, then waits for any run the
// timer already started. It reports whether fn ran or was waited on.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	ran := d.pending
	if d.pending {
		d.stopLocked()
		d.mu.Unlock()
		d.run()
		d.mu.Lock()
	}
	if d.running > 0 {
		ran = true
	}
	for d.running > 0 {
		d.idle.Wait()
	}
	return ran
}

// Now runs fn immediately, cancelling any pending call.
func (d *Debouncer) Now() {
	d.mu.Lock()
	d.stopLocked()
	d.mu.Unlock()

	d.run()
}

// Cancel drops a pending call without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

// Close cancels any pending call and disables future Triggers.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.closed = true
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.pending = false
}

package query

import (
	"sync"
	"time"
)

// DefaultDebounce is the default quiet interval before a query runs.
const DefaultDebounce = 200 * time.Millisecond

// Timer is a pending scheduled call.
type Timer interface {
	// Stop cancels the call. It reports false if the call already ran or
	// was already stopped.
	Stop() bool
}

// Scheduler runs a function after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules with the runtime timer.
type RealScheduler struct{}

// AfterFunc implements Scheduler using time.AfterFunc.
func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer runs the most recently triggered function once the trigger has
// been quiet for the configured delay.
type Debouncer struct {
	delay time.Duration
	sched Scheduler

	mu    sync.Mutex
	timer Timer
	gen   uint64
}

// NewDebouncer returns a debouncer. A nil scheduler uses RealScheduler and a
// non-positive delay uses DefaultDebounce.
func NewDebouncer(delay time.Duration, sched Scheduler) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	if sched == nil {
		sched = RealScheduler{}
	}
	return &Debouncer{delay: delay, sched: sched}
}

// Delay returns the quiet interval.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Trigger schedules f, replacing any pending function.
func (d *Debouncer) Trigger(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	gen := d.gen
	d.timer = d.sched.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		f()
	})
}

// Cancel drops the pending function, if any. It reports whether one was
// pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopLocked()
}

// Pending reports whether a function is scheduled and has not run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// stopLocked stops the current timer and invalidates its callback even if
// the timer already fired.
func (d *Debouncer) stopLocked() bool {
	d.gen++
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	return true
}

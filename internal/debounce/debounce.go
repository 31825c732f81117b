// Package debounce coalesces bursts of input into one delayed effect.
//
// A Debouncer is Idle until Trigger arms its timer with a payload (Pending).
// Every further Trigger while Pending stops the armed timer and re-arms it
// with the new payload, so only the last payload of a burst reaches the
// effect. Cancel and Close stop a pending timer without running the effect.
package debounce

import (
	"sync"
	"time"
)

type State int

const (
	Idle State = iota
	Pending
)

func (s State) String() string {
	if s == Pending {
		return "pending"
	}
	return "idle"
}

// Timer is the handle of an armed callback.
type Timer interface {
	Stop() bool
}

// Clock arms callbacks. Tests substitute a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock is backed by time.AfterFunc.
var RealClock Clock = realClock{}

type options struct {
	clock Clock
}

type Option func(*options)

func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

type Debouncer[T any] struct {
	window time.Duration
	effect func(T)
	clock  Clock

	mu      sync.Mutex
	state   State
	timer   Timer
	payload T
	gen     uint64 // bumped on every arm and cancel; stale callbacks compare against it
	closed  bool
}

// New returns an idle Debouncer that runs effect window after the last
// Trigger of a burst. effect runs on the clock's goroutine, or on the caller's
// for Flush.
func New[T any](window time.Duration, effect func(T), opts ...Option) *Debouncer[T] {
	o := options{clock: RealClock}
	for _, opt := range opts {
		opt(&o)
	}
	return &Debouncer[T]{window: window, effect: effect, clock: o.clock}
}

// Trigger arms the timer with payload, replacing any pending payload.
func (d *Debouncer[T]) Trigger(payload T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.stopLocked()
	d.gen++
	gen := d.gen
	d.payload = payload
	d.state = Pending
	d.timer = d.clock.AfterFunc(d.window, func() { d.fire(gen) })
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if d.closed || d.state != Pending || gen != d.gen {
		d.mu.Unlock()
		return
	}
	payload := d.takeLocked()
	d.mu.Unlock()

	d.effect(payload)
}

// Cancel drops the pending payload without running the effect. It reports
// whether anything was pending.
func (d *Debouncer[T]) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != Pending {
		return false
	}
	d.stopLocked()
	d.gen++
	d.takeLocked()
	return true
}

// Flush runs the effect now with the pending payload, if any.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if d.closed || d.state != Pending {
		d.mu.Unlock()
		return false
	}
	d.stopLocked()
	d.gen++
	payload := d.takeLocked()
	d.mu.Unlock()

	d.effect(payload)
	return true
}

// Close cancels any pending payload and ignores later Triggers.
func (d *Debouncer[T]) Close() {
	d.Cancel()
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

func (d *Debouncer[T]) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Pending reports whether a payload is waiting for its timer.
func (d *Debouncer[T]) Pending() bool {
	return d.State() == Pending
}

func (d *Debouncer[T]) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer[T]) takeLocked() T {
	payload := d.payload
	var zero T
	d.payload = zero
	d.state = Idle
	d.timer = nil
	return payload
}

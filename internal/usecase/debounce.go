package usecase

import (
	"sync"
	"time"
)

// Debouncer delays propagation of a changing value until it has been stable
// for the configured delay. Every Set cancels the previously scheduled
// emission, so values superseded within the window never fire. Emitted
// values arrive on C; the channel holds at most one pending value and a
// newer emission replaces an unconsumed older one.
type Debouncer[T any] struct {
	delay   time.Duration
	mu      sync.Mutex
	timer   *time.Timer
	out     chan T
	stopped bool
}

// NewDebouncer creates a debouncer with the given settle delay.
func NewDebouncer[T any](delay time.Duration) *Debouncer[T] {
	return &Debouncer[T]{
		delay: delay,
		out:   make(chan T, 1),
	}
}

// Set records a new input value. Any pending emission is cancelled and the
// latest value is scheduled delay from now.
func (d *Debouncer[T]) Set(value T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.emit(value)
	})
}

// C returns the channel carrying settled values.
func (d *Debouncer[T]) C() <-chan T {
	return d.out
}

// Stop cancels any pending emission and prevents all further ones.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// emit delivers a settled value, replacing an unconsumed older one so the
// consumer always sees the latest.
func (d *Debouncer[T]) emit(value T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	for {
		select {
		case d.out <- value:
			return
		default:
			select {
			case <-d.out:
			default:
			}
		}
	}
}

package watch

import (
	"sync"
	"time"
)

// Debouncer collects items and hands them to a callback once no new item
// has arrived for the configured quiet period. Callbacks never overlap:
// items arriving while one runs are delivered in the next batch.
type Debouncer[T any] struct {
	quiet    time.Duration
	callback func([]T)

	mu       sync.Mutex
	timer    *time.Timer
	batch    []T
	running  bool
	stopped  bool
	deferred bool
}

func NewDebouncer[T any](quiet time.Duration, callback func([]T)) *Debouncer[T] {
	return &Debouncer[T]{quiet: quiet, callback: callback}
}

// Add queues item and restarts the quiet period.
func (d *Debouncer[T]) Add(item T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.batch = append(d.batch, item)
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, d.fire)
}

func (d *Debouncer[T]) fire() {
	d.mu.Lock()
	if d.stopped || len(d.batch) == 0 {
		d.mu.Unlock()
		return
	}
	if d.running {
		d.deferred = true
		d.mu.Unlock()
		return
	}
	batch := d.batch
	d.batch = nil
	d.running = true
	d.mu.Unlock()

	d.callback(batch)

	d.mu.Lock()
	d.running = false
	if d.deferred && !d.stopped {
		d.deferred = false
		d.timer = time.AfterFunc(d.quiet, d.fire)
	}
	d.mu.Unlock()
}

// Stop drops queued items. A callback already running finishes.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.batch = nil
}

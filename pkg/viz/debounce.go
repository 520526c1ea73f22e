package viz

import (
	"context"
	"sync"
	"time"
)

// Debouncer runs only the last of a burst of triggers, once the burst has
// been quiet for the configured delay. A new trigger also cancels the
// context handed to a call that is still running.
type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
	gen    uint64 // last trigger
	done   uint64 // last trigger that finished or was dropped
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

func (d *Debouncer) Trigger(fn func(ctx context.Context)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		if ctx.Err() == nil {
			fn(ctx)
		}
		d.mu.Lock()
		d.done = max(d.done, gen)
		d.mu.Unlock()
	})
}

// Pending reports whether the last trigger is still waiting or running.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.done != d.gen
}

// Stop drops any pending call and cancels one in progress.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

func (d *Debouncer) stopLocked() {
	d.done = d.gen
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

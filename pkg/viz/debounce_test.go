package viz

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerRunsLastTriggerOnce(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	t.Cleanup(d.Stop)

	var calls atomic.Int32
	var last atomic.Int32
	for i := 1; i <= 3; i++ {
		i := i
		d.Trigger(func(context.Context) {
			calls.Add(1)
			last.Store(int32(i))
		})
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(150 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected 1 call, got %d", got)
	}
	if got := last.Load(); got != 3 {
		t.Fatalf("expected the last trigger to run, got %d", got)
	}
}

func TestDebouncerCancelsRunningCall(t *testing.T) {
	d := NewDebouncer(time.Millisecond)
	t.Cleanup(d.Stop)

	started := make(chan struct{})
	cancelled := make(chan struct{})
	d.Trigger(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		close(cancelled)
	})
	<-started
	d.Trigger(func(context.Context) {})

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatalf("expected the running call to be cancelled")
	}
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int32
	d.Trigger(func(context.Context) { calls.Add(1) })
	d.Stop()
	time.Sleep(60 * time.Millisecond)
	if calls.Load() != 0 {
		t.Fatalf("stopped debouncer must not fire")
	}
}

func TestDebouncerPending(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	t.Cleanup(d.Stop)
	if d.Pending() {
		t.Fatalf("a fresh debouncer has nothing pending")
	}

	release := make(chan struct{})
	d.Trigger(func(context.Context) { <-release })
	if !d.Pending() {
		t.Fatalf("expected a pending call after Trigger")
	}
	time.Sleep(40 * time.Millisecond)
	if !d.Pending() {
		t.Fatalf("expected the running call to count as pending")
	}
	close(release)

	deadline := time.Now().Add(time.Second)
	for d.Pending() {
		if time.Now().After(deadline) {
			t.Fatalf("expected Pending to clear after the call returned")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

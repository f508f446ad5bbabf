package events

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBus_EmitReachesSubscribers(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	defer sub.Cancel()

	bus.Emit()

	select {
	case <-sub.Chan():
	case <-time.After(time.Second):
		t.Fatal("expected event on subscriber channel")
	}
}

func TestBus_EmitNonBlockingWhenFull(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	defer sub.Cancel()

	// Second emit must not block even though nobody is draining
	done := make(chan struct{})
	go func() {
		bus.Emit()
		bus.Emit()
		bus.Emit()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full subscriber channel")
	}
}

func TestSubscription_CancelIsIdempotent(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()

	assert.NotPanics(t, func() {
		sub.Cancel()
		sub.Cancel()
	})

	// Emitting after cancel must not panic on the closed channel
	assert.NotPanics(t, func() { bus.Emit() })
}

func TestSubscription_Watch(t *testing.T) {
	bus := NewBus()

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus.Subscribe().Watch(ctx, func() { calls.Add(1) }, true)
	assert.Equal(t, int32(1), calls.Load())

	bus.Emit()
	assert.Eventually(t, func() bool {
		return calls.Load() == 2
	}, time.Second, 5*time.Millisecond)
}

func TestSubscription_WatchStopsOnContextCancel(t *testing.T) {
	bus := NewBus()

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	bus.Subscribe().Watch(ctx, func() { calls.Add(1) }, false)
	cancel()

	// Wait for the watcher to unsubscribe itself
	assert.Eventually(t, func() bool {
		bus.mu.RLock()
		defer bus.mu.RUnlock()
		return len(bus.subscribers) == 0
	}, time.Second, 5*time.Millisecond)

	before := calls.Load()
	bus.Emit()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, before, calls.Load())
}

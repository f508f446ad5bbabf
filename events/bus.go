// Package events provides a small notification bus used to push state
// transitions to subscribers (the rendering layer) without blocking the
// producer.
package events

import (
	"context"
	"sync"
)

// Subscription is a single subscriber's handle on a Bus
type Subscription struct {
	ch     chan struct{}
	bus    *Bus
	cancel context.CancelFunc
	once   sync.Once
}

// Chan returns a read-only channel signalled on each event
func (s *Subscription) Chan() <-chan struct{} { return s.ch }

// Cancel unsubscribes and closes the channel. Safe for repeated calls.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		s.bus.unsubscribe(s.ch)
	})
}

// Watch starts a goroutine that calls cb on each event. If callNow is true,
// cb is called immediately. The subscription is cancelled when parentCtx ends.
func (s *Subscription) Watch(parentCtx context.Context, cb func(), callNow bool) *Subscription {
	ctx, cancel := context.WithCancel(parentCtx)
	s.cancel = cancel

	if callNow {
		cb()
	}

	go func() {
		defer s.Cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.ch:
				cb()
			}
		}
	}()

	return s
}

// Bus fans events out to all current subscribers
type Bus struct {
	mu          sync.RWMutex
	subscribers map[chan struct{}]struct{}
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{subscribers: make(map[chan struct{}]struct{})}
}

// Subscribe registers a new subscriber and returns its subscription
func (b *Bus) Subscribe() *Subscription {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	return &Subscription{ch: ch, bus: b}
}

func (b *Bus) unsubscribe(ch chan struct{}) {
	b.mu.Lock()
	if _, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Emit notifies all subscribers without blocking; a subscriber whose channel
// is already full keeps its single pending signal.
func (b *Bus) Emit() {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subscribers {
		select {
		case sub <- struct{}{}:
		default:
		}
	}
}

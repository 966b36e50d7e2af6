package pubsub

import (
	"context"
	"sync"
	"time"
)

const defaultBufferSize = 32

// Broker fans events out to any number of subscribers. It sits between the
// highlighting core and the UI, so Publish must never block: a subscriber
// that stops draining loses events rather than stalling a keystroke.
type Broker[T any] struct {
	mu         sync.RWMutex
	subs       map[chan Event[T]]struct{}
	done       chan struct{}
	bufferSize int
}

// NewBroker creates a broker with the default per-subscriber buffer.
func NewBroker[T any]() *Broker[T] {
	return NewBrokerWithBuffer[T](defaultBufferSize)
}

// NewBrokerWithBuffer creates a broker whose subscribers buffer size events.
func NewBrokerWithBuffer[T any](size int) *Broker[T] {
	return &Broker[T]{
		subs:       make(map[chan Event[T]]struct{}),
		done:       make(chan struct{}),
		bufferSize: size,
	}
}

func (b *Broker[T]) stopped() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

// Subscribe registers a new subscriber. The returned channel closes when ctx
// is cancelled or the broker shuts down; subscribing to a closed broker
// yields an already-closed channel.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped() {
		ch := make(chan Event[T])
		close(ch)
		return ch
	}

	sub := make(chan Event[T], b.bufferSize)
	b.subs[sub] = struct{}{}

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()

		if b.stopped() {
			return
		}
		delete(b.subs, sub)
		close(sub)
	}()

	return sub
}

// Publish delivers an event to every subscriber with room in its buffer.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	event := Event[T]{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.stopped() {
		return
	}

	for sub := range b.subs {
		select {
		case sub <- event:
		default:
		}
	}
}

// Close shuts the broker down and closes every subscriber channel.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped() {
		return
	}

	close(b.done)
	for sub := range b.subs {
		close(sub)
	}
	b.subs = nil
}

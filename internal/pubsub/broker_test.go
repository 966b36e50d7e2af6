package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBroker_PublishDeliversToSubscriber(t *testing.T) {
	b := NewBroker[string]()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := b.Subscribe(ctx)
	b.Publish(WarningEvent, "could not open theme")

	select {
	case ev := <-sub:
		require.Equal(t, WarningEvent, ev.Type)
		require.Equal(t, "could not open theme", ev.Payload)
		require.False(t, ev.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBroker_MultipleSubscribersEachReceive(t *testing.T) {
	b := NewBroker[int]()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := b.Subscribe(ctx)
	second := b.Subscribe(ctx)

	b.Publish(ChangedEvent, 7)

	for _, sub := range []<-chan Event[int]{first, second} {
		select {
		case ev := <-sub:
			require.Equal(t, 7, ev.Payload)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestBroker_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	b := NewBrokerWithBuffer[int](1)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := b.Subscribe(ctx)

	// Second publish must not block even though nothing is draining.
	done := make(chan struct{})
	go func() {
		b.Publish(ChangedEvent, 1)
		b.Publish(ChangedEvent, 2)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber buffer")
	}

	ev := <-sub
	require.Equal(t, 1, ev.Payload)
}

func TestBroker_SubscribeAfterCloseReturnsClosedChannel(t *testing.T) {
	b := NewBroker[string]()
	b.Close()

	sub := b.Subscribe(context.Background())
	_, ok := <-sub
	require.False(t, ok)
}

func TestBroker_CancelledContextRemovesSubscriber(t *testing.T) {
	b := NewBroker[string]()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub := b.Subscribe(ctx)
	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-sub:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan Event[T]) Event[T] {
	t.Helper()
	select {
	case event, ok := <-ch:
		require.True(t, ok, "channel closed")
		return event
	case <-time.After(time.Second):
		require.FailNow(t, "timeout waiting for event")
	}
	return Event[T]{}
}

func TestBroker_Subscribe(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := broker.Subscribe(ctx)
	broker.Publish(RestyledEvent, "doc-1")

	event := receive(t, ch)
	require.Equal(t, "doc-1", event.Payload)
	require.Equal(t, RestyledEvent, event.Type)
	require.Equal(t, uint64(1), event.Seq)
	require.False(t, event.Timestamp.IsZero())
}

func TestBroker_SequenceIsShared(t *testing.T) {
	broker := NewBroker[int]()
	defer broker.Close()

	ch1 := broker.Subscribe(context.Background())
	ch2 := broker.Subscribe(context.Background())
	require.Equal(t, 2, broker.SubscriberCount())

	broker.Publish(RestyledEvent, 1)
	broker.Publish(ReconfiguredEvent, 2)

	for _, ch := range []<-chan Event[int]{ch1, ch2} {
		first, second := receive(t, ch), receive(t, ch)
		require.Equal(t, uint64(1), first.Seq)
		require.Equal(t, uint64(2), second.Seq)
		require.Equal(t, ReconfiguredEvent, second.Type)
	}
}

func TestBroker_ContextCancellation(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := broker.Subscribe(ctx)
	require.Equal(t, 1, broker.SubscriberCount())

	cancel()
	require.Eventually(t, func() bool { return broker.SubscriberCount() == 0 }, time.Second, 5*time.Millisecond)

	_, ok := <-ch
	require.False(t, ok, "channel should be closed")
}

func TestBroker_DropsWhenFull(t *testing.T) {
	broker := NewBrokerWithBuffer[int](1)
	defer broker.Close()

	ch := broker.Subscribe(context.Background())

	done := make(chan struct{})
	go func() {
		broker.Publish(RestyledEvent, 1)
		broker.Publish(RestyledEvent, 2)
		broker.Publish(RestyledEvent, 3)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.FailNow(t, "Publish blocked")
	}

	require.Equal(t, 1, receive(t, ch).Payload)
	require.Equal(t, uint64(2), broker.Dropped())
}

func TestBroker_Close(t *testing.T) {
	broker := NewBroker[string]()

	ch1 := broker.Subscribe(context.Background())
	ch2 := broker.Subscribe(context.Background())

	broker.Close()
	broker.Close()

	_, ok1 := <-ch1
	_, ok2 := <-ch2
	require.False(t, ok1)
	require.False(t, ok2)
	require.Zero(t, broker.SubscriberCount())

	ch3 := broker.Subscribe(context.Background())
	_, ok3 := <-ch3
	require.False(t, ok3, "subscriptions after close are closed at once")

	require.NotPanics(t, func() { broker.Publish(ClosedEvent, "late") })
}

func TestBroker_CancelAfterClose(t *testing.T) {
	broker := NewBroker[string]()
	ctx, cancel := context.WithCancel(context.Background())
	ch := broker.Subscribe(ctx)

	broker.Close()
	require.NotPanics(t, func() { cancel() })

	_, ok := <-ch
	require.False(t, ok)
}

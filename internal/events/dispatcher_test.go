package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAsyncDispatcherDeliversOffTheCallerGoroutine(t *testing.T) {
	d := NewAsyncDispatcher(zap.NewNop(), 8)
	defer d.Close()

	received := make(chan Event, 1)
	d.Subscribe(EventComplaintCreated, func(_ context.Context, event Event) error {
		received <- event
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventComplaintCreated, ComplaintID: "c-1"})
	require.NoError(t, err)

	select {
	case event := <-received:
		assert.Equal(t, "c-1", event.ComplaintID)
		assert.NotEmpty(t, event.ID)
		assert.False(t, event.Timestamp.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not invoked")
	}
}

func TestAsyncDispatcherHandlerErrorDoesNotStopOthers(t *testing.T) {
	d := NewAsyncDispatcher(zap.NewNop(), 8)
	defer d.Close()

	var mu sync.Mutex
	calls := []string{}
	done := make(chan struct{})

	d.Subscribe(EventComplaintCreated, func(context.Context, Event) error {
		mu.Lock()
		calls = append(calls, "first")
		mu.Unlock()
		return errors.New("transport down")
	})
	d.Subscribe(EventComplaintCreated, func(context.Context, Event) error {
		mu.Lock()
		calls = append(calls, "second")
		mu.Unlock()
		close(done)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventComplaintCreated}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second handler was not invoked")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestAsyncDispatcherPublishNeverBlocks(t *testing.T) {
	// No consumer drains a size-1 queue with a stuck handler; extra
	// publishes must drop rather than block.
	d := NewAsyncDispatcher(zap.NewNop(), 1)
	defer d.Close()

	block := make(chan struct{})
	defer close(block)
	d.Subscribe(EventComplaintCreated, func(context.Context, Event) error {
		<-block
		return nil
	})

	finished := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			_ = d.Publish(context.Background(), Event{Type: EventComplaintCreated})
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
}

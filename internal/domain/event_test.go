package domain

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBusPublishReachesSubscriber(t *testing.T) {
	bus := NewInMemoryEventBus()
	received := make(chan EventPayload, 1)

	bus.Subscribe(EventMessageReceived, func(ctx context.Context, payload EventPayload) {
		received <- payload
	})

	bus.Publish(context.Background(), EventPayload{
		Type:        EventMessageReceived,
		WorkspaceID: "ws1",
		EntityID:    "msg-1",
	})

	select {
	case payload := <-received:
		assert.Equal(t, "ws1", payload.WorkspaceID)
		assert.Equal(t, "msg-1", payload.EntityID)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber never received the event")
	}
}

func TestEventBusPublishOnlyMatchingType(t *testing.T) {
	bus := NewInMemoryEventBus()
	var statusCalls atomic.Int32

	bus.Subscribe(EventMessageStatus, func(ctx context.Context, payload EventPayload) {
		statusCalls.Add(1)
	})

	done := make(chan error, 1)
	bus.PublishWithAck(context.Background(), EventPayload{Type: EventContactOptedOut}, func(err error) {
		done <- err
	})

	require.NoError(t, <-done)
	assert.Zero(t, statusCalls.Load())
}

func TestEventBusPublishWithAckWaitsForAllHandlers(t *testing.T) {
	bus := NewInMemoryEventBus()
	var calls atomic.Int32

	for i := 0; i < 3; i++ {
		bus.Subscribe(EventCampaignScheduled, func(ctx context.Context, payload EventPayload) {
			calls.Add(1)
		})
	}

	done := make(chan error, 1)
	bus.PublishWithAck(context.Background(), EventPayload{Type: EventCampaignScheduled}, func(err error) {
		done <- err
	})

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ack callback never fired")
	}
	assert.Equal(t, int32(3), calls.Load())
}

func TestEventBusReportsHandlerPanic(t *testing.T) {
	bus := NewInMemoryEventBus()

	bus.Subscribe(EventKillSwitchTripped, func(ctx context.Context, payload EventPayload) {
		panic("handler blew up")
	})

	done := make(chan error, 1)
	bus.PublishWithAck(context.Background(), EventPayload{Type: EventKillSwitchTripped}, func(err error) {
		done <- err
	})

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "panic in event handler")
	case <-time.After(2 * time.Second):
		t.Fatal("ack callback never fired")
	}
}

func TestEventBusNoSubscribersAcksImmediately(t *testing.T) {
	bus := NewInMemoryEventBus()

	done := make(chan error, 1)
	bus.PublishWithAck(context.Background(), EventPayload{Type: EventTemplateStatus}, func(err error) {
		done <- err
	})

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("ack callback never fired")
	}
}

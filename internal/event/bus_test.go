package event

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusFanOut(t *testing.T) {
	bus := NewBus()

	first := make(chan Event, 1)
	second := make(chan Event, 1)
	bus.Subscribe(func(e Event) { first <- e })
	bus.Subscribe(func(e Event) { second <- e })

	published := Event{Type: ExpenseApproved, EntityID: uuid.New(), ActorID: uuid.New()}
	bus.Publish(published)

	for _, ch := range []chan Event{first, second} {
		select {
		case got := <-ch:
			assert.Equal(t, published.Type, got.Type)
			assert.Equal(t, published.EntityID, got.EntityID)
			assert.False(t, got.At.IsZero())
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestBusSubscriberPanicDoesNotStopDelivery(t *testing.T) {
	bus := NewBus()

	bus.Subscribe(func(Event) { panic("boom") })
	received := make(chan Event, 1)
	bus.Subscribe(func(e Event) { received <- e })

	bus.Publish(Event{Type: POCancelled, EntityID: uuid.New()})

	select {
	case got := <-received:
		require.Equal(t, POCancelled, got.Type)
	case <-time.After(time.Second):
		t.Fatal("subscriber after the panicking one never ran")
	}
}

func TestBusPublishWithNoSubscribers(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() {
		bus.Publish(Event{Type: DonationReceived, EntityID: uuid.New()})
	})
}

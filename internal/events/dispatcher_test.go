package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []EventType
	d.Subscribe(EventLeadAssigned, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})

	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventLeadAssigned, LeadID: "l-1"}))
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventLeadDeleted, LeadID: "l-1"}))
	assert.Equal(t, []EventType{EventLeadAssigned}, got)
}

func TestDispatcherRunsAllHandlersOnFailure(t *testing.T) {
	d := NewInMemoryDispatcher()
	calls := 0
	d.Subscribe(EventLeadCreated, func(context.Context, Event) error {
		calls++
		return errors.New("webhook down")
	})
	d.Subscribe(EventLeadCreated, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventLeadCreated})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "webhook down")
	assert.Equal(t, 2, calls)
}

func TestDispatcherRecoversHandlerPanic(t *testing.T) {
	d := NewInMemoryDispatcher()
	delivered := false
	d.Subscribe(EventLeadDeleted, func(context.Context, Event) error { panic("nil map") })
	d.Subscribe(EventLeadDeleted, func(context.Context, Event) error {
		delivered = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventLeadDeleted})
	assert.ErrorContains(t, err, "panic: nil map")
	assert.True(t, delivered)
}

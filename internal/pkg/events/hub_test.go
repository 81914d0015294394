package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishRoutesByEmployee(t *testing.T) {
	hub := NewHub()

	mine, cleanupMine := hub.Subscribe("emp-1")
	defer cleanupMine()
	theirs, cleanupTheirs := hub.Subscribe("emp-2")
	defer cleanupTheirs()

	hub.Publish(Event{EmployeeID: "emp-1", Name: "leave.balance_changed", Data: "payload"})

	require.Len(t, mine, 1)
	event := <-mine
	assert.Equal(t, "leave.balance_changed", event.Name)
	assert.Equal(t, "payload", event.Data)

	assert.Len(t, theirs, 0)
}

func TestFirehoseReceivesEverything(t *testing.T) {
	hub := NewHub()

	all, cleanup := hub.SubscribeAll()
	defer cleanup()

	hub.Publish(Event{EmployeeID: "emp-1", Name: "a"})
	hub.Publish(Event{EmployeeID: "emp-2", Name: "b"})

	assert.Len(t, all, 2)
}

func TestPublishNeverBlocksOnFullSubscriber(t *testing.T) {
	hub := NewHub()

	stream, cleanup := hub.Subscribe("emp-1")
	defer cleanup()

	// One more than the channel buffer; the overflow event is dropped.
	for i := 0; i < cap(stream)+1; i++ {
		hub.Publish(Event{EmployeeID: "emp-1", Name: "tick"})
	}

	assert.Len(t, stream, cap(stream))
}

func TestCleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub()

	_, cleanup := hub.Subscribe("emp-1")
	assert.Equal(t, 1, hub.SubscriberCount("emp-1"))

	cleanup()
	assert.Equal(t, 0, hub.SubscriberCount("emp-1"))

	// Publishing after cleanup must not panic on the closed channel.
	hub.Publish(Event{EmployeeID: "emp-1", Name: "tick"})
}

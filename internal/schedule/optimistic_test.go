package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeEvents() []Item {
	return []Item{
		{ID: "a", Status: "ACTIVE"},
		{ID: "b", Status: "ACTIVE"},
		{ID: "c", Status: "CANCELLED"},
	}
}

func TestApply_Cancel(t *testing.T) {
	events := threeEvents()

	rb, ok := Apply(&events, ActionCancel, "b")

	require.True(t, ok)
	assert.Equal(t, "CANCELLED", events[1].Status)

	rb.Revert(&events)
	assert.Equal(t, "ACTIVE", events[1].Status, "Revert restores the previous status")
}

func TestApply_Restore(t *testing.T) {
	events := threeEvents()

	rb, ok := Apply(&events, ActionRestore, "c")

	require.True(t, ok)
	assert.Equal(t, "ACTIVE", events[2].Status)

	rb.Revert(&events)
	assert.Equal(t, "CANCELLED", events[2].Status)
}

func TestApply_DeleteAndRevert(t *testing.T) {
	events := threeEvents()

	rb, ok := Apply(&events, ActionDelete, "b")

	require.True(t, ok)
	require.Len(t, events, 2)
	assert.Equal(t, "a", events[0].ID)
	assert.Equal(t, "c", events[1].ID)

	rb.Revert(&events)
	require.Len(t, events, 3)
	assert.Equal(t, "b", events[1].ID, "Revert reinserts the item at its original index")
}

func TestApply_UnknownIDLeavesListUntouched(t *testing.T) {
	events := threeEvents()

	_, ok := Apply(&events, ActionCancel, "missing")

	assert.False(t, ok)
	assert.Equal(t, threeEvents(), events)
}

func TestReconcile(t *testing.T) {
	events := threeEvents()

	Reconcile(&events, Item{ID: "b", Title: "Canonical title", Status: "CANCELLED"})

	assert.Equal(t, "Canonical title", events[1].Title)
	assert.Equal(t, "CANCELLED", events[1].Status)
}

func TestFlight_SingleFlightPerID(t *testing.T) {
	flight := NewFlight()

	require.True(t, flight.Begin("ev1"))
	assert.False(t, flight.Begin("ev1"), "Second mutation on the same id is a no-op while pending")
	assert.True(t, flight.Begin("ev2"), "Different events may be mutated concurrently")

	flight.End("ev1")
	assert.False(t, flight.InFlight("ev1"))
	assert.True(t, flight.Begin("ev1"), "Finished id may start a new mutation")
}

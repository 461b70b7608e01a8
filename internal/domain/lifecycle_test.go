package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []ComplaintStatus{
	ComplaintStatusWaitingAssignment,
	ComplaintStatusAssigned,
	ComplaintStatusInProgress,
	ComplaintStatusResolved,
	ComplaintStatusClosed,
	ComplaintStatusInQueue,
}

var allEvents = []LifecycleEvent{
	EventAssignWorkers,
	EventAddWorker,
	EventStartWork,
	EventMarkResolved,
	EventCloseWithFeedback,
	EventReopen,
	EventEscalate,
	EventForward,
	EventDelete,
}

func TestNextStatusDefinedForEveryPair(t *testing.T) {
	for _, event := range allEvents {
		for _, status := range allStatuses {
			next, ok := NextStatus(status, event)
			if ok {
				assert.NotEmpty(t, next, "event %s from %s", event, status)
			} else {
				assert.Equal(t, status, next, "rejected event %s must not move %s", event, status)
			}
		}
	}
}

func TestPrimaryTrackTransitions(t *testing.T) {
	cases := []struct {
		event LifecycleEvent
		from  ComplaintStatus
		to    ComplaintStatus
	}{
		{EventAssignWorkers, ComplaintStatusWaitingAssignment, ComplaintStatusAssigned},
		{EventStartWork, ComplaintStatusAssigned, ComplaintStatusInProgress},
		{EventStartWork, ComplaintStatusInQueue, ComplaintStatusInProgress},
		{EventMarkResolved, ComplaintStatusInProgress, ComplaintStatusResolved},
		{EventCloseWithFeedback, ComplaintStatusResolved, ComplaintStatusClosed},
		{EventReopen, ComplaintStatusResolved, ComplaintStatusInProgress},
		{EventReopen, ComplaintStatusClosed, ComplaintStatusInQueue},
	}
	for _, tc := range cases {
		next, ok := NextStatus(tc.from, tc.event)
		require.True(t, ok, "event %s from %s", tc.event, tc.from)
		assert.Equal(t, tc.to, next)
	}
}

func TestStationaryEventsKeepStatus(t *testing.T) {
	for _, event := range []LifecycleEvent{EventAddWorker, EventEscalate, EventForward} {
		for _, status := range allStatuses {
			next, ok := NextStatus(status, event)
			if ok {
				assert.Equal(t, status, next, "event %s must not move the primary track", event)
			}
		}
	}
}

func TestTerminalAndExclusiveRejections(t *testing.T) {
	assert.False(t, CanApply(EventAssignWorkers, ComplaintStatusAssigned))
	assert.False(t, CanApply(EventForward, ComplaintStatusAssigned))
	assert.False(t, CanApply(EventDelete, ComplaintStatusAssigned))
	assert.False(t, CanApply(EventStartWork, ComplaintStatusWaitingAssignment))
	assert.False(t, CanApply(EventMarkResolved, ComplaintStatusClosed))
	assert.False(t, CanApply(EventReopen, ComplaintStatusInProgress))
	assert.False(t, CanApply(EventEscalate, ComplaintStatusResolved))
	assert.False(t, CanApply(EventEscalate, ComplaintStatusClosed))
}

func TestCanAddWorkerWindow(t *testing.T) {
	assert.False(t, CanAddWorker(ComplaintStatusWaitingAssignment))
	assert.True(t, CanAddWorker(ComplaintStatusAssigned))
	assert.True(t, CanAddWorker(ComplaintStatusInProgress))
	assert.True(t, CanAddWorker(ComplaintStatusInQueue))
	assert.False(t, CanAddWorker(ComplaintStatusResolved))
	assert.False(t, CanAddWorker(ComplaintStatusClosed))
}

func TestCanEscalateCapsLevel(t *testing.T) {
	c := &Complaint{Status: ComplaintStatusInProgress}
	require.True(t, CanEscalate(c))
	c.EscalationLevel = 1
	require.True(t, CanEscalate(c))
	c.EscalationLevel = 2
	assert.False(t, CanEscalate(c))
}

func TestEscalationStatusWireValues(t *testing.T) {
	c := &Complaint{}
	assert.Equal(t, ComplaintStatus(""), c.EscalationStatus())
	c.EscalationLevel = 1
	assert.Equal(t, ComplaintStatusEscalatedLevel1, c.EscalationStatus())
	c.EscalationLevel = 2
	assert.Equal(t, ComplaintStatusEscalatedLevel2, c.EscalationStatus())
}

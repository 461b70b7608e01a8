package domain

// LifecycleEvent names an operation requested against a complaint. Legality
// of every event is decided here, never at call sites.
type LifecycleEvent string

const (
	EventAssignWorkers     LifecycleEvent = "assign_workers"
	EventAddWorker         LifecycleEvent = "add_worker"
	EventStartWork         LifecycleEvent = "start_work"
	EventMarkResolved      LifecycleEvent = "mark_resolved"
	EventCloseWithFeedback LifecycleEvent = "close_with_feedback"
	EventReopen            LifecycleEvent = "reopen"
	EventEscalate          LifecycleEvent = "escalate"
	EventForward           LifecycleEvent = "forward"
	EventDelete            LifecycleEvent = "delete"
)

// eventSources lists the statuses each event may fire from.
var eventSources = map[LifecycleEvent][]ComplaintStatus{
	EventAssignWorkers:     {ComplaintStatusWaitingAssignment},
	EventAddWorker:         {ComplaintStatusAssigned, ComplaintStatusInProgress, ComplaintStatusInQueue},
	EventStartWork:         {ComplaintStatusAssigned, ComplaintStatusInQueue},
	EventMarkResolved:      {ComplaintStatusInProgress},
	EventCloseWithFeedback: {ComplaintStatusResolved},
	EventReopen:            {ComplaintStatusResolved, ComplaintStatusClosed},
	EventEscalate:          {ComplaintStatusWaitingAssignment, ComplaintStatusAssigned, ComplaintStatusInProgress, ComplaintStatusInQueue},
	EventForward:           {ComplaintStatusWaitingAssignment},
	EventDelete:            {ComplaintStatusWaitingAssignment},
}

// CanApply reports whether the event is legal from the given status.
func CanApply(event LifecycleEvent, status ComplaintStatus) bool {
	for _, candidate := range eventSources[event] {
		if candidate == status {
			return true
		}
	}
	return false
}

// CanAddWorker reports whether a worker may be added while the complaint is
// in the given status.
func CanAddWorker(status ComplaintStatus) bool {
	return CanApply(EventAddWorker, status)
}

// CanEscalate reports whether the complaint may take one more escalation
// step. The urgency track is parallel to the main status: escalating never
// blocks assignment or work, but the level is capped and resolved or closed
// complaints cannot escalate.
func CanEscalate(c *Complaint) bool {
	return CanApply(EventEscalate, c.Status) && c.EscalationLevel < MaxEscalationLevel
}

// NextStatus resolves the status a complaint enters when the event fires
// from the current status. The second return is false for illegal pairs.
// Events that do not move the primary track (add_worker, escalate, forward)
// return the current status unchanged.
func NextStatus(current ComplaintStatus, event LifecycleEvent) (ComplaintStatus, bool) {
	if !CanApply(event, current) {
		return current, false
	}
	switch event {
	case EventAssignWorkers:
		return ComplaintStatusAssigned, true
	case EventStartWork:
		return ComplaintStatusInProgress, true
	case EventMarkResolved:
		return ComplaintStatusResolved, true
	case EventCloseWithFeedback:
		return ComplaintStatusClosed, true
	case EventReopen:
		// Reopening a resolved complaint picks up where the workers left
		// off; reopening a closed one re-enters the worker queue since its
		// assignments were settled at closure.
		if current == ComplaintStatusResolved {
			return ComplaintStatusInProgress, true
		}
		return ComplaintStatusInQueue, true
	case EventAddWorker, EventEscalate, EventForward, EventDelete:
		return current, true
	}
	return current, false
}

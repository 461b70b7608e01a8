package events

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated   EventType = "complaint_created"
	EventComplaintAssigned  EventType = "complaint_assigned"
	EventComplaintStatus    EventType = "complaint_status_changed"
	EventComplaintForwarded EventType = "complaint_forwarded"
	EventComplaintEscalated EventType = "complaint_escalated"
	EventComplaintDeleted   EventType = "complaint_deleted"
)

// Actor identifies who triggered an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Name   string      `json:"name"`
	Role   domain.Role `json:"role"`
}

// Event is a domain event emitted once per accepted transition. Whether it
// fans out to email or push is up to external subscribers.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id"`
	Actor       Actor       `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	TeamID   string                   `json:"team_id"`
	Priority domain.ComplaintPriority `json:"priority"`
	Title    string                   `json:"title"`
}

// ComplaintAssignedPayload payload.
type ComplaintAssignedPayload struct {
	WorkerIDs []string               `json:"worker_ids"`
	Status    domain.ComplaintStatus `json:"status"`
}

// ComplaintStatusPayload payload.
type ComplaintStatusPayload struct {
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
	Comment   string                 `json:"comment,omitempty"`
}

// ComplaintForwardedPayload payload.
type ComplaintForwardedPayload struct {
	FromTeamID string `json:"from_team_id"`
	ToTeamID   string `json:"to_team_id"`
	Comment    string `json:"comment"`
}

// ComplaintEscalatedPayload payload.
type ComplaintEscalatedPayload struct {
	Level           int                    `json:"level"`
	EscalationState domain.ComplaintStatus `json:"escalation_state"`
}

// ComplaintDeletedPayload payload.
type ComplaintDeletedPayload struct {
	TeamID string `json:"team_id"`
}

package domain

import "time"

// AssignmentStatus tracks a single worker's progress on a complaint,
// independent of the complaint's own status.
type AssignmentStatus string

const (
	AssignmentStatusActive   AssignmentStatus = "active"
	AssignmentStatusInQueue  AssignmentStatus = "in_queue"
	AssignmentStatusResolved AssignmentStatus = "resolved"
)

// Assignment links one worker to one complaint. Rows are never deleted; a
// worker's involvement ends by marking the row resolved or by the complaint
// closing over it.
type Assignment struct {
	ID          string
	ComplaintID string
	WorkerID    string
	WorkerName  string
	Status      AssignmentStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

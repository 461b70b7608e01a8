package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints. The values are
// stable wire constants consumed by the UI timeline.
type ComplaintStatus string

const (
	ComplaintStatusWaitingAssignment ComplaintStatus = "waiting_assignment"
	ComplaintStatusAssigned          ComplaintStatus = "assigned"
	ComplaintStatusInProgress        ComplaintStatus = "in_progress"
	ComplaintStatusResolved          ComplaintStatus = "resolved"
	ComplaintStatusClosed            ComplaintStatus = "closed"
	ComplaintStatusEscalatedLevel1   ComplaintStatus = "escalated_level_1"
	ComplaintStatusEscalatedLevel2   ComplaintStatus = "escalated_level_2"
	ComplaintStatusReopened          ComplaintStatus = "reopened"
	ComplaintStatusInQueue           ComplaintStatus = "in_queue"
)

// ComplaintPriority enumerates urgency, fixed at creation.
type ComplaintPriority string

const (
	ComplaintPriorityLow    ComplaintPriority = "low"
	ComplaintPriorityMedium ComplaintPriority = "medium"
	ComplaintPriorityHigh   ComplaintPriority = "high"
	ComplaintPriorityUrgent ComplaintPriority = "urgent"
)

// SubmissionPreference records how the employee wants to be engaged. It is
// informational only and never affects lifecycle decisions.
type SubmissionPreference string

const (
	SubmissionPreferenceRemote   SubmissionPreference = "remote"
	SubmissionPreferenceOnSite   SubmissionPreference = "on_site"
	SubmissionPreferenceCallBack SubmissionPreference = "call_back"
)

// MaxEscalationLevel caps the urgency track.
const MaxEscalationLevel = 2

// Complaint is the aggregate tracked through the lifecycle engine.
type Complaint struct {
	ID                   string
	Title                string
	CustomDescription    string
	Device               string
	CategoryID           string
	SubCategoryID        string
	IssueOptionID        string
	Priority             ComplaintPriority
	Status               ComplaintStatus
	EscalationLevel      int
	SubmissionPreference SubmissionPreference
	EmployeeID           string
	TeamID               string
	Version              int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// EscalationStatus returns the wire value for the urgency track, or empty
// when the complaint has not been escalated.
func (c *Complaint) EscalationStatus() ComplaintStatus {
	switch c.EscalationLevel {
	case 1:
		return ComplaintStatusEscalatedLevel1
	case 2:
		return ComplaintStatusEscalatedLevel2
	default:
		return ""
	}
}

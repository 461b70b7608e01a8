package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Title                string                      `json:"title" validate:"required,min=3,max=200"`
	CustomDescription    string                      `json:"custom_description" validate:"max=4000"`
	Device               string                      `json:"device" validate:"max=200"`
	CategoryID           string                      `json:"category_id" validate:"required"`
	SubCategoryID        string                      `json:"sub_category_id" validate:"required"`
	IssueOptionID        string                      `json:"issue_option_id" validate:"required"`
	Priority             domain.ComplaintPriority    `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	SubmissionPreference domain.SubmissionPreference `json:"submission_preference" validate:"omitempty,oneof=remote on_site call_back"`
	TeamID               string                      `json:"team_id" validate:"required"`
}

// FeedbackRequest settles a resolved complaint.
type FeedbackRequest struct {
	Satisfied *bool  `json:"satisfied" validate:"required"`
	Comment   string `json:"comment" validate:"max=2000"`
}

// ReopenRequest payload.
type ReopenRequest struct {
	Comment string `json:"comment" validate:"max=2000"`
}

// ComplaintListQuery captures query filters for list endpoints.
type ComplaintListQuery struct {
	TeamID   *string
	Statuses []domain.ComplaintStatus
	Limit    int
	Offset   int
}

// ComplaintSummary response.
type ComplaintSummary struct {
	ID                   string                      `json:"id"`
	Title                string                      `json:"title"`
	Priority             domain.ComplaintPriority    `json:"priority"`
	Status               domain.ComplaintStatus      `json:"status"`
	EscalationStatus     domain.ComplaintStatus      `json:"escalation_status,omitempty"`
	SubmissionPreference domain.SubmissionPreference `json:"submission_preference"`
	TeamID               string                      `json:"team_id"`
	CreatedAt            time.Time                   `json:"created_at"`
	UpdatedAt            time.Time                   `json:"updated_at"`
}

// ComplaintDetailResponse provides the full complaint with its assignments
// and timeline.
type ComplaintDetailResponse struct {
	ID                   string                      `json:"id"`
	Title                string                      `json:"title"`
	CustomDescription    string                      `json:"custom_description"`
	Device               string                      `json:"device,omitempty"`
	CategoryID           string                      `json:"category_id"`
	SubCategoryID        string                      `json:"sub_category_id"`
	IssueOptionID        string                      `json:"issue_option_id"`
	Priority             domain.ComplaintPriority    `json:"priority"`
	Status               domain.ComplaintStatus      `json:"status"`
	EscalationLevel      int                         `json:"escalation_level"`
	EscalationStatus     domain.ComplaintStatus      `json:"escalation_status,omitempty"`
	SubmissionPreference domain.SubmissionPreference `json:"submission_preference"`
	EmployeeID           string                      `json:"employee_id"`
	TeamID               string                      `json:"team_id"`
	CreatedAt            time.Time                   `json:"created_at"`
	UpdatedAt            time.Time                   `json:"updated_at"`
	Assignments          []AssignmentResponse        `json:"assignments"`
	Logs                 []LogEntryResponse          `json:"logs"`
}

// LogEntryResponse is one timeline row.
type LogEntryResponse struct {
	ID            string                 `json:"id"`
	Status        domain.ComplaintStatus `json:"status"`
	Comment       *string                `json:"comment,omitempty"`
	ChangedByName string                 `json:"changed_by_name"`
	TimeStamp     time.Time              `json:"time_stamp"`
}

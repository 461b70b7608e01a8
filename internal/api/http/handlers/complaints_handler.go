package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// ComplaintsHandler manages complaint lifecycle endpoints.
type ComplaintsHandler struct {
	lifecycle *service.LifecycleService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(lifecycle *service.LifecycleService) *ComplaintsHandler {
	return &ComplaintsHandler{lifecycle: lifecycle}
}

// Create POST /complaints.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	complaint, err := h.lifecycle.CreateComplaint(c.UserContext(), actor, service.CreateComplaintInput{
		Title:             req.Title,
		CustomDescription: req.CustomDescription,
		Device:            req.Device,
		Classification: domain.Classification{
			CategoryID:    req.CategoryID,
			SubCategoryID: req.SubCategoryID,
			IssueOptionID: req.IssueOptionID,
		},
		Priority:             req.Priority,
		SubmissionPreference: req.SubmissionPreference,
		TeamID:               req.TeamID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": complaintSummary(complaint)})
}

// ListMine GET /complaints.
func (h *ComplaintsHandler) ListMine(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	filter := parseComplaintFilter(c)
	filter.EmployeeID = &actor.UserID

	complaints, err := h.lifecycle.ListComplaints(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintSummaries(complaints)})
}

// ListForTeam GET /manager/complaints.
func (h *ComplaintsHandler) ListForTeam(c *fiber.Ctx) error {
	filter := parseComplaintFilter(c)
	if filter.TeamID == nil {
		return apperrors.NewValidationError("team_id query parameter required", nil)
	}
	complaints, err := h.lifecycle.ListComplaints(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintSummaries(complaints)})
}

// Get GET /complaints/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	complaint, assignments, logs, err := h.lifecycle.GetComplaint(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintDetail(complaint, assignments, logs)})
}

// Feedback POST /complaints/:id/feedback.
func (h *ComplaintsHandler) Feedback(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	complaint, err := h.lifecycle.CloseWithFeedback(c.UserContext(), actor, c.Params("id"), *req.Satisfied, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintSummary(complaint)})
}

// Reopen POST /complaints/:id/reopen.
func (h *ComplaintsHandler) Reopen(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.ReopenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	complaint, err := h.lifecycle.Reopen(c.UserContext(), actor, c.Params("id"), req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintSummary(complaint)})
}

// Escalate POST /complaints/:id/escalate.
func (h *ComplaintsHandler) Escalate(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	complaint, err := h.lifecycle.Escalate(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintSummary(complaint)})
}

// Delete DELETE /complaints/:id.
func (h *ComplaintsHandler) Delete(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	if err := h.lifecycle.DeleteComplaint(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// StartWork POST /complaints/:id/work/start.
func (h *ComplaintsHandler) StartWork(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	complaint, err := h.lifecycle.StartWork(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintSummary(complaint)})
}

// ResolveWork POST /complaints/:id/work/resolve.
func (h *ComplaintsHandler) ResolveWork(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	complaint, err := h.lifecycle.ResolveWork(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintSummary(complaint)})
}

func requireActor(c *fiber.Ctx) (events.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return events.Actor{}, apperrors.NewUnauthorized("authentication required")
	}
	return events.Actor{UserID: principal.UserID, Name: principal.Name, Role: principal.Role}, nil
}

func parseComplaintFilter(c *fiber.Ctx) repository.ComplaintFilter {
	filter := repository.ComplaintFilter{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if teamID := c.Query("team_id"); teamID != "" {
		filter.TeamID = &teamID
	}
	if raw := c.Query("status"); raw != "" {
		for _, value := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				filter.Statuses = append(filter.Statuses, domain.ComplaintStatus(trimmed))
			}
		}
	}
	return filter
}

func complaintSummary(complaint *domain.Complaint) dto.ComplaintSummary {
	return dto.ComplaintSummary{
		ID:                   complaint.ID,
		Title:                complaint.Title,
		Priority:             complaint.Priority,
		Status:               complaint.Status,
		EscalationStatus:     complaint.EscalationStatus(),
		SubmissionPreference: complaint.SubmissionPreference,
		TeamID:               complaint.TeamID,
		CreatedAt:            complaint.CreatedAt,
		UpdatedAt:            complaint.UpdatedAt,
	}
}

func complaintSummaries(complaints []domain.Complaint) []dto.ComplaintSummary {
	items := make([]dto.ComplaintSummary, 0, len(complaints))
	for i := range complaints {
		items = append(items, complaintSummary(&complaints[i]))
	}
	return items
}

func complaintDetail(complaint *domain.Complaint, assignments []domain.Assignment, logs []domain.LogEntry) dto.ComplaintDetailResponse {
	detail := dto.ComplaintDetailResponse{
		ID:                   complaint.ID,
		Title:                complaint.Title,
		CustomDescription:    complaint.CustomDescription,
		Device:               complaint.Device,
		CategoryID:           complaint.CategoryID,
		SubCategoryID:        complaint.SubCategoryID,
		IssueOptionID:        complaint.IssueOptionID,
		Priority:             complaint.Priority,
		Status:               complaint.Status,
		EscalationLevel:      complaint.EscalationLevel,
		EscalationStatus:     complaint.EscalationStatus(),
		SubmissionPreference: complaint.SubmissionPreference,
		EmployeeID:           complaint.EmployeeID,
		TeamID:               complaint.TeamID,
		CreatedAt:            complaint.CreatedAt,
		UpdatedAt:            complaint.UpdatedAt,
		Assignments:          assignmentResponses(assignments),
		Logs:                 make([]dto.LogEntryResponse, 0, len(logs)),
	}
	for _, entry := range logs {
		detail.Logs = append(detail.Logs, dto.LogEntryResponse{
			ID:            entry.ID,
			Status:        entry.Status,
			Comment:       entry.Comment,
			ChangedByName: entry.ChangedByName,
			TimeStamp:     entry.TimeStamp,
		})
	}
	return detail
}

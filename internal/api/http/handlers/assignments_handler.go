package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/ranking"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// AssignmentsHandler manages manager assignment endpoints.
type AssignmentsHandler struct {
	assignments *service.AssignmentService
}

// NewAssignmentsHandler constructs handler.
func NewAssignmentsHandler(assignments *service.AssignmentService) *AssignmentsHandler {
	return &AssignmentsHandler{assignments: assignments}
}

// Assign POST /complaints/:id/assignments.
func (h *AssignmentsHandler) Assign(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.AssignWorkersRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	complaint, created, err := h.assignments.AssignInitial(c.UserContext(), actor, c.Params("id"), req.WorkerIDs)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"complaint":   complaintSummary(complaint),
		"assignments": assignmentResponses(created),
	}})
}

// AddWorker POST /complaints/:id/assignments/workers.
func (h *AssignmentsHandler) AddWorker(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.AddWorkerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	assignment, err := h.assignments.AddWorker(c.UserContext(), actor, c.Params("id"), req.WorkerID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": assignmentResponse(*assignment)})
}

// List GET /complaints/:id/assignments.
func (h *AssignmentsHandler) List(c *fiber.Ctx) error {
	assignments, err := h.assignments.ListAssignments(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": assignmentResponses(assignments)})
}

// RankedRoster GET /complaints/:id/workers.
func (h *AssignmentsHandler) RankedRoster(c *fiber.Ctx) error {
	result, err := h.assignments.RankedRoster(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.RankedRosterResponse{
		Workers:    rankedWorkerResponses(result.Workers),
		Selectable: rankedWorkerResponses(result.Selectable),
	}})
}

func assignmentResponse(assignment domain.Assignment) dto.AssignmentResponse {
	return dto.AssignmentResponse{
		ID:         assignment.ID,
		WorkerID:   assignment.WorkerID,
		WorkerName: assignment.WorkerName,
		Status:     assignment.Status,
		CreatedAt:  assignment.CreatedAt,
		UpdatedAt:  assignment.UpdatedAt,
	}
}

func assignmentResponses(assignments []domain.Assignment) []dto.AssignmentResponse {
	items := make([]dto.AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		items = append(items, assignmentResponse(assignment))
	}
	return items
}

func rankedWorkerResponses(workers []ranking.RankedWorker) []dto.RankedWorkerResponse {
	items := make([]dto.RankedWorkerResponse, 0, len(workers))
	for _, worker := range workers {
		items = append(items, dto.RankedWorkerResponse{
			WorkerID:   worker.WorkerID,
			WorkerName: worker.WorkerName,
			Status:     worker.Status,
			Near:       worker.Near,
			QueueCount: worker.QueueCount,
			Class:      worker.Class,
		})
	}
	return items
}

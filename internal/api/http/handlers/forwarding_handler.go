package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// ForwardingHandler manages cross-team forwarding endpoints.
type ForwardingHandler struct {
	forwarding *service.ForwardingService
}

// NewForwardingHandler constructs handler.
func NewForwardingHandler(forwarding *service.ForwardingService) *ForwardingHandler {
	return &ForwardingHandler{forwarding: forwarding}
}

// Forward POST /complaints/:id/forward.
func (h *ForwardingHandler) Forward(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.ForwardRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	complaint, err := h.forwarding.Forward(c.UserContext(), actor, c.Params("id"), req.TeamID, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintSummary(complaint)})
}

// Targets GET /complaints/:id/forward/targets.
func (h *ForwardingHandler) Targets(c *fiber.Ctx) error {
	teams, err := h.forwarding.ForwardTargets(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.TeamResponse, 0, len(teams))
	for _, team := range teams {
		items = append(items, dto.TeamResponse{ID: team.ID, Name: team.Name, CreatedAt: team.CreatedAt})
	}
	return c.JSON(fiber.Map{"data": items})
}

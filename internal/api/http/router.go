package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Complaints     *handlers.ComplaintsHandler
	Assignments    *handlers.AssignmentsHandler
	Forwarding     *handlers.ForwardingHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	complaints := app.Group("/complaints", cfg.AuthMiddleware.Handle)

	employee := auth.RequireRole(domain.RoleEmployee, domain.RoleAdmin)
	manager := auth.RequireRole(domain.RoleManager, domain.RoleAdmin)
	worker := auth.RequireRole(domain.RoleWorker, domain.RoleAdmin)
	anyRole := auth.RequireRole(domain.RoleEmployee, domain.RoleManager, domain.RoleWorker, domain.RoleAdmin)

	complaints.Post("/", employee, cfg.Complaints.Create)
	complaints.Get("/", employee, cfg.Complaints.ListMine)
	complaints.Get("/:id", anyRole, cfg.Complaints.Get)
	complaints.Delete("/:id", employee, cfg.Complaints.Delete)
	complaints.Post("/:id/feedback", employee, cfg.Complaints.Feedback)
	complaints.Post("/:id/reopen", employee, cfg.Complaints.Reopen)
	complaints.Post("/:id/escalate", manager, cfg.Complaints.Escalate)

	complaints.Post("/:id/work/start", worker, cfg.Complaints.StartWork)
	complaints.Post("/:id/work/resolve", worker, cfg.Complaints.ResolveWork)

	complaints.Get("/:id/workers", manager, cfg.Assignments.RankedRoster)
	complaints.Post("/:id/assignments", manager, cfg.Assignments.Assign)
	complaints.Post("/:id/assignments/workers", manager, cfg.Assignments.AddWorker)
	complaints.Get("/:id/assignments", anyRole, cfg.Assignments.List)

	complaints.Post("/:id/forward", manager, cfg.Forwarding.Forward)
	complaints.Get("/:id/forward/targets", manager, cfg.Forwarding.Targets)

	managerGroup := app.Group("/manager", cfg.AuthMiddleware.Handle, manager)
	managerGroup.Get("/complaints", cfg.Complaints.ListForTeam)
}

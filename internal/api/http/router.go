package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/enquiry-console/internal/api/http/handlers"
	"github.com/spec-kit/enquiry-console/internal/auth"
)

// RouteConfig bundles dependencies for backend route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Enquiries      *handlers.EnquiriesHandler
	Roster         *handlers.RosterHandler
	Clients        *handlers.ClientsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires the enquiry backend routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)
	app.Post("/intake/enquiries", cfg.Enquiries.Intake)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	requireHandler := auth.RequireHandler()
	requireAdmin := auth.RequireAdministrative()

	protected.Get("/auth/me", cfg.Auth.Me)
	protected.Post("/auth/service-tokens", requireHandler, requireAdmin, cfg.Auth.IssueServiceToken)

	enquiries := protected.Group("/enquiries")
	enquiries.Get("/", cfg.Enquiries.List)
	enquiries.Post("/", cfg.Enquiries.Create)
	enquiries.Get("/:id", cfg.Enquiries.Get)
	enquiries.Patch("/:id", cfg.Enquiries.Update)
	enquiries.Delete("/:id", requireHandler, requireAdmin, cfg.Enquiries.Delete)
	enquiries.Get("/:id/assignments", cfg.Enquiries.Assignments)

	roster := protected.Group("/handlers")
	roster.Get("/", cfg.Roster.List)
	roster.Get("/:id", cfg.Roster.Get)
	roster.Post("/", requireHandler, requireAdmin, cfg.Roster.Create)
	roster.Patch("/:id", requireHandler, requireAdmin, cfg.Roster.Update)

	clients := protected.Group("/clients")
	clients.Get("/", cfg.Clients.List)
	clients.Post("/", cfg.Clients.Create)
}

// ConsoleRouteConfig bundles dependencies for the console agent.
type ConsoleRouteConfig struct {
	Health  *handlers.HealthHandler
	Console *handlers.ConsoleHandler
}

// RegisterConsoleRoutes wires the local console API.
func RegisterConsoleRoutes(app *fiber.App, cfg ConsoleRouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	group := app.Group("/console")
	group.Get("/board", cfg.Console.Board)
	group.Get("/metrics", cfg.Console.Metrics)
	group.Post("/assignments", cfg.Console.Assign)
	group.Post("/enquiries", cfg.Console.CreateEnquiry)
	group.Patch("/enquiries/:id", cfg.Console.UpdateDetails)
	group.Put("/enquiries/:id/disposition", cfg.Console.UpdateDisposition)
	group.Get("/enquiries/:id/shortlist", cfg.Console.Shortlist)
	group.Post("/edit-sessions", cfg.Console.BeginEdit)
	group.Delete("/edit-sessions", cfg.Console.EndEdit)
	group.Post("/refresh", cfg.Console.Refresh)
}

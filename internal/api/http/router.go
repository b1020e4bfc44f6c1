package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-desk/internal/api/http/handlers"
	"github.com/spec-kit/maintenance-desk/internal/auth"
	"github.com/spec-kit/maintenance-desk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Chat           *handlers.ChatHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	People         *handlers.PeopleHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	// Intake stays open to guests; attribution is optional.
	api.Post("/chat", cfg.Chat.Advance)

	authGroup := app.Group("/auth")
	authGroup.Post("/code/request", cfg.Auth.RequestCode)
	authGroup.Post("/code/verify", cfg.Auth.VerifyCode)

	tickets := api.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	tickets.Get("/", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Patch("/:id/status", auth.RequireRole(domain.RoleAdmin), cfg.Tickets.UpdateStatus)

	people := api.Group("/people", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	people.Get("/", cfg.People.List)
	people.Post("/", cfg.People.Create)
	people.Put("/:id", cfg.People.Update)
	people.Delete("/:id", cfg.People.Delete)
}

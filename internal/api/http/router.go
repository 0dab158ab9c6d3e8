package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/orta-study/crm-backend/internal/api/http/handlers"
	"github.com/orta-study/crm-backend/internal/auth"
	"github.com/orta-study/crm-backend/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Leads          *handlers.LeadsHandler
	Users          *handlers.UsersHandler
	Chat           *handlers.ChatHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	requireAuth := cfg.AuthMiddleware.Handle

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Get("/me", requireAuth, cfg.Auth.Me)

	// Role checks for leads live in the policy layer, so the group only
	// authenticates.
	leads := api.Group("/leads")
	leads.Post("/", cfg.Leads.CreateLead)
	leads.Get("/", requireAuth, cfg.Leads.ListLeads)
	leads.Get("/:id", requireAuth, cfg.Leads.GetLead)
	leads.Patch("/:id", requireAuth, cfg.Leads.UpdateLead)
	leads.Delete("/:id", requireAuth, cfg.Leads.DeleteLead)

	users := api.Group("/users", requireAuth, auth.RequireRole(domain.RoleAdmin))
	users.Get("/", cfg.Users.ListUsers)
	users.Post("/", cfg.Users.CreateUser)
	users.Patch("/:id", cfg.Users.UpdateUser)
	users.Delete("/:id", cfg.Users.DeleteUser)

	ai := api.Group("/ai", requireAuth, auth.RequireRole(domain.RoleAdmin))
	ai.Get("/chats", cfg.Chat.History)
	ai.Post("/chat", cfg.Chat.Send)
	ai.Delete("/chats", cfg.Chat.Clear)
}

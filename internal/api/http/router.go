package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-tracker/internal/api/http/handlers"
	"github.com/spec-kit/complaint-tracker/internal/auth"
	"github.com/spec-kit/complaint-tracker/internal/ratelimit"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Auth            *handlers.AuthHandler
	Complaints      *handlers.ComplaintsHandler
	AdminComplaints *handlers.AdminComplaintsHandler
	AuthMiddleware  *auth.Middleware
	Limiter         *ratelimit.Limiter
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", RateLimitMiddleware(cfg.Limiter, "signup"), cfg.Auth.Signup)
	authGroup.Post("/login", RateLimitMiddleware(cfg.Limiter, "login"), cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)

	complaints := api.Group("/complaints", cfg.AuthMiddleware.Authenticate)
	complaints.Post("/", cfg.Complaints.Create)
	complaints.Get("/", cfg.Complaints.ListOwn)

	admin := api.Group("/admin/complaints", cfg.AuthMiddleware.Authenticate, cfg.AuthMiddleware.RequireAdmin)
	admin.Get("/", cfg.AdminComplaints.ListAll)
	admin.Patch("/:id", cfg.AdminComplaints.UpdateStatus)
	admin.Delete("/:id", cfg.AdminComplaints.Delete)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fieldreport-auth/internal/api/http/handlers"
	"github.com/spec-kit/fieldreport-auth/internal/auth"
)

// APIPrefix is the mount point of the versioned API.
const APIPrefix = "/api/v1"

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics)
	}

	api := app.Group(APIPrefix)

	authGroup := api.Group("/auth")
	authGroup.Post("/signin", cfg.Auth.SignIn)
	authGroup.Post("/signup", cfg.Auth.SignUp)
	authGroup.Post("/resend", cfg.Auth.Resend)
	authGroup.Post("/refresh-token", cfg.Auth.RefreshToken)
	authGroup.Post("/logout", cfg.Auth.Logout)

	protected := api.Group("/users", cfg.AuthMiddleware.Handle)
	protected.Get("/me", cfg.Users.Me)
}

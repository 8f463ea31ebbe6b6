package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/http/handlers"
	"github.com/spec-kit/blog-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Blogs          *handlers.BlogsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Reads are public; every mutation of an
// existing resource passes through the auth middleware.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	requireAuth := cfg.AuthMiddleware.Handle

	users := app.Group("/users")
	users.Post("/", cfg.Users.Register)
	users.Get("/", cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Patch("/:id", requireAuth, cfg.Users.Update)
	users.Delete("/:id", requireAuth, cfg.Users.Delete)

	blogs := app.Group("/blogs")
	blogs.Get("/", cfg.Blogs.List)
	blogs.Get("/:id", cfg.Blogs.Get)
	blogs.Post("/", requireAuth, cfg.Blogs.Create)
	blogs.Patch("/:id", requireAuth, cfg.Blogs.Update)
	blogs.Delete("/:id", requireAuth, cfg.Blogs.Delete)
}

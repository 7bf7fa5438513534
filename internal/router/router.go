package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/vaishnaviugal12/CrackCode/internal/config"
	"github.com/vaishnaviugal12/CrackCode/internal/handler"
	"github.com/vaishnaviugal12/CrackCode/internal/middleware"
	"github.com/vaishnaviugal12/CrackCode/internal/models"
	"github.com/vaishnaviugal12/CrackCode/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	UserHandler       *handler.UserHandler
	ProblemHandler    *handler.ProblemHandler
	SubmissionHandler *handler.SubmissionHandler
	ChatHandler       *handler.ChatHandler
	JWTMiddleware     fiber.Handler
	RunRateLimit      int
	RunRateWindow     time.Duration
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	if deps.UserHandler != nil {
		deps.UserHandler.Register(api.Group("/users"), jwtMiddleware, adminOnly)
	}

	if deps.ProblemHandler != nil {
		deps.ProblemHandler.Register(api.Group("/problems"), jwtMiddleware, adminOnly)
	}

	if deps.SubmissionHandler != nil {
		// The judging endpoints sit in front of a quota-limited execution
		// engine, so they get a per-user rate limit on top of auth.
		submissions := api.Group("/submissions", jwtMiddleware,
			middleware.RateLimit("judge", deps.RunRateLimit, deps.RunRateWindow))
		deps.SubmissionHandler.Register(submissions)
	}

	if deps.ChatHandler != nil {
		chat := api.Group("/ai", jwtMiddleware)
		deps.ChatHandler.Register(chat)
	}
}

package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/guru03-coder/SlideSense/internal/config"
	"github.com/guru03-coder/SlideSense/internal/handler"
	"github.com/guru03-coder/SlideSense/internal/middleware"
	"github.com/guru03-coder/SlideSense/internal/models"
	"github.com/guru03-coder/SlideSense/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler    *handler.AuthHandler
	StudentHandler *handler.StudentHandler
	StaffHandler   *handler.StaffHandler

	// SubmissionCount feeds the health endpoint; usually the store's Len.
	SubmissionCount func() int

	// JWTMiddleware and LoginLimiter override the defaults built from cfg.
	// Tests inject stubs here.
	JWTMiddleware fiber.Handler
	LoginLimiter  fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.SubmissionCount))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = middleware.JWTProtected(cfg.JWTSecret)
	}

	loginLimiter := deps.LoginLimiter
	if loginLimiter == nil {
		loginLimiter = middleware.RateLimit("login", cfg.LoginRatePerMin, time.Minute)
	}

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api, loginLimiter)
	}

	if deps.StaffHandler != nil {
		staff := api.Group("/staff", jwtMiddleware, middleware.RequireRole(models.RoleStaff))
		deps.StaffHandler.Register(staff)
	}

	if deps.StudentHandler != nil {
		student := api.Group("/student", jwtMiddleware, middleware.RequireRole(models.RoleStudent))
		deps.StudentHandler.Register(student)
	}

	app.Get("/metrics", observability.MetricsHandler())
}

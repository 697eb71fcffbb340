package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/acadmate/acadmate-api/internal/config"
	"github.com/acadmate/acadmate-api/internal/handler"
	"github.com/acadmate/acadmate-api/internal/middleware"
	"github.com/acadmate/acadmate-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	CourseHandler     *handler.CourseHandler
	AssignmentHandler *handler.AssignmentHandler
	SubmissionHandler *handler.SubmissionHandler
	GradingHandler    *handler.GradingHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	// Verification-code endpoints sit outside the JWT gate: they are how a
	// user without a valid token proves control of an email address.
	if deps.AuthHandler != nil {
		sendLimiter := middleware.RateLimit("auth_code", 5, time.Minute)
		deps.AuthHandler.Register(api.Group("/auth"), sendLimiter)
	}

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	teacherOnly := middleware.RequireRole("teacher", "admin")

	courses := api.Group("/courses", jwtMiddleware)
	if deps.CourseHandler != nil {
		deps.CourseHandler.Register(courses, teacherOnly)
	}

	if deps.AssignmentHandler != nil {
		assignments := courses.Group("/:courseId/assignments")
		deps.AssignmentHandler.Register(assignments, teacherOnly)

		if deps.SubmissionHandler != nil {
			deps.SubmissionHandler.Register(assignments)
		}
		if deps.GradingHandler != nil {
			runLimiter := middleware.RateLimit("grading_run", 2, time.Minute)
			deps.GradingHandler.Register(assignments, teacherOnly, runLimiter)
		}
	}
}

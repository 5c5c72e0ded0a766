package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dioarya/classpulse-api/internal/config"
	"github.com/dioarya/classpulse-api/internal/handler"
	"github.com/dioarya/classpulse-api/internal/middleware"
	"github.com/dioarya/classpulse-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	QuizHandler         *handler.QuizHandler
	AssignmentHandler   *handler.AssignmentHandler
	SubmissionHandler   *handler.SubmissionHandler
	DiscussionHandler   *handler.DiscussionHandler
	MaterialHandler     *handler.MaterialHandler
	RosterHandler       *handler.RosterHandler
	NotificationHandler *handler.NotificationHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	classes := api.Group("/classes", jwtMiddleware)
	quizzes := api.Group("/quizzes", jwtMiddleware)
	assignments := api.Group("/assignments", jwtMiddleware)
	submissions := api.Group("/submissions", jwtMiddleware)
	threads := api.Group("/threads", jwtMiddleware)

	if deps.QuizHandler != nil {
		deps.QuizHandler.RegisterClassRoutes(classes)
		// Scoring writes a row per attempt; keep abusive clients off it.
		quizzes.Use("/:id/submit", middleware.RateLimit("quiz-submit", 5, time.Minute))
		deps.QuizHandler.RegisterQuizRoutes(quizzes)
	}

	if deps.AssignmentHandler != nil {
		deps.AssignmentHandler.RegisterClassRoutes(classes)
	}

	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.RegisterAssignmentRoutes(assignments)
		deps.SubmissionHandler.RegisterSubmissionRoutes(submissions)
	}

	if deps.DiscussionHandler != nil {
		deps.DiscussionHandler.RegisterClassRoutes(classes)
		deps.DiscussionHandler.RegisterThreadRoutes(threads)
	}

	if deps.MaterialHandler != nil {
		deps.MaterialHandler.RegisterClassRoutes(classes)
	}

	if deps.RosterHandler != nil {
		deps.RosterHandler.RegisterClassRoutes(classes)
		students := api.Group("/students", jwtMiddleware)
		deps.RosterHandler.RegisterSearchRoutes(students)
	}

	if deps.NotificationHandler != nil {
		notifications := api.Group("/notifications", jwtMiddleware)
		deps.NotificationHandler.Register(notifications)
	}
}

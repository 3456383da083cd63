package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campushub/tutoring-api/internal/config"
	"github.com/campushub/tutoring-api/internal/handler"
	"github.com/campushub/tutoring-api/internal/middleware"
	"github.com/campushub/tutoring-api/internal/models"
	"github.com/campushub/tutoring-api/internal/observability"
	"github.com/campushub/tutoring-api/internal/repository"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler         *handler.AuthHandler
	TutorHandler        *handler.TutorHandler
	BookingHandler      *handler.BookingHandler
	NotificationHandler *handler.NotificationHandler
	AdminHandler        *handler.AdminHandler
	CourseHandler       *handler.CourseHandler
	AssignmentHandler   *handler.AssignmentHandler
	StudySessionHandler *handler.StudySessionHandler
	ContentHandler      *handler.ContentHandler
	Users               repository.UserRepository
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api.Group("/auth"))
	}

	protected := api.Group("", middleware.JWTProtected(cfg.JWTSecret), middleware.RequireActive(deps.Users))

	if deps.TutorHandler != nil {
		deps.TutorHandler.Register(protected.Group("/tutors"))
		deps.TutorHandler.RegisterOwn(protected.Group("/tutor", middleware.RequireRole(models.RoleTutor)))
	}

	if deps.BookingHandler != nil {
		deps.BookingHandler.RegisterStudent(protected, middleware.RequireRole(models.RoleStudent))
		deps.BookingHandler.RegisterTutor(protected.Group("/tutor", middleware.RequireRole(models.RoleTutor)))
	}

	if deps.NotificationHandler != nil {
		deps.NotificationHandler.Register(protected.Group("/notifications"))
	}

	if deps.CourseHandler != nil {
		courses := protected.Group("/courses")
		deps.CourseHandler.Register(courses)
		deps.CourseHandler.RegisterAdmin(courses, middleware.RequireRole(models.RoleAdmin))
	}

	if deps.AssignmentHandler != nil {
		deps.AssignmentHandler.RegisterStudent(protected.Group("/assignments", middleware.RequireRole(models.RoleStudent)))
		deps.AssignmentHandler.RegisterTutor(protected.Group("/tutor/assignments", middleware.RequireRole(models.RoleTutor)))
	}

	if deps.StudySessionHandler != nil {
		deps.StudySessionHandler.Register(protected.Group("/study-sessions", middleware.RequireRole(models.RoleStudent)))
	}

	if deps.ContentHandler != nil {
		deps.ContentHandler.RegisterResources(protected.Group("/resources"))
		deps.ContentHandler.RegisterQA(protected.Group("/qa"))
	}

	if deps.AdminHandler != nil {
		deps.AdminHandler.Register(protected.Group("/admin", middleware.RequireRole(models.RoleAdmin)))
	}
}

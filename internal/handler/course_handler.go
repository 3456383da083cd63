package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campushub/tutoring-api/internal/dto"
	"github.com/campushub/tutoring-api/internal/service"
	"github.com/campushub/tutoring-api/internal/utils"
)

// CourseHandler exposes the course catalog and enrollment.
type CourseHandler struct {
	service service.CourseService
	logger  zerolog.Logger
}

// NewCourseHandler constructs a handler instance.
func NewCourseHandler(service service.CourseService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		service: service,
		logger:  logger.With().Str("component", "course_handler").Logger(),
	}
}

// Register binds the catalog routes available to any signed-in user.
func (h *CourseHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
	router.Get("/mine", h.listEnrolled)
	router.Get("/:id", h.get)
	router.Post("/:id/enroll", h.enroll)
	router.Delete("/:id/enroll", h.withdraw)
	router.Get("/:id/students", h.listStudents)
}

// RegisterAdmin binds the catalog management routes. The guard is applied
// per route because the catalog shares its prefix with enrollment.
func (h *CourseHandler) RegisterAdmin(router fiber.Router, guard fiber.Handler) {
	router.Post("/", guard, h.create)
	router.Put("/:id", guard, h.update)
	router.Delete("/:id", guard, h.remove)
}

func (h *CourseHandler) list(c *fiber.Ctx) error {
	courses, err := h.service.List(requestContext(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "courses", courses)
}

func (h *CourseHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	course, err := h.service.Get(requestContext(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "course", course)
}

func (h *CourseHandler) enroll(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	course, err := h.service.Enroll(requestContext(c), userIDFromContext(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "enrolled", course)
}

func (h *CourseHandler) withdraw(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	if err := h.service.Withdraw(requestContext(c), userIDFromContext(c), id); err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "withdrawn", nil)
}

func (h *CourseHandler) listEnrolled(c *fiber.Ctx) error {
	courses, err := h.service.ListEnrolled(requestContext(c), userIDFromContext(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "enrolled courses", courses)
}

func (h *CourseHandler) listStudents(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	students, err := h.service.ListEnrolledStudents(requestContext(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "enrolled students", students)
}

func (h *CourseHandler) create(c *fiber.Ctx) error {
	var payload dto.CourseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	course, err := h.service.Create(requestContext(c), payload)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "course created", course)
}

func (h *CourseHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	var payload dto.CourseUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	course, err := h.service.Update(requestContext(c), id, payload)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "course updated", course)
}

func (h *CourseHandler) remove(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	if err := h.service.Delete(requestContext(c), id); err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "course deleted", nil)
}

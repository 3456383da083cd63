package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campushub/tutoring-api/internal/dto"
	"github.com/campushub/tutoring-api/internal/service"
	"github.com/campushub/tutoring-api/internal/utils"
)

// AssignmentHandler exposes coursework to students and tutors.
type AssignmentHandler struct {
	service service.AssignmentService
	logger  zerolog.Logger
}

// NewAssignmentHandler constructs a handler instance.
func NewAssignmentHandler(service service.AssignmentService, logger zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		service: service,
		logger:  logger.With().Str("component", "assignment_handler").Logger(),
	}
}

// RegisterStudent binds the student side.
func (h *AssignmentHandler) RegisterStudent(router fiber.Router) {
	router.Get("/", h.listOwn)
	router.Get("/:id", h.getOwn)
	router.Post("/:id/submit", h.submit)
}

// RegisterTutor binds the tutor side.
func (h *AssignmentHandler) RegisterTutor(router fiber.Router) {
	router.Post("/", h.create)
	router.Get("/ungraded", h.listUngraded)
	router.Post("/:id/grade", h.grade)
}

func (h *AssignmentHandler) create(c *fiber.Ctx) error {
	var payload dto.AssignmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	assignments, err := h.service.Create(requestContext(c), userIDFromContext(c), payload)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "assignment created", assignments)
}

func (h *AssignmentHandler) listOwn(c *fiber.Ctx) error {
	assignments, err := h.service.ListOwn(requestContext(c), userIDFromContext(c), c.Query("status"))
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "assignments", assignments)
}

func (h *AssignmentHandler) getOwn(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assignment id")
	}

	assignment, err := h.service.GetOwn(requestContext(c), id, userIDFromContext(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "assignment", assignment)
}

func (h *AssignmentHandler) submit(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assignment id")
	}

	var payload dto.AssignmentSubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	assignment, err := h.service.Submit(requestContext(c), id, userIDFromContext(c), payload)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "assignment submitted", assignment)
}

func (h *AssignmentHandler) listUngraded(c *fiber.Ctx) error {
	courseIDs, err := parseCourseIDs(c.Query("course_ids"))
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course_ids")
	}

	assignments, err := h.service.ListUngraded(requestContext(c), userIDFromContext(c), courseIDs)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "ungraded assignments", assignments)
}

func (h *AssignmentHandler) grade(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assignment id")
	}

	var payload dto.AssignmentGradeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	assignment, err := h.service.Grade(requestContext(c), id, userIDFromContext(c), payload)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "assignment graded", assignment)
}

func parseCourseIDs(raw string) ([]uint, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		id, err := strconv.ParseUint(trimmed, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint(id))
	}

	return ids, nil
}

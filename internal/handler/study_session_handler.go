package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campushub/tutoring-api/internal/dto"
	"github.com/campushub/tutoring-api/internal/service"
	"github.com/campushub/tutoring-api/internal/utils"
)

// StudySessionHandler exposes the personal study planner.
type StudySessionHandler struct {
	service service.StudySessionService
	logger  zerolog.Logger
}

// NewStudySessionHandler constructs a handler instance.
func NewStudySessionHandler(service service.StudySessionService, logger zerolog.Logger) *StudySessionHandler {
	return &StudySessionHandler{
		service: service,
		logger:  logger.With().Str("component", "study_session_handler").Logger(),
	}
}

// Register binds the planner routes.
func (h *StudySessionHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
	router.Post("/", h.create)
	router.Post("/generate", h.generate)
	router.Put("/:id", h.update)
	router.Post("/:id/status", h.setStatus)
	router.Delete("/:id", h.remove)
}

func (h *StudySessionHandler) list(c *fiber.Ctx) error {
	sessions, err := h.service.List(requestContext(c), userIDFromContext(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "study sessions", sessions)
}

func (h *StudySessionHandler) create(c *fiber.Ctx) error {
	var payload dto.StudySessionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	session, err := h.service.Create(requestContext(c), userIDFromContext(c), payload)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "study session scheduled", session)
}

func (h *StudySessionHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid study session id")
	}

	var payload dto.StudySessionUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	session, err := h.service.Update(requestContext(c), id, userIDFromContext(c), payload)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "study session updated", session)
}

func (h *StudySessionHandler) setStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid study session id")
	}

	var payload dto.StudySessionStatusRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	session, err := h.service.SetStatus(requestContext(c), id, userIDFromContext(c), payload)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "study session status updated", session)
}

func (h *StudySessionHandler) remove(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid study session id")
	}

	if err := h.service.Delete(requestContext(c), id, userIDFromContext(c)); err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "study session deleted", nil)
}

func (h *StudySessionHandler) generate(c *fiber.Ctx) error {
	var payload dto.StudyPlanRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	sessions, err := h.service.GeneratePlan(requestContext(c), userIDFromContext(c), payload)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "study plan generated", sessions)
}

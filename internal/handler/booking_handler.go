package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campushub/tutoring-api/internal/dto"
	"github.com/campushub/tutoring-api/internal/service"
	"github.com/campushub/tutoring-api/internal/utils"
)

// BookingHandler exposes the request/session workflow to students and
// tutors.
type BookingHandler struct {
	service service.BookingService
	logger  zerolog.Logger
}

// NewBookingHandler constructs a handler instance.
func NewBookingHandler(service service.BookingService, logger zerolog.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		logger:  logger.With().Str("component", "booking_handler").Logger(),
	}
}

// RegisterStudent binds the student side of the workflow. The guard runs
// per route or on a prefixed group so it never leaks onto sibling routes.
func (h *BookingHandler) RegisterStudent(router fiber.Router, guard fiber.Handler) {
	router.Post("/tutors/:id/requests", guard, h.createRequest)

	requests := router.Group("/tutoring-requests", guard)
	requests.Get("/", h.listOwnRequests)
	requests.Get("/:id", h.getOwnRequest)
	requests.Post("/:id/cancel", h.cancel)
	requests.Post("/:id/confirm", h.confirm)

	sessions := router.Group("/tutoring-sessions", guard)
	sessions.Post("/:id/feedback", h.feedback)
}

// RegisterTutor binds the tutor side of the workflow.
func (h *BookingHandler) RegisterTutor(router fiber.Router) {
	router.Get("/requests", h.listIncomingRequests)
	router.Post("/requests/:id/accept", h.accept)
	router.Post("/requests/:id/decline", h.decline)
	router.Get("/sessions", h.listSessions)
	router.Post("/sessions/:id/summary", h.summary)
}

func (h *BookingHandler) createRequest(c *fiber.Ctx) error {
	tutorID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid tutor id")
	}

	var payload dto.TutoringRequestCreate
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	request, err := h.service.CreateRequest(requestContext(c), userIDFromContext(c), tutorID, payload)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "tutoring request created", request)
}

func (h *BookingHandler) listOwnRequests(c *fiber.Ctx) error {
	requests, err := h.service.ListForStudent(requestContext(c), userIDFromContext(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "tutoring requests", requests)
}

func (h *BookingHandler) getOwnRequest(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request id")
	}

	request, err := h.service.GetOwn(requestContext(c), id, userIDFromContext(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "tutoring request", request)
}

func (h *BookingHandler) cancel(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request id")
	}

	request, err := h.service.Cancel(requestContext(c), id, userIDFromContext(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "tutoring request cancelled", request)
}

func (h *BookingHandler) confirm(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request id")
	}

	request, err := h.service.Confirm(requestContext(c), id, userIDFromContext(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "session confirmed", request)
}

func (h *BookingHandler) listIncomingRequests(c *fiber.Ctx) error {
	requests, err := h.service.ListForTutor(requestContext(c), userIDFromContext(c), c.Query("status"))
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "incoming requests", requests)
}

func (h *BookingHandler) accept(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request id")
	}

	var payload dto.AcceptRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	request, err := h.service.Accept(requestContext(c), id, userIDFromContext(c), payload)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "tutoring request accepted", request)
}

func (h *BookingHandler) decline(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request id")
	}

	request, err := h.service.Decline(requestContext(c), id, userIDFromContext(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "tutoring request declined", request)
}

func (h *BookingHandler) listSessions(c *fiber.Ctx) error {
	upcoming := c.Query("window", "upcoming") != "past"

	sessions, err := h.service.ListSessions(requestContext(c), userIDFromContext(c), upcoming)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "sessions", sessions)
}

func (h *BookingHandler) feedback(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid session id")
	}

	var payload dto.FeedbackRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	session, err := h.service.RecordFeedback(requestContext(c), id, userIDFromContext(c), payload)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "feedback recorded", session)
}

func (h *BookingHandler) summary(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid session id")
	}

	var payload dto.SummaryRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	session, err := h.service.RecordSummary(requestContext(c), id, userIDFromContext(c), payload)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "session updated", session)
}

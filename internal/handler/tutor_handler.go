package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campushub/tutoring-api/internal/dto"
	"github.com/campushub/tutoring-api/internal/service"
	"github.com/campushub/tutoring-api/internal/utils"
)

// TutorHandler exposes the tutor directory and the availability ledger.
type TutorHandler struct {
	tutors       service.TutorService
	availability service.AvailabilityService
	logger       zerolog.Logger
}

// NewTutorHandler constructs a handler instance.
func NewTutorHandler(tutors service.TutorService, availability service.AvailabilityService, logger zerolog.Logger) *TutorHandler {
	return &TutorHandler{
		tutors:       tutors,
		availability: availability,
		logger:       logger.With().Str("component", "tutor_handler").Logger(),
	}
}

// Register binds the directory routes readable by any signed-in user.
func (h *TutorHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
	router.Get("/:id", h.get)
	router.Get("/:id/slots", h.openSlots)
}

// RegisterOwn binds the tutor-only self-management routes.
func (h *TutorHandler) RegisterOwn(router fiber.Router) {
	router.Put("/profile", h.updateProfile)
	router.Get("/slots", h.listOwnSlots)
	router.Post("/slots", h.addSlot)
	router.Delete("/slots/:id", h.removeSlot)
}

func (h *TutorHandler) list(c *fiber.Ctx) error {
	tutors, err := h.tutors.List(requestContext(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "tutors", tutors)
}

func (h *TutorHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid tutor id")
	}

	tutor, err := h.tutors.Get(requestContext(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "tutor", tutor)
}

func (h *TutorHandler) openSlots(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid tutor id")
	}

	slots, err := h.availability.ListOpen(requestContext(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "open slots", slots)
}

func (h *TutorHandler) updateProfile(c *fiber.Ctx) error {
	var payload dto.TutorProfileUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	tutor, err := h.tutors.UpdateOwnProfile(requestContext(c), userIDFromContext(c), payload)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "profile updated", tutor)
}

func (h *TutorHandler) listOwnSlots(c *fiber.Ctx) error {
	slots, err := h.availability.ListOwn(requestContext(c), userIDFromContext(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "availability slots", slots)
}

func (h *TutorHandler) addSlot(c *fiber.Ctx) error {
	var payload dto.SlotCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	slot, err := h.availability.AddSlot(requestContext(c), userIDFromContext(c), payload)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "slot created", slot)
}

func (h *TutorHandler) removeSlot(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid slot id")
	}

	if err := h.availability.RemoveSlot(requestContext(c), userIDFromContext(c), id); err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "slot removed", nil)
}

package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campushub/tutoring-api/internal/dto"
	"github.com/campushub/tutoring-api/internal/service"
	"github.com/campushub/tutoring-api/internal/utils"
)

// AdminHandler exposes moderation, user management and the audit trail.
type AdminHandler struct {
	admin  service.AdminService
	audit  service.AuditService
	logger zerolog.Logger
}

// NewAdminHandler constructs a handler instance.
func NewAdminHandler(admin service.AdminService, audit service.AuditService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		admin:  admin,
		audit:  audit,
		logger: logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register binds the admin routes.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/stats", h.stats)
	router.Get("/users", h.listUsers)
	router.Post("/users/:id/suspend", h.suspendUser)
	router.Post("/users/:id/activate", h.activateUser)
	router.Delete("/users/:id", h.deleteUser)
	router.Get("/tutors/pending", h.pendingTutors)
	router.Post("/tutors/:id/approve", h.approveTutor)
	router.Post("/tutors/:id/reject", h.rejectTutor)
	router.Delete("/resources/:id", h.deleteResource)
	router.Delete("/threads/:id", h.deleteThread)
	router.Get("/audit-logs", h.auditLogs)
}

func (h *AdminHandler) stats(c *fiber.Ctx) error {
	stats, err := h.admin.Stats(requestContext(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "platform stats", stats)
}

func (h *AdminHandler) listUsers(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	users, total, err := h.admin.ListUsers(requestContext(c), limit, offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "users", fiber.Map{"items": users, "total": total})
}

func (h *AdminHandler) suspendUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid user id")
	}

	if err := h.admin.SuspendUser(requestContext(c), userIDFromContext(c), id); err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "user suspended", nil)
}

func (h *AdminHandler) activateUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid user id")
	}

	if err := h.admin.ActivateUser(requestContext(c), userIDFromContext(c), id); err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "user activated", nil)
}

func (h *AdminHandler) deleteUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid user id")
	}

	if err := h.admin.DeleteUser(requestContext(c), userIDFromContext(c), id); err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "user deleted", nil)
}

func (h *AdminHandler) pendingTutors(c *fiber.Ctx) error {
	tutors, err := h.admin.ListPendingTutors(requestContext(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "pending tutors", tutors)
}

func (h *AdminHandler) approveTutor(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid tutor id")
	}

	tutor, err := h.admin.ApproveTutor(requestContext(c), userIDFromContext(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "tutor approved", tutor)
}

func (h *AdminHandler) rejectTutor(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid tutor id")
	}

	if err := h.admin.RejectTutor(requestContext(c), userIDFromContext(c), id); err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "tutor rejected", nil)
}

func (h *AdminHandler) deleteResource(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid resource id")
	}

	if err := h.admin.DeleteResource(requestContext(c), userIDFromContext(c), id); err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "resource deleted", nil)
}

func (h *AdminHandler) deleteThread(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid thread id")
	}

	if err := h.admin.DeleteThread(requestContext(c), userIDFromContext(c), id); err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "thread deleted", nil)
}

func (h *AdminHandler) auditLogs(c *fiber.Ctx) error {
	var payload dto.AuditLogListRequest
	if err := c.QueryParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	logs, err := h.audit.List(requestContext(c), payload)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "audit logs", logs)
}

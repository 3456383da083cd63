package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/campushub/tutoring-api/internal/middleware"
	"github.com/campushub/tutoring-api/internal/service"
	"github.com/campushub/tutoring-api/internal/utils"
)

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func parseIDParam(c *fiber.Ctx, key string) (uint, error) {
	parsed, err := strconv.ParseUint(c.Params(key), 10, 64)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(parsed), nil
}

func parseQueryUintPtr(c *fiber.Ctx, key string) (*uint, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return nil, err
	}
	id := uint(parsed)
	return &id, nil
}

func userIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

func userRoleFromContext(c *fiber.Ctx) string {
	if v := c.Locals("user_role"); v != nil {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}

func requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	return middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))
}

// respondServiceError translates service sentinels into HTTP statuses.
// Unknown errors become 500s without leaking internals.
func respondServiceError(c *fiber.Ctx, err error) error {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		return utils.SendValidationError(c, err)
	}

	switch {
	case errors.Is(err, service.ErrTutorNotFound),
		errors.Is(err, service.ErrSlotNotFound),
		errors.Is(err, service.ErrRequestNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrNotificationNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrResourceNotFound),
		errors.Is(err, service.ErrThreadNotFound),
		errors.Is(err, service.ErrStudySessionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())

	case errors.Is(err, service.ErrSlotUnavailable),
		errors.Is(err, service.ErrAlreadyEnrolled),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrCourseCodeTaken),
		errors.Is(err, service.ErrRequestNotActionable),
		errors.Is(err, service.ErrAssignmentAlreadySubmitted),
		errors.Is(err, service.ErrStudySessionOverlap):
		return utils.SendError(c, fiber.StatusConflict, err.Error())

	case errors.Is(err, service.ErrInvalidSlotWindow),
		errors.Is(err, service.ErrInvalidSessionWindow),
		errors.Is(err, service.ErrInvalidStudyWindow):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())

	case errors.Is(err, service.ErrAssignmentPastDue),
		errors.Is(err, service.ErrNoEnrolledStudents),
		errors.Is(err, service.ErrNotEnrolled),
		errors.Is(err, service.ErrEmptyContent):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidRefreshToken):
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())

	case errors.Is(err, service.ErrAccountSuspended):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())

	default:
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campushub/tutoring-api/internal/models"
	"github.com/campushub/tutoring-api/internal/repository"
	"github.com/campushub/tutoring-api/internal/utils"
)

// RequireRole ensures that the authenticated user possesses one of the allowed roles.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		normalized := strings.ToLower(strings.TrimSpace(role))
		if normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("user_role").(string)
		if _, ok := allowed[role]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

// RequireActive resolves the authenticated account and rejects suspended
// users. Suspension takes effect immediately, even for tokens issued
// before the account was suspended.
func RequireActive(users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(uint)
		if userID == 0 {
			return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
		}

		user, err := users.GetByID(c.UserContext(), userID)
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "account not found")
		}

		if user.Status != models.UserStatusActive {
			return utils.SendError(c, fiber.StatusForbidden, "account suspended")
		}

		return c.Next()
	}
}

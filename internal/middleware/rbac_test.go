package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/campushub/tutoring-api/internal/models"
)

func TestRequireRoleAllowsAuthorizedRoles(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_role", models.RoleTutor)
		return c.Next()
	})
	app.Use(RequireRole(models.RoleTutor, models.RoleAdmin))
	app.Get("/tutor", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/tutor", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleRejectsUnauthorizedRoles(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_role", models.RoleStudent)
		return c.Next()
	})
	app.Use(RequireRole(models.RoleAdmin))
	app.Get("/admin", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRoleRejectsMissingRole(t *testing.T) {
	app := fiber.New()
	app.Use(RequireRole(models.RoleAdmin))
	app.Get("/admin", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

type userLookupStub struct {
	users map[uint]models.User
}

func (s *userLookupStub) Create(ctx context.Context, user *models.User) error { return nil }

func (s *userLookupStub) GetByID(ctx context.Context, id uint) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *userLookupStub) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return models.User{}, gorm.ErrRecordNotFound
}

func (s *userLookupStub) UpdateStatus(ctx context.Context, id uint, status string) error { return nil }

func (s *userLookupStub) Delete(ctx context.Context, id uint) error { return nil }

func (s *userLookupStub) List(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	return nil, 0, nil
}

func requireActiveApp(users *userLookupStub, userID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if userID != 0 {
			c.Locals("user_id", userID)
		}
		return c.Next()
	})
	app.Use(RequireActive(users))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRequireActiveAllowsActiveAccount(t *testing.T) {
	users := &userLookupStub{users: map[uint]models.User{1: {ID: 1, Status: models.UserStatusActive}}}

	resp, err := requireActiveApp(users, 1).Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireActiveRejectsSuspendedAccount(t *testing.T) {
	users := &userLookupStub{users: map[uint]models.User{1: {ID: 1, Status: models.UserStatusSuspended}}}

	resp, err := requireActiveApp(users, 1).Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireActiveRejectsUnknownAccount(t *testing.T) {
	users := &userLookupStub{users: map[uint]models.User{}}

	resp, err := requireActiveApp(users, 2).Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = requireActiveApp(users, 0).Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

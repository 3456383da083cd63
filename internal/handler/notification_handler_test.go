package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/campushub/tutoring-api/internal/dto"
	"github.com/campushub/tutoring-api/internal/handler"
	"github.com/campushub/tutoring-api/internal/service"
)

type mockNotificationService struct {
	lastUserID uint
	lastLimit  int
	lastOffset int
	lastMarkID uint
	items      []dto.NotificationResponse
	unread     int64
	updated    int64
	err        error
}

func (m *mockNotificationService) Publish(_ context.Context, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error) {
	return dto.NotificationResponse{}, nil
}

func (m *mockNotificationService) List(_ context.Context, userID uint, limit, offset int) ([]dto.NotificationResponse, error) {
	m.lastUserID = userID
	m.lastLimit = limit
	m.lastOffset = offset
	if m.err != nil {
		return nil, m.err
	}
	return m.items, nil
}

func (m *mockNotificationService) UnreadCount(_ context.Context, userID uint) (dto.UnreadCountResponse, error) {
	m.lastUserID = userID
	return dto.UnreadCountResponse{Unread: m.unread}, m.err
}

func (m *mockNotificationService) MarkRead(_ context.Context, id, userID uint) (dto.NotificationResponse, error) {
	m.lastMarkID = id
	m.lastUserID = userID
	if m.err != nil {
		return dto.NotificationResponse{}, m.err
	}
	return dto.NotificationResponse{ID: id, UserID: userID, Read: true}, nil
}

func (m *mockNotificationService) MarkAllRead(_ context.Context, userID uint) (int64, error) {
	m.lastUserID = userID
	return m.updated, m.err
}

func (m *mockNotificationService) Subscribe(userID uint) (<-chan dto.NotificationResponse, func()) {
	m.lastUserID = userID
	ch := make(chan dto.NotificationResponse)
	return ch, func() { close(ch) }
}

func (m *mockNotificationService) Start(_ context.Context) {}

func notificationApp(svc *mockNotificationService, userID uint) *fiber.App {
	app := fiber.New()
	group := app.Group("/notifications", func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		return c.Next()
	})
	handler.NewNotificationHandler(svc, testLogger(), 30*time.Second).Register(group)
	return app
}

func TestNotificationHandlerList(t *testing.T) {
	svc := &mockNotificationService{items: []dto.NotificationResponse{{ID: 1, UserID: 42, Type: "request.created"}}}
	app := notificationApp(svc, 42)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/notifications/?limit=10&offset=5", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(42), svc.lastUserID)
	require.Equal(t, 10, svc.lastLimit)
	require.Equal(t, 5, svc.lastOffset)

	var response struct {
		Success bool                       `json:"success"`
		Data    []dto.NotificationResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Success)
	require.Len(t, response.Data, 1)
}

func TestNotificationHandlerListRejectsBadLimit(t *testing.T) {
	app := notificationApp(&mockNotificationService{}, 42)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/notifications/?limit=abc", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestNotificationHandlerUnreadCount(t *testing.T) {
	svc := &mockNotificationService{unread: 3}
	app := notificationApp(svc, 42)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/notifications/unread", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data dto.UnreadCountResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, int64(3), response.Data.Unread)
}

func TestNotificationHandlerMarkRead(t *testing.T) {
	svc := &mockNotificationService{}
	app := notificationApp(svc, 42)

	resp, err := app.Test(httptest.NewRequest(http.MethodPatch, "/notifications/9/read", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(9), svc.lastMarkID)
	require.Equal(t, uint(42), svc.lastUserID)
}

func TestNotificationHandlerMarkReadNotFound(t *testing.T) {
	app := notificationApp(&mockNotificationService{err: service.ErrNotificationNotFound}, 42)

	resp, err := app.Test(httptest.NewRequest(http.MethodPatch, "/notifications/9/read", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestNotificationHandlerMarkAllRead(t *testing.T) {
	svc := &mockNotificationService{updated: 4}
	app := notificationApp(svc, 42)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/notifications/read-all", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data struct {
			Updated int64 `json:"updated"`
		} `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, int64(4), response.Data.Updated)
}

package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/campushub/tutoring-api/internal/dto"
	"github.com/campushub/tutoring-api/internal/handler"
	"github.com/campushub/tutoring-api/internal/service"
)

type mockAuthService struct {
	lastRegister dto.RegisterRequest
	lastLogin    dto.LoginRequest
	response     dto.AuthResponse
	err          error
}

func (m *mockAuthService) Register(_ context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error) {
	m.lastRegister = payload
	if m.err != nil {
		return dto.AuthResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockAuthService) Login(_ context.Context, payload dto.LoginRequest) (dto.AuthResponse, error) {
	m.lastLogin = payload
	if m.err != nil {
		return dto.AuthResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockAuthService) Refresh(_ context.Context, payload dto.RefreshRequest) (dto.AuthResponse, error) {
	if m.err != nil {
		return dto.AuthResponse{}, m.err
	}
	return m.response, nil
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(body, target))
}

func jsonRequest(t *testing.T, method, target string, payload interface{}) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func authApp(svc *mockAuthService) *fiber.App {
	app := fiber.New()
	handler.NewAuthHandler(svc, testLogger()).Register(app.Group("/auth"))
	return app
}

func TestAuthHandlerRegisterSuccess(t *testing.T) {
	svc := &mockAuthService{response: dto.AuthResponse{AccessToken: "token", User: dto.UserResponse{ID: 1, Role: "student"}}}
	app := authApp(svc)

	payload := dto.RegisterRequest{
		Name:            "Ada Lovelace",
		Email:           "ada@example.edu",
		Password:        "correct horse",
		ConfirmPassword: "correct horse",
		Role:            "student",
	}

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/auth/register", payload))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var response struct {
		Success bool             `json:"success"`
		Data    dto.AuthResponse `json:"data"`
		Message string           `json:"message"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Success)
	require.Equal(t, "token", response.Data.AccessToken)
	require.Equal(t, "ada@example.edu", svc.lastRegister.Email)
}

func TestAuthHandlerRegisterInvalidBody(t *testing.T) {
	app := authApp(&mockAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAuthHandlerServiceErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		statusCode int
	}{
		{name: "email taken", err: service.ErrEmailTaken, statusCode: fiber.StatusConflict},
		{name: "bad credentials", err: service.ErrInvalidCredentials, statusCode: fiber.StatusUnauthorized},
		{name: "suspended", err: service.ErrAccountSuspended, statusCode: fiber.StatusForbidden},
		{name: "generic", err: errors.New("boom"), statusCode: fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := authApp(&mockAuthService{err: tc.err})

			resp, err := app.Test(jsonRequest(t, http.MethodPost, "/auth/login", dto.LoginRequest{
				Email:    "ada@example.edu",
				Password: "whatever",
			}))
			require.NoError(t, err)
			require.Equal(t, tc.statusCode, resp.StatusCode)
		})
	}
}

func TestAuthHandlerRefreshInvalidToken(t *testing.T) {
	app := authApp(&mockAuthService{err: service.ErrInvalidRefreshToken})

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/auth/refresh", dto.RefreshRequest{RefreshToken: "stale"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

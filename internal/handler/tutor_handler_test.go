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

type mockTutorService struct {
	tutors []dto.TutorResponse
	err    error
}

func (m *mockTutorService) List(_ context.Context) ([]dto.TutorResponse, error) {
	return m.tutors, m.err
}

func (m *mockTutorService) Get(_ context.Context, id uint) (dto.TutorResponse, error) {
	if m.err != nil {
		return dto.TutorResponse{}, m.err
	}
	for _, tutor := range m.tutors {
		if tutor.ID == id {
			return tutor, nil
		}
	}
	return dto.TutorResponse{}, service.ErrTutorNotFound
}

func (m *mockTutorService) UpdateOwnProfile(_ context.Context, userID uint, payload dto.TutorProfileUpdateRequest) (dto.TutorResponse, error) {
	if m.err != nil {
		return dto.TutorResponse{}, m.err
	}
	response := dto.TutorResponse{ID: 1}
	if payload.Bio != nil {
		response.Bio = *payload.Bio
	}
	return response, nil
}

type mockAvailabilityService struct {
	lastUserID  uint
	lastTutorID uint
	lastSlotID  uint
	lastCreate  dto.SlotCreateRequest
	slots       []dto.SlotResponse
	err         error
}

func (m *mockAvailabilityService) AddSlot(_ context.Context, tutorUserID uint, payload dto.SlotCreateRequest) (dto.SlotResponse, error) {
	m.lastUserID = tutorUserID
	m.lastCreate = payload
	if m.err != nil {
		return dto.SlotResponse{}, m.err
	}
	return dto.SlotResponse{ID: 1}, nil
}

func (m *mockAvailabilityService) RemoveSlot(_ context.Context, tutorUserID, slotID uint) error {
	m.lastUserID = tutorUserID
	m.lastSlotID = slotID
	return m.err
}

func (m *mockAvailabilityService) ListOwn(_ context.Context, tutorUserID uint) ([]dto.SlotResponse, error) {
	m.lastUserID = tutorUserID
	return m.slots, m.err
}

func (m *mockAvailabilityService) ListOpen(_ context.Context, tutorID uint) ([]dto.SlotResponse, error) {
	m.lastTutorID = tutorID
	return m.slots, m.err
}

func tutorApp(tutors *mockTutorService, availability *mockAvailabilityService, userID uint) *fiber.App {
	app := fiber.New()
	h := handler.NewTutorHandler(tutors, availability, testLogger())
	h.Register(app.Group("/tutors"))
	h.RegisterOwn(app.Group("/tutor", func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		return c.Next()
	}))
	return app
}

func TestTutorHandlerDirectory(t *testing.T) {
	tutors := &mockTutorService{tutors: []dto.TutorResponse{{ID: 1, Name: "Ada", IsApproved: true}}}
	app := tutorApp(tutors, &mockAvailabilityService{}, 0)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/tutors/", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data []dto.TutorResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Len(t, response.Data, 1)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/tutors/1", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/tutors/99", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestTutorHandlerOpenSlots(t *testing.T) {
	availability := &mockAvailabilityService{slots: []dto.SlotResponse{{ID: 4, TutorID: 7}}}
	app := tutorApp(&mockTutorService{}, availability, 0)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/tutors/7/slots", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(7), availability.lastTutorID)
}

func TestTutorHandlerAddSlot(t *testing.T) {
	availability := &mockAvailabilityService{}
	app := tutorApp(&mockTutorService{}, availability, 70)

	start := time.Now().Add(24 * time.Hour)
	payload := dto.SlotCreateRequest{
		StartTime: start.Format(time.RFC3339),
		EndTime:   start.Add(time.Hour).Format(time.RFC3339),
	}

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/tutor/slots", payload))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, uint(70), availability.lastUserID)
	require.Equal(t, payload.StartTime, availability.lastCreate.StartTime)
}

func TestTutorHandlerAddSlotInvalidWindow(t *testing.T) {
	availability := &mockAvailabilityService{err: service.ErrInvalidSlotWindow}
	app := tutorApp(&mockTutorService{}, availability, 70)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/tutor/slots", dto.SlotCreateRequest{
		StartTime: time.Now().Format(time.RFC3339),
		EndTime:   time.Now().Format(time.RFC3339),
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestTutorHandlerRemoveSlot(t *testing.T) {
	availability := &mockAvailabilityService{}
	app := tutorApp(&mockTutorService{}, availability, 70)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/tutor/slots/5", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(5), availability.lastSlotID)

	availability.err = service.ErrSlotNotFound
	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/tutor/slots/5", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestTutorHandlerUpdateProfile(t *testing.T) {
	app := tutorApp(&mockTutorService{}, &mockAvailabilityService{}, 70)

	bio := "Linear algebra specialist"
	resp, err := app.Test(jsonRequest(t, http.MethodPut, "/tutor/profile", dto.TutorProfileUpdateRequest{Bio: &bio}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data dto.TutorResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, bio, response.Data.Bio)
}

package service

import (
	"context"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campushub/tutoring-api/internal/dto"
	"github.com/campushub/tutoring-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// tutorRepoStub backs services that resolve tutor profiles.
type tutorRepoStub struct {
	profiles map[uint]models.TutorProfile
}

func newTutorRepoStub(profiles ...models.TutorProfile) *tutorRepoStub {
	stub := &tutorRepoStub{profiles: make(map[uint]models.TutorProfile)}
	for _, profile := range profiles {
		stub.profiles[profile.ID] = profile
	}
	return stub
}

func (s *tutorRepoStub) Create(ctx context.Context, profile *models.TutorProfile) error {
	if profile.ID == 0 {
		profile.ID = uint(len(s.profiles) + 1)
	}
	s.profiles[profile.ID] = *profile
	return nil
}

func (s *tutorRepoStub) Update(ctx context.Context, profile *models.TutorProfile) error {
	s.profiles[profile.ID] = *profile
	return nil
}

func (s *tutorRepoStub) GetByID(ctx context.Context, id uint) (models.TutorProfile, error) {
	profile, ok := s.profiles[id]
	if !ok {
		return models.TutorProfile{}, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func (s *tutorRepoStub) GetByUserID(ctx context.Context, userID uint) (models.TutorProfile, error) {
	for _, profile := range s.profiles {
		if profile.UserID == userID {
			return profile, nil
		}
	}
	return models.TutorProfile{}, gorm.ErrRecordNotFound
}

func (s *tutorRepoStub) List(ctx context.Context, approvedOnly bool) ([]models.TutorProfile, error) {
	var result []models.TutorProfile
	for _, profile := range s.profiles {
		if approvedOnly && !profile.IsApproved {
			continue
		}
		result = append(result, profile)
	}
	return result, nil
}

func (s *tutorRepoStub) ListUnapproved(ctx context.Context) ([]models.TutorProfile, error) {
	var result []models.TutorProfile
	for _, profile := range s.profiles {
		if !profile.IsApproved {
			result = append(result, profile)
		}
	}
	return result, nil
}

func (s *tutorRepoStub) SetApproved(ctx context.Context, id uint, approved bool) error {
	profile, ok := s.profiles[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	profile.IsApproved = approved
	s.profiles[id] = profile
	return nil
}

// notificationServiceStub records published notifications without any
// persistence or fan-out.
type notificationServiceStub struct {
	mu        sync.Mutex
	published []dto.NotificationCreateRequest
	failWith  error
}

func (s *notificationServiceStub) Publish(ctx context.Context, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return dto.NotificationResponse{}, s.failWith
	}
	s.published = append(s.published, payload)
	return dto.NotificationResponse{UserID: payload.UserID, Type: payload.Type, Message: payload.Message}, nil
}

func (s *notificationServiceStub) List(ctx context.Context, userID uint, limit, offset int) ([]dto.NotificationResponse, error) {
	return nil, nil
}

func (s *notificationServiceStub) UnreadCount(ctx context.Context, userID uint) (dto.UnreadCountResponse, error) {
	return dto.UnreadCountResponse{}, nil
}

func (s *notificationServiceStub) MarkRead(ctx context.Context, id, userID uint) (dto.NotificationResponse, error) {
	return dto.NotificationResponse{}, errors.New("not implemented")
}

func (s *notificationServiceStub) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return 0, nil
}

func (s *notificationServiceStub) Subscribe(userID uint) (<-chan dto.NotificationResponse, func()) {
	ch := make(chan dto.NotificationResponse)
	return ch, func() { close(ch) }
}

func (s *notificationServiceStub) Start(ctx context.Context) {}

func (s *notificationServiceStub) sent() []dto.NotificationCreateRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]dto.NotificationCreateRequest(nil), s.published...)
}

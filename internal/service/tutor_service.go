package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campushub/tutoring-api/internal/dto"
	"github.com/campushub/tutoring-api/internal/repository"
)

// ErrTutorNotFound indicates the requested tutor does not exist or is not
// visible under the current listing policy.
var ErrTutorNotFound = errors.New("tutor not found")

const tutorListCacheKey = "tutoring:tutors:list"

// TutorService exposes tutor discovery and profile management.
type TutorService interface {
	List(ctx context.Context) ([]dto.TutorResponse, error)
	Get(ctx context.Context, id uint) (dto.TutorResponse, error)
	UpdateOwnProfile(ctx context.Context, userID uint, payload dto.TutorProfileUpdateRequest) (dto.TutorResponse, error)
}

type tutorService struct {
	tutors repository.TutorRepository
	redis  *redis.Client
	// approvedOnly hides unapproved tutors from the public listing.
	approvedOnly bool
	cacheTTL     time.Duration
	validator    *validator.Validate
	logger       zerolog.Logger
}

// NewTutorService builds the tutor discovery service. The redis client is
// optional; a nil client disables listing caching.
func NewTutorService(tutors repository.TutorRepository, redisClient *redis.Client, approvedOnly bool, cacheTTL time.Duration, validate *validator.Validate, logger zerolog.Logger) TutorService {
	return &tutorService{
		tutors:       tutors,
		redis:        redisClient,
		approvedOnly: approvedOnly,
		cacheTTL:     cacheTTL,
		validator:    validate,
		logger:       logger.With().Str("component", "tutor_service").Logger(),
	}
}

func (s *tutorService) List(ctx context.Context) ([]dto.TutorResponse, error) {
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}

	profiles, err := s.tutors.List(ctx, s.approvedOnly)
	if err != nil {
		return nil, err
	}

	responses := dto.NewTutorResponseSlice(profiles)
	s.storeCache(ctx, responses)

	return responses, nil
}

func (s *tutorService) Get(ctx context.Context, id uint) (dto.TutorResponse, error) {
	profile, err := s.tutors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TutorResponse{}, ErrTutorNotFound
		}
		return dto.TutorResponse{}, err
	}

	if s.approvedOnly && !profile.IsApproved {
		return dto.TutorResponse{}, ErrTutorNotFound
	}

	return dto.NewTutorResponse(profile), nil
}

func (s *tutorService) UpdateOwnProfile(ctx context.Context, userID uint, payload dto.TutorProfileUpdateRequest) (dto.TutorResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TutorResponse{}, err
	}

	profile, err := s.tutors.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TutorResponse{}, ErrTutorNotFound
		}
		return dto.TutorResponse{}, err
	}

	if payload.Bio != nil {
		profile.Bio = *payload.Bio
	}
	if payload.Subjects != nil {
		profile.Subjects = payload.Subjects
	}
	if payload.HourlyRate != nil {
		profile.HourlyRate = *payload.HourlyRate
	}

	if err := s.tutors.Update(ctx, &profile); err != nil {
		return dto.TutorResponse{}, err
	}

	s.invalidateCache(ctx)
	s.logger.Info().Uint("tutor_id", profile.ID).Msg("tutor profile updated")

	return dto.NewTutorResponse(profile), nil
}

func (s *tutorService) fromCache(ctx context.Context) ([]dto.TutorResponse, bool) {
	if s.redis == nil {
		return nil, false
	}

	payload, err := s.redis.Get(ctx, tutorListCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("tutor list cache read failed")
		}
		return nil, false
	}

	var responses []dto.TutorResponse
	if err := json.Unmarshal(payload, &responses); err != nil {
		return nil, false
	}

	return responses, true
}

func (s *tutorService) storeCache(ctx context.Context, responses []dto.TutorResponse) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(responses)
	if err != nil {
		return
	}

	if err := s.redis.Set(ctx, tutorListCacheKey, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("tutor list cache write failed")
	}
}

func (s *tutorService) invalidateCache(ctx context.Context) {
	if s.redis == nil {
		return
	}

	if err := s.redis.Del(ctx, tutorListCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("tutor list cache invalidation failed")
	}
}

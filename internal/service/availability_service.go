package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campushub/tutoring-api/internal/dto"
	"github.com/campushub/tutoring-api/internal/models"
	"github.com/campushub/tutoring-api/internal/repository"
)

var (
	// ErrSlotNotFound indicates the slot does not exist or is not owned by the caller.
	ErrSlotNotFound = errors.New("availability slot not found")
	// ErrInvalidSlotWindow indicates a degenerate or past time window.
	ErrInvalidSlotWindow = errors.New("slot window must be in the future with start before end")
)

// AvailabilityService manages the per-tutor ledger of bookable windows.
// Expired slots are purged inline on every read path rather than by a
// background job.
type AvailabilityService interface {
	AddSlot(ctx context.Context, tutorUserID uint, payload dto.SlotCreateRequest) (dto.SlotResponse, error)
	RemoveSlot(ctx context.Context, tutorUserID, slotID uint) error
	ListOwn(ctx context.Context, tutorUserID uint) ([]dto.SlotResponse, error)
	ListOpen(ctx context.Context, tutorID uint) ([]dto.SlotResponse, error)
}

type availabilityService struct {
	slots     repository.SlotRepository
	tutors    repository.TutorRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAvailabilityService builds the availability ledger service.
func NewAvailabilityService(slots repository.SlotRepository, tutors repository.TutorRepository, validate *validator.Validate, logger zerolog.Logger) AvailabilityService {
	return &availabilityService{
		slots:     slots,
		tutors:    tutors,
		validator: validate,
		logger:    logger.With().Str("component", "availability_service").Logger(),
		now:       time.Now,
	}
}

func (s *availabilityService) AddSlot(ctx context.Context, tutorUserID uint, payload dto.SlotCreateRequest) (dto.SlotResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SlotResponse{}, err
	}

	start, err := time.Parse(time.RFC3339, payload.StartTime)
	if err != nil {
		return dto.SlotResponse{}, fmt.Errorf("invalid start time: %w", err)
	}

	end, err := time.Parse(time.RFC3339, payload.EndTime)
	if err != nil {
		return dto.SlotResponse{}, fmt.Errorf("invalid end time: %w", err)
	}

	if !start.Before(end) || !end.After(s.now()) {
		return dto.SlotResponse{}, ErrInvalidSlotWindow
	}

	profile, err := s.tutors.GetByUserID(ctx, tutorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SlotResponse{}, ErrTutorNotFound
		}
		return dto.SlotResponse{}, err
	}

	slot := models.AvailabilitySlot{
		TutorID:   profile.ID,
		StartTime: start,
		EndTime:   end,
	}

	if err := s.slots.Create(ctx, &slot); err != nil {
		return dto.SlotResponse{}, err
	}

	s.logger.Info().Uint("tutor_id", profile.ID).Uint("slot_id", slot.ID).Msg("availability slot added")

	return dto.NewSlotResponse(slot), nil
}

func (s *availabilityService) RemoveSlot(ctx context.Context, tutorUserID, slotID uint) error {
	profile, err := s.tutors.GetByUserID(ctx, tutorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTutorNotFound
		}
		return err
	}

	if err := s.slots.Delete(ctx, slotID, profile.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSlotNotFound
		}
		return err
	}

	return nil
}

func (s *availabilityService) ListOwn(ctx context.Context, tutorUserID uint) ([]dto.SlotResponse, error) {
	profile, err := s.tutors.GetByUserID(ctx, tutorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTutorNotFound
		}
		return nil, err
	}

	slots, err := s.slots.ListByTutor(ctx, profile.ID, false, s.now())
	if err != nil {
		return nil, err
	}

	return dto.NewSlotResponseSlice(slots), nil
}

func (s *availabilityService) ListOpen(ctx context.Context, tutorID uint) ([]dto.SlotResponse, error) {
	if _, err := s.tutors.GetByID(ctx, tutorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTutorNotFound
		}
		return nil, err
	}

	slots, err := s.slots.ListByTutor(ctx, tutorID, true, s.now())
	if err != nil {
		return nil, err
	}

	return dto.NewSlotResponseSlice(slots), nil
}

package dto

import (
	"time"

	"github.com/campushub/tutoring-api/internal/models"
)

const isoLayout = time.RFC3339

// TutorProfileUpdateRequest lets a tutor edit their own profile.
type TutorProfileUpdateRequest struct {
	Bio        *string  `json:"bio" validate:"omitempty,max=2000"`
	Subjects   []string `json:"subjects" validate:"omitempty,dive,min=1"`
	HourlyRate *float64 `json:"hourly_rate" validate:"omitempty,gte=0"`
}

// TutorResponse is the public listing representation of a tutor.
type TutorResponse struct {
	ID         uint     `json:"id"`
	Name       string   `json:"name"`
	Bio        string   `json:"bio"`
	Subjects   []string `json:"subjects"`
	HourlyRate float64  `json:"hourly_rate"`
	IsApproved bool     `json:"is_approved"`
}

// NewTutorResponse converts a profile (with preloaded user) into a DTO.
func NewTutorResponse(model models.TutorProfile) TutorResponse {
	return TutorResponse{
		ID:         model.ID,
		Name:       model.User.Name,
		Bio:        model.Bio,
		Subjects:   model.Subjects,
		HourlyRate: model.HourlyRate,
		IsApproved: model.IsApproved,
	}
}

// NewTutorResponseSlice converts a slice of profiles into DTOs.
func NewTutorResponseSlice(profiles []models.TutorProfile) []TutorResponse {
	responses := make([]TutorResponse, 0, len(profiles))
	for _, profile := range profiles {
		responses = append(responses, NewTutorResponse(profile))
	}

	return responses
}

// SlotCreateRequest declares a new availability window.
type SlotCreateRequest struct {
	StartTime string `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime   string `json:"end_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// SlotResponse is the serialized availability slot.
type SlotResponse struct {
	ID        uint      `json:"id"`
	TutorID   uint      `json:"tutor_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	IsBooked  bool      `json:"is_booked"`
}

// NewSlotResponse converts a model into a DTO.
func NewSlotResponse(model models.AvailabilitySlot) SlotResponse {
	return SlotResponse{
		ID:        model.ID,
		TutorID:   model.TutorID,
		StartTime: model.StartTime,
		EndTime:   model.EndTime,
		IsBooked:  model.IsBooked,
	}
}

// NewSlotResponseSlice converts a slice of models into DTOs.
func NewSlotResponseSlice(slots []models.AvailabilitySlot) []SlotResponse {
	responses := make([]SlotResponse, 0, len(slots))
	for _, slot := range slots {
		responses = append(responses, NewSlotResponse(slot))
	}

	return responses
}

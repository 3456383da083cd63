package dto

import (
	"time"

	"github.com/campushub/tutoring-api/internal/models"
)

// StudySessionCreateRequest schedules a personal study block.
type StudySessionCreateRequest struct {
	Title        string `json:"title" validate:"required,min=3,max=255"`
	AssignmentID *uint  `json:"assignment_id" validate:"omitempty,gt=0"`
	StartTime    string `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime      string `json:"end_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Notes        string `json:"notes" validate:"omitempty,max=4000"`
}

// StudySessionUpdateRequest reschedules or re-labels an existing block.
type StudySessionUpdateRequest struct {
	Title        string `json:"title" validate:"required,min=3,max=255"`
	AssignmentID *uint  `json:"assignment_id" validate:"omitempty,gt=0"`
	StartTime    string `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime      string `json:"end_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Status       string `json:"status" validate:"required,oneof=planned completed skipped"`
	Notes        string `json:"notes" validate:"omitempty,max=4000"`
}

// StudySessionStatusRequest flips a block's status.
type StudySessionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=planned completed skipped"`
}

// StudyPlanRequest asks for auto-generated study blocks ahead of an
// assignment's due date.
type StudyPlanRequest struct {
	AssignmentID uint `json:"assignment_id" validate:"required,gt=0"`
	TotalHours   int  `json:"total_hours" validate:"required,gt=0,lte=40"`
}

// StudySessionResponse is the serialized study block.
type StudySessionResponse struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	AssignmentID *uint     `json:"assignment_id,omitempty"`
	Title        string    `json:"title"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes,omitempty"`
}

// NewStudySessionResponse converts a model into a DTO.
func NewStudySessionResponse(model models.StudySession) StudySessionResponse {
	return StudySessionResponse{
		ID:           model.ID,
		UserID:       model.UserID,
		AssignmentID: model.AssignmentID,
		Title:        model.Title,
		StartTime:    model.StartTime,
		EndTime:      model.EndTime,
		Status:       model.Status,
		Notes:        model.Notes,
	}
}

// NewStudySessionResponseSlice converts a slice of models into DTOs.
func NewStudySessionResponseSlice(sessions []models.StudySession) []StudySessionResponse {
	responses := make([]StudySessionResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, NewStudySessionResponse(session))
	}

	return responses
}

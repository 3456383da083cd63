package dto

import (
	"time"

	"github.com/campushub/tutoring-api/internal/models"
)

// TutoringRequestCreate describes a student's ask for tutoring, optionally
// tied to one of the tutor's open slots.
type TutoringRequestCreate struct {
	Topic   string `json:"topic" validate:"required,min=3,max=255"`
	Details string `json:"details" validate:"omitempty,max=4000"`
	SlotID  *uint  `json:"slot_id" validate:"omitempty,gt=0"`
}

// AcceptRequest carries the tutor's proposed session window. The tutor may
// counter-propose times different from the original slot.
type AcceptRequest struct {
	StartTime string `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime   string `json:"end_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// FeedbackRequest carries the student's post-session feedback.
type FeedbackRequest struct {
	Feedback string `json:"feedback" validate:"required,max=4000"`
}

// SummaryRequest carries the tutor's closing notes and final status.
type SummaryRequest struct {
	Notes  string `json:"notes" validate:"omitempty,max=4000"`
	Status string `json:"status" validate:"required,oneof=scheduled completed cancelled"`
}

// TutoringRequestResponse is the serialized workflow state of a request.
type TutoringRequestResponse struct {
	ID        uint             `json:"id"`
	StudentID uint             `json:"student_id"`
	TutorID   uint             `json:"tutor_id"`
	SlotID    *uint            `json:"slot_id"`
	Topic     string           `json:"topic"`
	Details   string           `json:"details"`
	Status    string           `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	Session   *SessionResponse `json:"session,omitempty"`
}

// SessionResponse is the serialized tutoring session.
type SessionResponse struct {
	ID              uint      `json:"id"`
	RequestID       uint      `json:"request_id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Status          string    `json:"status"`
	TutorNotes      string    `json:"tutor_notes"`
	StudentFeedback string    `json:"student_feedback"`
}

// NewSessionResponse converts a model into a DTO.
func NewSessionResponse(model models.TutoringSession) SessionResponse {
	return SessionResponse{
		ID:              model.ID,
		RequestID:       model.RequestID,
		StartTime:       model.StartTime,
		EndTime:         model.EndTime,
		Status:          model.Status,
		TutorNotes:      model.TutorNotes,
		StudentFeedback: model.StudentFeedback,
	}
}

// NewSessionResponseSlice converts a slice of models into DTOs.
func NewSessionResponseSlice(sessions []models.TutoringSession) []SessionResponse {
	responses := make([]SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, NewSessionResponse(session))
	}

	return responses
}

// NewTutoringRequestResponse converts a model into a DTO.
func NewTutoringRequestResponse(model models.TutoringRequest) TutoringRequestResponse {
	response := TutoringRequestResponse{
		ID:        model.ID,
		StudentID: model.StudentID,
		TutorID:   model.TutorID,
		SlotID:    model.SlotID,
		Topic:     model.Topic,
		Details:   model.Details,
		Status:    model.Status,
		CreatedAt: model.CreatedAt,
	}

	if model.Session != nil {
		session := NewSessionResponse(*model.Session)
		response.Session = &session
	}

	return response
}

// NewTutoringRequestResponseSlice converts a slice of models into DTOs.
func NewTutoringRequestResponseSlice(requests []models.TutoringRequest) []TutoringRequestResponse {
	responses := make([]TutoringRequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, NewTutoringRequestResponse(request))
	}

	return responses
}

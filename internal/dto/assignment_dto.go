package dto

import (
	"time"

	"github.com/campushub/tutoring-api/internal/models"
)

// AssignmentCreateRequest is posted by a tutor and fanned out to every
// student enrolled in the course.
type AssignmentCreateRequest struct {
	CourseID    uint   `json:"course_id" validate:"required,gt=0"`
	Title       string `json:"title" validate:"required,min=3,max=255"`
	Description string `json:"description" validate:"omitempty,max=4000"`
	DueDate     string `json:"due_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// AssignmentSubmitRequest carries a student's submission text.
type AssignmentSubmitRequest struct {
	SubmissionText string `json:"submission_text" validate:"required,min=1"`
}

// AssignmentGradeRequest carries a tutor's grade and feedback.
type AssignmentGradeRequest struct {
	Grade    string `json:"grade" validate:"required,max=16"`
	Feedback string `json:"feedback" validate:"omitempty,max=4000"`
}

// AssignmentResponse is the serialized assignment.
type AssignmentResponse struct {
	ID             uint       `json:"id"`
	CourseID       uint       `json:"course_id"`
	StudentID      uint       `json:"student_id"`
	TutorID        uint       `json:"tutor_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	DueDate        time.Time  `json:"due_date"`
	Status         string     `json:"status"`
	SubmissionText string     `json:"submission_text,omitempty"`
	SubmittedAt    *time.Time `json:"submitted_at,omitempty"`
	Grade          *string    `json:"grade,omitempty"`
	TutorFeedback  string     `json:"tutor_feedback,omitempty"`
}

// NewAssignmentResponse converts a model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:             model.ID,
		CourseID:       model.CourseID,
		StudentID:      model.StudentID,
		TutorID:        model.TutorID,
		Title:          model.Title,
		Description:    model.Description,
		DueDate:        model.DueDate,
		Status:         model.Status,
		SubmissionText: model.SubmissionText,
		SubmittedAt:    model.SubmittedAt,
		Grade:          model.Grade,
		TutorFeedback:  model.TutorFeedback,
	}
}

// NewAssignmentResponseSlice converts a slice of models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}

	return responses
}

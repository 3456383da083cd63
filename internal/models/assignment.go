package models

import "time"

// Assignment statuses.
const (
	AssignmentStatusPending   = "pending"
	AssignmentStatusCompleted = "completed"
)

// Assignment is issued per enrolled student when a tutor posts coursework.
type Assignment struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	CourseID       uint       `gorm:"index;not null" json:"course_id"`
	StudentID      uint       `gorm:"index;not null" json:"student_id"`
	TutorID        uint       `gorm:"index;not null" json:"tutor_id"`
	Title          string     `gorm:"size:255;not null" json:"title"`
	Description    string     `gorm:"type:text" json:"description"`
	DueDate        time.Time  `gorm:"not null" json:"due_date"`
	Status         string     `gorm:"size:32;not null;default:pending" json:"status"`
	SubmissionText string     `gorm:"type:text" json:"submission_text"`
	SubmittedAt    *time.Time `json:"submitted_at"`
	Grade          *string    `gorm:"size:16" json:"grade"`
	TutorFeedback  string     `gorm:"type:text" json:"tutor_feedback"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// IsPastDue reports whether submissions are no longer accepted.
func (a Assignment) IsPastDue(now time.Time) bool {
	return a.DueDate.Before(now)
}

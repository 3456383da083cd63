package models

import "time"

// Tutoring request lifecycle states. Pending may move to any other state
// exactly once; cancellation is allowed from pending or accepted.
const (
	RequestStatusPending   = "pending"
	RequestStatusAccepted  = "accepted"
	RequestStatusDeclined  = "declined"
	RequestStatusCancelled = "cancelled"
)

// Tutoring session lifecycle states.
const (
	SessionStatusScheduled = "scheduled"
	SessionStatusCompleted = "completed"
	SessionStatusCancelled = "cancelled"
)

// TutoringRequest is a student's ask to meet a tutor, optionally tied to
// one of the tutor's availability slots.
type TutoringRequest struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"index;not null" json:"student_id"`
	TutorID   uint      `gorm:"index;not null" json:"tutor_id"`
	SlotID    *uint     `gorm:"index" json:"slot_id"`
	Topic     string    `gorm:"size:255;not null" json:"topic"`
	Details   string    `gorm:"type:text" json:"details"`
	Status    string    `gorm:"size:32;not null;default:pending" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Session *TutoringSession `gorm:"foreignKey:RequestID" json:"session,omitempty"`
}

// IsTerminal reports whether the request can no longer change state.
func (r TutoringRequest) IsTerminal() bool {
	return r.Status == RequestStatusDeclined || r.Status == RequestStatusCancelled
}

// TutoringSession is the scheduled meeting produced by an accepted request.
// Exactly one session exists per accepted request.
type TutoringSession struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	RequestID       uint      `gorm:"uniqueIndex;not null" json:"request_id"`
	StartTime       time.Time `gorm:"not null" json:"start_time"`
	EndTime         time.Time `gorm:"not null" json:"end_time"`
	Status          string    `gorm:"size:32;not null;default:scheduled" json:"status"`
	TutorNotes      string    `gorm:"type:text" json:"tutor_notes"`
	StudentFeedback string    `gorm:"type:text" json:"student_feedback"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

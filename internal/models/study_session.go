package models

import "time"

// Study session statuses.
const (
	StudySessionStatusPlanned   = "planned"
	StudySessionStatusCompleted = "completed"
	StudySessionStatusSkipped   = "skipped"
)

// StudySession is a personal study block a student plans for themselves,
// optionally tied to an assignment.
type StudySession struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	AssignmentID *uint     `gorm:"index" json:"assignment_id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	StartTime    time.Time `gorm:"not null" json:"start_time"`
	EndTime      time.Time `gorm:"not null" json:"end_time"`
	Status       string    `gorm:"size:32;not null;default:planned" json:"status"`
	Notes        string    `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Overlaps reports whether the session intersects the given window.
// Touching boundaries do not count as an overlap.
func (s StudySession) Overlaps(start, end time.Time) bool {
	return s.StartTime.Before(end) && s.EndTime.After(start)
}

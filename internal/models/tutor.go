package models

import (
	"time"

	"gorm.io/datatypes"
)

// TutorProfile extends a tutor-role user with teaching details.
// Approval is granted by an admin before the tutor becomes publicly listed.
type TutorProfile struct {
	ID         uint                         `gorm:"primaryKey" json:"id"`
	UserID     uint                         `gorm:"uniqueIndex;not null" json:"user_id"`
	User       User                         `json:"-"`
	Bio        string                       `gorm:"type:text" json:"bio"`
	Subjects   datatypes.JSONSlice[string]  `gorm:"type:json" json:"subjects"`
	HourlyRate float64                      `gorm:"not null;default:0" json:"hourly_rate"`
	IsApproved bool                         `gorm:"not null;default:false" json:"is_approved"`
	CreatedAt  time.Time                    `json:"created_at"`
	UpdatedAt  time.Time                    `json:"updated_at"`
}

// AvailabilitySlot is a tutor-declared open time window, bookable once.
type AvailabilitySlot struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TutorID   uint      `gorm:"index;not null" json:"tutor_id"`
	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
	IsBooked  bool      `gorm:"not null;default:false" json:"is_booked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsExpired reports whether the slot window has fully passed.
func (s AvailabilitySlot) IsExpired(now time.Time) bool {
	return s.EndTime.Before(now)
}

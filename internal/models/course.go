package models

import "time"

// Course is a catalog entry students can enroll in.
type Course struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"size:32;uniqueIndex;not null" json:"code"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Enrollment links a student to a course. A student may enroll in a
// course at most once.
type Enrollment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_enrollment_user_course;not null" json:"user_id"`
	CourseID  uint      `gorm:"uniqueIndex:idx_enrollment_user_course;not null" json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
}

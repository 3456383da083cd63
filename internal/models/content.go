package models

import (
	"time"

	"gorm.io/datatypes"
)

// Resource is study material published by a tutor or admin.
type Resource struct {
	ID        uint                        `gorm:"primaryKey" json:"id"`
	UserID    uint                        `gorm:"index;not null" json:"user_id"`
	CourseID  *uint                       `gorm:"index" json:"course_id"`
	Title     string                      `gorm:"size:255;not null" json:"title"`
	Type      string                      `gorm:"size:32;not null;default:link" json:"type"`
	Content   string                      `gorm:"type:text" json:"content"`
	Tags      datatypes.JSONSlice[string] `gorm:"type:json" json:"tags"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

// QAThread is a question posted to the Q&A board.
type QAThread struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	CourseID  *uint     `gorm:"index" json:"course_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Posts     []QAPost  `json:"posts,omitempty"`
}

// QAPost is a reply within a Q&A thread.
type QAPost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ThreadID  uint      `gorm:"index;not null" json:"thread_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

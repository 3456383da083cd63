package models

import "time"

// Roles assignable to a user account. Role is fixed at registration.
const (
	RoleStudent = "student"
	RoleTutor   = "tutor"
	RoleAdmin   = "admin"
)

// Account statuses. Suspended users are denied all authenticated access.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// User represents a registered account on the platform.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:32;not null;default:student" json:"role"`
	Status       string    `gorm:"size:32;not null;default:active" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsSuspended reports whether the account has been suspended by an admin.
func (u User) IsSuspended() bool {
	return u.Status == UserStatusSuspended
}

package dto

import (
	"time"

	"github.com/campushub/tutoring-api/internal/models"
)

// RegisterRequest describes the signup payload. Tutors additionally supply
// profile fields; their profiles start unapproved.
type RegisterRequest struct {
	Name            string   `json:"name" validate:"required,min=2"`
	Email           string   `json:"email" validate:"required,email"`
	Password        string   `json:"password" validate:"required,min=8"`
	ConfirmPassword string   `json:"confirm_password" validate:"required,eqfield=Password"`
	Role            string   `json:"role" validate:"required,oneof=student tutor"`
	Bio             string   `json:"bio" validate:"omitempty,max=2000"`
	Subjects        []string `json:"subjects" validate:"omitempty,dive,min=1"`
	HourlyRate      float64  `json:"hourly_rate" validate:"omitempty,gte=0"`
}

// LoginRequest describes the credential payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries a refresh token to exchange for a new pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse carries the issued token pair and the account summary.
type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
	User         UserResponse `json:"user"`
}

// UserResponse is the serialized representation of an account.
type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse converts a model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Role:      model.Role,
		Status:    model.Status,
		CreatedAt: model.CreatedAt,
	}
}

// NewUserResponseSlice converts a slice of models into DTOs.
func NewUserResponseSlice(users []models.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUserResponse(user))
	}

	return responses
}

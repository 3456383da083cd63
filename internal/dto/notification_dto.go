package dto

import (
	"time"

	"github.com/campushub/tutoring-api/internal/models"
)

// NotificationCreateRequest is the internal payload other services hand to
// the outbox when an interesting event happens.
type NotificationCreateRequest struct {
	UserID  uint   `json:"user_id" validate:"required,gt=0"`
	Type    string `json:"type" validate:"required,max=64"`
	Message string `json:"message" validate:"required,max=4000"`
	Link    string `json:"link" validate:"omitempty,max=255"`
}

// UnreadCountResponse reports the recipient's unread badge count.
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

// NotificationResponse is the serialized outbox entry.
type NotificationResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotificationResponse converts a model into a DTO.
func NewNotificationResponse(model models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        model.ID,
		UserID:    model.UserID,
		Type:      model.Type,
		Message:   model.Message,
		Link:      model.Link,
		Read:      model.Read,
		CreatedAt: model.CreatedAt,
	}
}

// NewNotificationResponseSlice converts a slice of models into DTOs.
func NewNotificationResponseSlice(notifications []models.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		responses = append(responses, NewNotificationResponse(notification))
	}

	return responses
}

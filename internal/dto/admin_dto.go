package dto

import (
	"time"

	"github.com/campushub/tutoring-api/internal/models"
)

// AdminStatsResponse summarises platform activity for the admin dashboard.
type AdminStatsResponse struct {
	TotalUsers        int64 `json:"total_users"`
	ScheduledSessions int64 `json:"scheduled_sessions"`
	PendingTutors     int64 `json:"pending_tutors"`
	Resources         int64 `json:"resources"`
}

// AuditLogListRequest filters the audit trail listing.
type AuditLogListRequest struct {
	Page       int    `query:"page" validate:"omitempty,gte=1"`
	PageSize   int    `query:"page_size" validate:"omitempty,gte=1,lte=100"`
	ActorID    uint   `query:"actor_id"`
	Action     string `query:"action"`
	EntityType string `query:"entity_type"`
}

// AuditLogResponse is the serialized audit entry.
type AuditLogResponse struct {
	ID         uint                   `json:"id"`
	ActorID    uint                   `json:"actor_id"`
	ActorRole  string                 `json:"actor_role"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   *uint                  `json:"entity_id"`
	Metadata   map[string]interface{} `json:"metadata"`
	CreatedAt  time.Time              `json:"created_at"`
}

// PaginationMeta describes the page window of a list response.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// AuditLogListResponse pairs entries with pagination metadata.
type AuditLogListResponse struct {
	Items      []AuditLogResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}

// NewAuditLogResponse converts a model into a DTO.
func NewAuditLogResponse(model models.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:         model.ID,
		ActorID:    model.ActorID,
		ActorRole:  model.ActorRole,
		Action:     model.Action,
		EntityType: model.EntityType,
		EntityID:   model.EntityID,
		Metadata:   model.Metadata,
		CreatedAt:  model.CreatedAt,
	}
}

package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/campushub/tutoring-api/internal/dto"
	"github.com/campushub/tutoring-api/internal/models"
	"github.com/campushub/tutoring-api/internal/repository"
)

// Workflow and admin actions recorded in the audit trail.
const (
	AuditActionRequestAccepted  = "request.accepted"
	AuditActionRequestDeclined  = "request.declined"
	AuditActionRequestCancelled = "request.cancelled"
	AuditActionTutorApproved    = "tutor.approved"
	AuditActionTutorRejected    = "tutor.rejected"
	AuditActionUserSuspended    = "user.suspended"
	AuditActionUserActivated    = "user.activated"
	AuditActionUserDeleted      = "user.deleted"
	AuditActionContentRemoved   = "content.removed"
)

// AuditService records and queries the append-only trail of privileged and
// workflow actions. Sensitive metadata values are masked before persisting.
type AuditService interface {
	Record(ctx context.Context, entry models.AuditLog) error
	List(ctx context.Context, payload dto.AuditLogListRequest) (dto.AuditLogListResponse, error)
}

type auditService struct {
	repo      repository.AuditLogRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAuditService constructs the audit trail service.
func NewAuditService(repo repository.AuditLogRepository, validate *validator.Validate, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "audit_service").Logger(),
	}
}

func (s *auditService) Record(ctx context.Context, entry models.AuditLog) error {
	entry.Metadata = sanitizeAuditMetadata(entry.Metadata)
	if err := s.repo.Create(ctx, &entry); err != nil {
		s.logger.Error().Err(err).Str("action", entry.Action).Msg("failed to record audit entry")
		return err
	}
	return nil
}

func (s *auditService) List(ctx context.Context, payload dto.AuditLogListRequest) (dto.AuditLogListResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuditLogListResponse{}, err
	}

	page := payload.Page
	if page < 1 {
		page = 1
	}
	pageSize := payload.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	filter := repository.AuditLogFilter{
		Page:       page,
		PageSize:   pageSize,
		Action:     payload.Action,
		EntityType: payload.EntityType,
	}
	if payload.ActorID != 0 {
		actorID := payload.ActorID
		filter.ActorID = &actorID
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.AuditLogListResponse{}, err
	}

	items := make([]dto.AuditLogResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.NewAuditLogResponse(entry))
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}

	return dto.AuditLogListResponse{
		Items: items,
		Pagination: dto.PaginationMeta{
			Page:       page,
			PageSize:   pageSize,
			TotalItems: total,
			TotalPages: totalPages,
		},
	}, nil
}

// sanitizeAuditMetadata masks values under keys that commonly carry
// credentials or contact data.
func sanitizeAuditMetadata(metadata datatypes.JSONMap) datatypes.JSONMap {
	if metadata == nil {
		return nil
	}

	clean := make(datatypes.JSONMap, len(metadata))
	for key, value := range metadata {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "password") || strings.Contains(lower, "token") || strings.Contains(lower, "secret") || strings.Contains(lower, "email") {
			clean[key] = "[redacted]"
			continue
		}
		clean[key] = value
	}

	return clean
}

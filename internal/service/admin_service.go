package service

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campushub/tutoring-api/internal/dto"
	"github.com/campushub/tutoring-api/internal/models"
	"github.com/campushub/tutoring-api/internal/repository"
)

// ErrUserNotFound indicates the target user does not exist.
var ErrUserNotFound = errors.New("user not found")

// AdminService covers moderation and platform management. Every mutating
// action lands in the audit trail with the acting admin as the actor.
type AdminService interface {
	Stats(ctx context.Context) (dto.AdminStatsResponse, error)
	ListUsers(ctx context.Context, limit, offset int) ([]dto.UserResponse, int64, error)
	ListPendingTutors(ctx context.Context) ([]dto.TutorResponse, error)

	ApproveTutor(ctx context.Context, adminID, tutorID uint) (dto.TutorResponse, error)
	RejectTutor(ctx context.Context, adminID, tutorID uint) error
	SuspendUser(ctx context.Context, adminID, userID uint) error
	ActivateUser(ctx context.Context, adminID, userID uint) error
	DeleteUser(ctx context.Context, adminID, userID uint) error

	DeleteResource(ctx context.Context, adminID, resourceID uint) error
	DeleteThread(ctx context.Context, adminID, threadID uint) error
}

type adminService struct {
	users         repository.UserRepository
	tutors        repository.TutorRepository
	stats         repository.StatsRepository
	resources     repository.ResourceRepository
	threads       repository.QARepository
	audit         AuditService
	notifications NotificationService
	redis         *redis.Client
	logger        zerolog.Logger
}

// NewAdminService constructs the admin service. The redis client is
// optional; when present, approval changes drop the cached tutor listing.
func NewAdminService(users repository.UserRepository, tutors repository.TutorRepository, stats repository.StatsRepository, resources repository.ResourceRepository, threads repository.QARepository, audit AuditService, notifications NotificationService, redisClient *redis.Client, logger zerolog.Logger) AdminService {
	return &adminService{
		users:         users,
		tutors:        tutors,
		stats:         stats,
		resources:     resources,
		threads:       threads,
		audit:         audit,
		notifications: notifications,
		redis:         redisClient,
		logger:        logger.With().Str("component", "admin_service").Logger(),
	}
}

func (s *adminService) Stats(ctx context.Context) (dto.AdminStatsResponse, error) {
	stats, err := s.stats.Collect(ctx)
	if err != nil {
		return dto.AdminStatsResponse{}, err
	}

	return dto.AdminStatsResponse{
		TotalUsers:        stats.TotalUsers,
		ScheduledSessions: stats.ScheduledSessions,
		PendingTutors:     stats.PendingTutors,
		Resources:         stats.Resources,
	}, nil
}

func (s *adminService) ListUsers(ctx context.Context, limit, offset int) ([]dto.UserResponse, int64, error) {
	users, total, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	return dto.NewUserResponseSlice(users), total, nil
}

func (s *adminService) ListPendingTutors(ctx context.Context) ([]dto.TutorResponse, error) {
	profiles, err := s.tutors.ListUnapproved(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewTutorResponseSlice(profiles), nil
}

func (s *adminService) ApproveTutor(ctx context.Context, adminID, tutorID uint) (dto.TutorResponse, error) {
	profile, err := s.tutors.GetByID(ctx, tutorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TutorResponse{}, ErrTutorNotFound
		}
		return dto.TutorResponse{}, err
	}

	if err := s.tutors.SetApproved(ctx, tutorID, true); err != nil {
		return dto.TutorResponse{}, err
	}
	profile.IsApproved = true

	s.invalidateTutorCache(ctx)
	s.record(ctx, adminID, AuditActionTutorApproved, "tutor_profile", tutorID, nil)
	s.notify(ctx, profile.UserID, "tutor.approved", "Your tutor profile has been approved. Students can now find you.", "/tutors/me")

	s.logger.Info().Uint("tutor_id", tutorID).Uint("admin_id", adminID).Msg("tutor approved")

	return dto.NewTutorResponse(profile), nil
}

// RejectTutor removes the application entirely: the account and its
// profile are deleted, so the rejected tutor cannot keep signing in.
func (s *adminService) RejectTutor(ctx context.Context, adminID, tutorID uint) error {
	profile, err := s.tutors.GetByID(ctx, tutorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTutorNotFound
		}
		return err
	}

	if err := s.users.Delete(ctx, profile.UserID); err != nil {
		return err
	}

	s.invalidateTutorCache(ctx)
	s.record(ctx, adminID, AuditActionTutorRejected, "tutor_profile", tutorID, datatypes.JSONMap{"user_id": profile.UserID})

	s.logger.Info().Uint("tutor_id", tutorID).Uint("admin_id", adminID).Msg("tutor rejected and account removed")

	return nil
}

func (s *adminService) SuspendUser(ctx context.Context, adminID, userID uint) error {
	return s.setUserStatus(ctx, adminID, userID, models.UserStatusSuspended, AuditActionUserSuspended)
}

func (s *adminService) ActivateUser(ctx context.Context, adminID, userID uint) error {
	return s.setUserStatus(ctx, adminID, userID, models.UserStatusActive, AuditActionUserActivated)
}

func (s *adminService) setUserStatus(ctx context.Context, adminID, userID uint, status, action string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.users.UpdateStatus(ctx, user.ID, status); err != nil {
		return err
	}

	s.record(ctx, adminID, action, "user", userID, datatypes.JSONMap{"previous_status": user.Status})

	return nil
}

func (s *adminService) DeleteUser(ctx context.Context, adminID, userID uint) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	s.record(ctx, adminID, AuditActionUserDeleted, "user", userID, nil)
	s.logger.Info().Uint("user_id", userID).Uint("admin_id", adminID).Msg("user deleted")

	return nil
}

func (s *adminService) DeleteResource(ctx context.Context, adminID, resourceID uint) error {
	if err := s.resources.Delete(ctx, resourceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResourceNotFound
		}
		return err
	}

	s.record(ctx, adminID, AuditActionContentRemoved, "resource", resourceID, nil)

	return nil
}

func (s *adminService) DeleteThread(ctx context.Context, adminID, threadID uint) error {
	if err := s.threads.DeleteThread(ctx, threadID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrThreadNotFound
		}
		return err
	}

	s.record(ctx, adminID, AuditActionContentRemoved, "qa_thread", threadID, nil)

	return nil
}

func (s *adminService) record(ctx context.Context, adminID uint, action, entityType string, entityID uint, metadata datatypes.JSONMap) {
	id := entityID
	entry := models.AuditLog{
		ActorID:    adminID,
		ActorRole:  models.RoleAdmin,
		Action:     action,
		EntityType: entityType,
		EntityID:   &id,
		Metadata:   metadata,
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("audit record failed")
	}
}

func (s *adminService) invalidateTutorCache(ctx context.Context) {
	if s.redis == nil {
		return
	}

	if err := s.redis.Del(ctx, tutorListCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("tutor list cache invalidation failed")
	}
}

func (s *adminService) notify(ctx context.Context, userID uint, kind, message, link string) {
	if s.notifications == nil {
		return
	}
	if _, err := s.notifications.Publish(ctx, dto.NotificationCreateRequest{
		UserID:  userID,
		Type:    kind,
		Message: message,
		Link:    link,
	}); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", userID).Msg("failed to notify user")
	}
}

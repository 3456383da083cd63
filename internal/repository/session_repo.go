package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/campushub/tutoring-api/internal/models"
)

// SessionRepository handles persistence for tutoring sessions.
type SessionRepository interface {
	GetByID(ctx context.Context, id uint) (models.TutoringSession, error)
	GetByRequestID(ctx context.Context, requestID uint) (models.TutoringSession, error)
	// GetWithRequest loads a session together with its originating request
	// so callers can resolve ownership.
	GetWithRequest(ctx context.Context, id uint) (models.TutoringSession, models.TutoringRequest, error)
	Save(ctx context.Context, session *models.TutoringSession) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	ListByTutor(ctx context.Context, tutorID uint, upcoming bool, now time.Time) ([]models.TutoringSession, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository constructs the tutoring session repository.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) GetByID(ctx context.Context, id uint) (models.TutoringSession, error) {
	var session models.TutoringSession
	if err := r.db.WithContext(ctx).First(&session, id).Error; err != nil {
		return models.TutoringSession{}, err
	}

	return session, nil
}

func (r *sessionRepository) GetByRequestID(ctx context.Context, requestID uint) (models.TutoringSession, error) {
	var session models.TutoringSession
	if err := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&session).Error; err != nil {
		return models.TutoringSession{}, err
	}

	return session, nil
}

func (r *sessionRepository) GetWithRequest(ctx context.Context, id uint) (models.TutoringSession, models.TutoringRequest, error) {
	session, err := r.GetByID(ctx, id)
	if err != nil {
		return models.TutoringSession{}, models.TutoringRequest{}, err
	}

	var request models.TutoringRequest
	if err := r.db.WithContext(ctx).First(&request, session.RequestID).Error; err != nil {
		return models.TutoringSession{}, models.TutoringRequest{}, err
	}

	return session, request, nil
}

func (r *sessionRepository) Save(ctx context.Context, session *models.TutoringSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *sessionRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).Model(&models.TutoringSession{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *sessionRepository) ListByTutor(ctx context.Context, tutorID uint, upcoming bool, now time.Time) ([]models.TutoringSession, error) {
	query := r.db.WithContext(ctx).
		Joins("JOIN tutoring_requests ON tutoring_requests.id = tutoring_sessions.request_id").
		Where("tutoring_requests.tutor_id = ?", tutorID)

	if upcoming {
		query = query.Where("tutoring_sessions.status = ? AND tutoring_sessions.end_time >= ?", models.SessionStatusScheduled, now).
			Order("tutoring_sessions.start_time ASC")
	} else {
		query = query.Where("tutoring_sessions.status IN ?", []string{models.SessionStatusCompleted, models.SessionStatusCancelled}).
			Order("tutoring_sessions.start_time DESC")
	}

	var sessions []models.TutoringSession
	if err := query.Find(&sessions).Error; err != nil {
		return nil, err
	}

	return sessions, nil
}

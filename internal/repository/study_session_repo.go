package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/campushub/tutoring-api/internal/models"
)

// StudySessionRepository defines persistence operations for personal
// study blocks. Every lookup is scoped to the owning user.
type StudySessionRepository interface {
	Create(ctx context.Context, session *models.StudySession) error
	CreateBatch(ctx context.Context, sessions []models.StudySession) error
	GetForUser(ctx context.Context, id, userID uint) (models.StudySession, error)
	ListByUser(ctx context.Context, userID uint) ([]models.StudySession, error)
	// CountOverlapping reports how many of the user's sessions intersect
	// the window. excludeID skips one session, so edits do not conflict
	// with themselves; pass zero to check them all.
	CountOverlapping(ctx context.Context, userID uint, start, end time.Time, excludeID uint) (int64, error)
	Save(ctx context.Context, session *models.StudySession) error
	Delete(ctx context.Context, id, userID uint) error
}

type studySessionRepository struct {
	db *gorm.DB
}

// NewStudySessionRepository instantiates a GORM-backed repository.
func NewStudySessionRepository(db *gorm.DB) StudySessionRepository {
	return &studySessionRepository{db: db}
}

func (r *studySessionRepository) Create(ctx context.Context, session *models.StudySession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *studySessionRepository) CreateBatch(ctx context.Context, sessions []models.StudySession) error {
	if len(sessions) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range sessions {
			if err := tx.Create(&sessions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *studySessionRepository) GetForUser(ctx context.Context, id, userID uint) (models.StudySession, error) {
	var session models.StudySession
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&session).Error; err != nil {
		return models.StudySession{}, err
	}

	return session, nil
}

func (r *studySessionRepository) ListByUser(ctx context.Context, userID uint) ([]models.StudySession, error) {
	var sessions []models.StudySession
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_time ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *studySessionRepository) CountOverlapping(ctx context.Context, userID uint, start, end time.Time, excludeID uint) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.StudySession{}).
		Where("user_id = ? AND start_time < ? AND end_time > ?", userID, end, start)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *studySessionRepository) Save(ctx context.Context, session *models.StudySession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *studySessionRepository) Delete(ctx context.Context, id, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.StudySession{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campushub/tutoring-api/internal/models"
)

// TutorRepository handles persistence for tutor profiles.
type TutorRepository interface {
	Create(ctx context.Context, profile *models.TutorProfile) error
	Update(ctx context.Context, profile *models.TutorProfile) error
	GetByID(ctx context.Context, id uint) (models.TutorProfile, error)
	GetByUserID(ctx context.Context, userID uint) (models.TutorProfile, error)
	List(ctx context.Context, approvedOnly bool) ([]models.TutorProfile, error)
	ListUnapproved(ctx context.Context) ([]models.TutorProfile, error)
	SetApproved(ctx context.Context, id uint, approved bool) error
}

type tutorRepository struct {
	db *gorm.DB
}

// NewTutorRepository constructs a repository backed by GORM.
func NewTutorRepository(db *gorm.DB) TutorRepository {
	return &tutorRepository{db: db}
}

func (r *tutorRepository) Create(ctx context.Context, profile *models.TutorProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *tutorRepository) Update(ctx context.Context, profile *models.TutorProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *tutorRepository) GetByID(ctx context.Context, id uint) (models.TutorProfile, error) {
	var profile models.TutorProfile
	if err := r.db.WithContext(ctx).Preload("User").First(&profile, id).Error; err != nil {
		return models.TutorProfile{}, err
	}

	return profile, nil
}

func (r *tutorRepository) GetByUserID(ctx context.Context, userID uint) (models.TutorProfile, error) {
	var profile models.TutorProfile
	if err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return models.TutorProfile{}, err
	}

	return profile, nil
}

func (r *tutorRepository) List(ctx context.Context, approvedOnly bool) ([]models.TutorProfile, error) {
	query := r.db.WithContext(ctx).Preload("User").
		Joins("JOIN users ON users.id = tutor_profiles.user_id").
		Where("users.status = ?", models.UserStatusActive)

	if approvedOnly {
		query = query.Where("tutor_profiles.is_approved = ?", true)
	}

	var profiles []models.TutorProfile
	if err := query.Order("tutor_profiles.id ASC").Find(&profiles).Error; err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *tutorRepository) ListUnapproved(ctx context.Context) ([]models.TutorProfile, error) {
	var profiles []models.TutorProfile
	if err := r.db.WithContext(ctx).Preload("User").
		Where("is_approved = ?", false).
		Order("id ASC").
		Find(&profiles).Error; err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *tutorRepository) SetApproved(ctx context.Context, id uint, approved bool) error {
	result := r.db.WithContext(ctx).Model(&models.TutorProfile{}).Where("id = ?", id).Update("is_approved", approved)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

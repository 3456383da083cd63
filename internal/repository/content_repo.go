package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/campushub/tutoring-api/internal/models"
)

// ResourceFilter narrows resource listings.
type ResourceFilter struct {
	Search   string
	CourseID *uint
}

// ResourceRepository persists published study resources.
type ResourceRepository interface {
	Create(ctx context.Context, resource *models.Resource) error
	GetByID(ctx context.Context, id uint) (models.Resource, error)
	List(ctx context.Context, filter ResourceFilter) ([]models.Resource, error)
	Delete(ctx context.Context, id uint) error
}

type resourceRepository struct {
	db *gorm.DB
}

// NewResourceRepository constructs the resource repository.
func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) Create(ctx context.Context, resource *models.Resource) error {
	return r.db.WithContext(ctx).Create(resource).Error
}

func (r *resourceRepository) GetByID(ctx context.Context, id uint) (models.Resource, error) {
	var resource models.Resource
	if err := r.db.WithContext(ctx).First(&resource, id).Error; err != nil {
		return models.Resource{}, err
	}

	return resource, nil
}

func (r *resourceRepository) List(ctx context.Context, filter ResourceFilter) ([]models.Resource, error) {
	query := r.db.WithContext(ctx).Model(&models.Resource{})

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", pattern, pattern)
	}

	if filter.CourseID != nil {
		query = query.Where("course_id = ?", *filter.CourseID)
	}

	var resources []models.Resource
	if err := query.Order("created_at DESC").Find(&resources).Error; err != nil {
		return nil, err
	}

	return resources, nil
}

func (r *resourceRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Resource{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// QARepository persists question threads and replies.
type QARepository interface {
	CreateThread(ctx context.Context, thread *models.QAThread) error
	GetThread(ctx context.Context, id uint) (models.QAThread, error)
	ListThreads(ctx context.Context, search string, courseID *uint) ([]models.QAThread, error)
	DeleteThread(ctx context.Context, id uint) error
	CreatePost(ctx context.Context, post *models.QAPost) error
}

type qaRepository struct {
	db *gorm.DB
}

// NewQARepository constructs the Q&A repository.
func NewQARepository(db *gorm.DB) QARepository {
	return &qaRepository{db: db}
}

func (r *qaRepository) CreateThread(ctx context.Context, thread *models.QAThread) error {
	return r.db.WithContext(ctx).Create(thread).Error
}

func (r *qaRepository) GetThread(ctx context.Context, id uint) (models.QAThread, error) {
	var thread models.QAThread
	if err := r.db.WithContext(ctx).
		Preload("Posts", func(db *gorm.DB) *gorm.DB {
			return db.Order("qa_posts.created_at ASC")
		}).
		First(&thread, id).Error; err != nil {
		return models.QAThread{}, err
	}

	return thread, nil
}

func (r *qaRepository) ListThreads(ctx context.Context, search string, courseID *uint) ([]models.QAThread, error) {
	query := r.db.WithContext(ctx).Model(&models.QAThread{})

	if search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", pattern, pattern)
	}

	if courseID != nil {
		query = query.Where("course_id = ?", *courseID)
	}

	var threads []models.QAThread
	if err := query.Order("created_at DESC").Find(&threads).Error; err != nil {
		return nil, err
	}

	return threads, nil
}

// DeleteThread removes the thread and its replies together.
func (r *qaRepository) DeleteThread(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("thread_id = ?", id).Delete(&models.QAPost{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.QAThread{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *qaRepository) CreatePost(ctx context.Context, post *models.QAPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

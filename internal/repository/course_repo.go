package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/campushub/tutoring-api/internal/models"
)

// ErrAlreadyEnrolled is returned when a student attempts to enroll in a
// course they already belong to.
var ErrAlreadyEnrolled = errors.New("student already enrolled in course")

// CourseRepository handles the course catalog and enrollments.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (models.Course, error)
	List(ctx context.Context) ([]models.Course, error)

	Enroll(ctx context.Context, userID, courseID uint) error
	Withdraw(ctx context.Context, userID, courseID uint) error
	ListEnrolled(ctx context.Context, userID uint) ([]models.Course, error)
	ListEnrolledStudents(ctx context.Context, courseID uint) ([]models.User, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository constructs the course repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Course{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *courseRepository) List(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.WithContext(ctx).Order("title ASC").Find(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}

// Enroll inserts the enrollment after checking for a duplicate in the same
// transaction. The unique index backs the check under concurrency.
func (r *courseRepository) Enroll(ctx context.Context, userID, courseID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Enrollment
		err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error
		if err == nil {
			return ErrAlreadyEnrolled
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(&models.Enrollment{UserID: userID, CourseID: courseID}).Error
	})
}

func (r *courseRepository) Withdraw(ctx context.Context, userID, courseID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Delete(&models.Enrollment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *courseRepository) ListEnrolled(ctx context.Context, userID uint) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.user_id = ?", userID).
		Order("courses.title ASC").
		Find(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepository) ListEnrolledStudents(ctx context.Context, courseID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.user_id = users.id").
		Where("enrollments.course_id = ?", courseID).
		Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campushub/tutoring-api/internal/models"
)

// AssignmentRepository defines persistence operations for assignments.
type AssignmentRepository interface {
	// CreateBatch fans an assignment out to every listed student inside one
	// transaction.
	CreateBatch(ctx context.Context, assignments []models.Assignment) error
	GetForStudent(ctx context.Context, id, studentID uint) (models.Assignment, error)
	GetForTutor(ctx context.Context, id, tutorID uint) (models.Assignment, error)
	ListByStudent(ctx context.Context, studentID uint, status string) ([]models.Assignment, error)
	ListUngraded(ctx context.Context, tutorID uint, courseIDs []uint) ([]models.Assignment, error)
	Save(ctx context.Context, assignment *models.Assignment) error
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates a GORM-backed repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) CreateBatch(ctx context.Context, assignments []models.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range assignments {
			if err := tx.Create(&assignments[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *assignmentRepository) GetForStudent(ctx context.Context, id, studentID uint) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND student_id = ?", id, studentID).
		First(&assignment).Error; err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}

func (r *assignmentRepository) GetForTutor(ctx context.Context, id, tutorID uint) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tutor_id = ?", id, tutorID).
		First(&assignment).Error; err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}

func (r *assignmentRepository) ListByStudent(ctx context.Context, studentID uint, status string) ([]models.Assignment, error) {
	query := r.db.WithContext(ctx).Where("student_id = ?", studentID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var assignments []models.Assignment
	if err := query.Order("due_date ASC").Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *assignmentRepository) ListUngraded(ctx context.Context, tutorID uint, courseIDs []uint) ([]models.Assignment, error) {
	if len(courseIDs) == 0 {
		return []models.Assignment{}, nil
	}

	var assignments []models.Assignment
	if err := r.db.WithContext(ctx).
		Where("tutor_id = ? AND course_id IN ? AND status = ? AND grade IS NULL", tutorID, courseIDs, models.AssignmentStatusCompleted).
		Order("submitted_at ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *assignmentRepository) Save(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

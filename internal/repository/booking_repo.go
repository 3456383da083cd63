package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/campushub/tutoring-api/internal/models"
)

// ErrInvalidTransition is returned when a request is not in a state the
// attempted transition allows.
var ErrInvalidTransition = errors.New("request state does not allow this transition")

// BookingRepository persists the tutoring request/session workflow. Every
// multi-write method runs inside a single transaction: the slot claim, the
// state transition, the session row and the audit entry either all commit
// or all roll back.
type BookingRepository interface {
	// CreateRequest inserts a pending request, claiming the referenced
	// slot (if any) in the same transaction.
	CreateRequest(ctx context.Context, request *models.TutoringRequest) error

	GetByID(ctx context.Context, id uint) (models.TutoringRequest, error)
	GetForStudent(ctx context.Context, id, studentID uint) (models.TutoringRequest, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.TutoringRequest, error)
	ListByTutor(ctx context.Context, tutorID uint, status string) ([]models.TutoringRequest, error)

	Accept(ctx context.Context, id, tutorID uint, start, end time.Time, audit models.AuditLog) (models.TutoringRequest, models.TutoringSession, error)
	Decline(ctx context.Context, id, tutorID uint, audit models.AuditLog) (models.TutoringRequest, error)
	Cancel(ctx context.Context, id, studentID uint, audit models.AuditLog) (models.TutoringRequest, *models.TutoringSession, error)
}

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository constructs the booking workflow repository.
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) CreateRequest(ctx context.Context, request *models.TutoringRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if request.SlotID != nil {
			var slot models.AvailabilitySlot
			if err := tx.Where("id = ? AND tutor_id = ?", *request.SlotID, request.TutorID).First(&slot).Error; err != nil {
				return err
			}
			if err := claimSlot(tx, slot.ID); err != nil {
				return err
			}
		}

		request.Status = models.RequestStatusPending
		return tx.Create(request).Error
	})
}

func (r *bookingRepository) GetByID(ctx context.Context, id uint) (models.TutoringRequest, error) {
	var request models.TutoringRequest
	if err := r.db.WithContext(ctx).Preload("Session").First(&request, id).Error; err != nil {
		return models.TutoringRequest{}, err
	}

	return request, nil
}

func (r *bookingRepository) GetForStudent(ctx context.Context, id, studentID uint) (models.TutoringRequest, error) {
	var request models.TutoringRequest
	if err := r.db.WithContext(ctx).Preload("Session").
		Where("id = ? AND student_id = ?", id, studentID).
		First(&request).Error; err != nil {
		return models.TutoringRequest{}, err
	}

	return request, nil
}

func (r *bookingRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.TutoringRequest, error) {
	var requests []models.TutoringRequest
	if err := r.db.WithContext(ctx).Preload("Session").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *bookingRepository) ListByTutor(ctx context.Context, tutorID uint, status string) ([]models.TutoringRequest, error) {
	query := r.db.WithContext(ctx).Preload("Session").Where("tutor_id = ?", tutorID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.TutoringRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}

	return requests, nil
}

// Accept transitions a pending request to accepted and creates exactly one
// scheduled session using the tutor's proposed window. Ownership is
// enforced by scoping the lookup to the acting tutor's profile id.
func (r *bookingRepository) Accept(ctx context.Context, id, tutorID uint, start, end time.Time, audit models.AuditLog) (models.TutoringRequest, models.TutoringSession, error) {
	var (
		request models.TutoringRequest
		session models.TutoringSession
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND tutor_id = ?", id, tutorID).First(&request).Error; err != nil {
			return err
		}
		if request.Status != models.RequestStatusPending {
			return ErrInvalidTransition
		}

		request.Status = models.RequestStatusAccepted
		if err := tx.Model(&models.TutoringRequest{}).Where("id = ?", id).
			Update("status", models.RequestStatusAccepted).Error; err != nil {
			return err
		}

		session = models.TutoringSession{
			RequestID: request.ID,
			StartTime: start,
			EndTime:   end,
			Status:    models.SessionStatusScheduled,
		}
		if err := tx.Create(&session).Error; err != nil {
			return err
		}

		return tx.Create(&audit).Error
	})
	if err != nil {
		return models.TutoringRequest{}, models.TutoringSession{}, err
	}

	return request, session, nil
}

// Decline transitions a pending request to declined and releases any
// claimed slot. No session is created.
func (r *bookingRepository) Decline(ctx context.Context, id, tutorID uint, audit models.AuditLog) (models.TutoringRequest, error) {
	var request models.TutoringRequest

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND tutor_id = ?", id, tutorID).First(&request).Error; err != nil {
			return err
		}
		if request.Status != models.RequestStatusPending {
			return ErrInvalidTransition
		}

		request.Status = models.RequestStatusDeclined
		if err := tx.Model(&models.TutoringRequest{}).Where("id = ?", id).
			Update("status", models.RequestStatusDeclined).Error; err != nil {
			return err
		}

		if request.SlotID != nil {
			if err := releaseSlot(tx, *request.SlotID); err != nil {
				return err
			}
		}

		return tx.Create(&audit).Error
	})
	if err != nil {
		return models.TutoringRequest{}, err
	}

	return request, nil
}

// Cancel transitions a pending or accepted request to cancelled, releases
// any claimed slot and cascades cancellation to the session if one exists.
func (r *bookingRepository) Cancel(ctx context.Context, id, studentID uint, audit models.AuditLog) (models.TutoringRequest, *models.TutoringSession, error) {
	var (
		request models.TutoringRequest
		session *models.TutoringSession
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND student_id = ?", id, studentID).First(&request).Error; err != nil {
			return err
		}
		if request.Status != models.RequestStatusPending && request.Status != models.RequestStatusAccepted {
			return ErrInvalidTransition
		}

		request.Status = models.RequestStatusCancelled
		if err := tx.Model(&models.TutoringRequest{}).Where("id = ?", id).
			Update("status", models.RequestStatusCancelled).Error; err != nil {
			return err
		}

		if request.SlotID != nil {
			if err := releaseSlot(tx, *request.SlotID); err != nil {
				return err
			}
		}

		var existing models.TutoringSession
		switch err := tx.Where("request_id = ?", id).First(&existing).Error; {
		case err == nil:
			existing.Status = models.SessionStatusCancelled
			if err := tx.Model(&models.TutoringSession{}).Where("id = ?", existing.ID).
				Update("status", models.SessionStatusCancelled).Error; err != nil {
				return err
			}
			session = &existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			// pending request, nothing scheduled yet
		default:
			return err
		}

		return tx.Create(&audit).Error
	})
	if err != nil {
		return models.TutoringRequest{}, nil, err
	}

	return request, session, nil
}

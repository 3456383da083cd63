package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/campushub/tutoring-api/internal/models"
)

// ErrSlotAlreadyBooked is returned when a conditional claim finds the slot
// already booked. It is the only contended failure in the system.
var ErrSlotAlreadyBooked = errors.New("availability slot already booked")

// SlotRepository tracks bookable time windows per tutor.
type SlotRepository interface {
	Create(ctx context.Context, slot *models.AvailabilitySlot) error
	GetByID(ctx context.Context, id uint) (models.AvailabilitySlot, error)
	// ListByTutor purges expired slots inline before reading, so stale
	// windows are never served.
	ListByTutor(ctx context.Context, tutorID uint, openOnly bool, now time.Time) ([]models.AvailabilitySlot, error)
	Delete(ctx context.Context, id, tutorID uint) error
	PurgeExpired(ctx context.Context, tutorID uint, now time.Time) (int64, error)
	Release(ctx context.Context, id uint) error
}

type slotRepository struct {
	db *gorm.DB
}

// NewSlotRepository constructs the availability slot repository.
func NewSlotRepository(db *gorm.DB) SlotRepository {
	return &slotRepository{db: db}
}

func (r *slotRepository) Create(ctx context.Context, slot *models.AvailabilitySlot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *slotRepository) GetByID(ctx context.Context, id uint) (models.AvailabilitySlot, error) {
	var slot models.AvailabilitySlot
	if err := r.db.WithContext(ctx).First(&slot, id).Error; err != nil {
		return models.AvailabilitySlot{}, err
	}

	return slot, nil
}

func (r *slotRepository) ListByTutor(ctx context.Context, tutorID uint, openOnly bool, now time.Time) ([]models.AvailabilitySlot, error) {
	if _, err := r.PurgeExpired(ctx, tutorID, now); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Where("tutor_id = ?", tutorID)
	if openOnly {
		query = query.Where("is_booked = ? AND start_time > ?", false, now)
	}

	var slots []models.AvailabilitySlot
	if err := query.Order("start_time ASC").Find(&slots).Error; err != nil {
		return nil, err
	}

	return slots, nil
}

// Delete removes an unbooked slot owned by the tutor. Booked slots are
// protected until their request is resolved.
func (r *slotRepository) Delete(ctx context.Context, id, tutorID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND tutor_id = ? AND is_booked = ?", id, tutorID, false).
		Delete(&models.AvailabilitySlot{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// PurgeExpired deletes slots whose window has fully passed. A zero tutorID
// purges globally.
func (r *slotRepository) PurgeExpired(ctx context.Context, tutorID uint, now time.Time) (int64, error) {
	query := r.db.WithContext(ctx).Where("end_time < ?", now)
	if tutorID != 0 {
		query = query.Where("tutor_id = ?", tutorID)
	}

	result := query.Delete(&models.AvailabilitySlot{})
	return result.RowsAffected, result.Error
}

func (r *slotRepository) Release(ctx context.Context, id uint) error {
	return releaseSlot(r.db.WithContext(ctx), id)
}

// claimSlot flips is_booked false->true with a conditional update. A zero
// affected-row count means a concurrent claim won the race.
func claimSlot(tx *gorm.DB, id uint) error {
	result := tx.Model(&models.AvailabilitySlot{}).
		Where("id = ? AND is_booked = ?", id, false).
		Update("is_booked", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSlotAlreadyBooked
	}
	return nil
}

func releaseSlot(tx *gorm.DB, id uint) error {
	return tx.Model(&models.AvailabilitySlot{}).
		Where("id = ?", id).
		Update("is_booked", false).Error
}

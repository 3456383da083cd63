package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campushub/tutoring-api/internal/models"
)

// PlatformStats aggregates the counters shown on the admin dashboard.
type PlatformStats struct {
	TotalUsers        int64
	ScheduledSessions int64
	PendingTutors     int64
	Resources         int64
}

// StatsRepository collects aggregate counts across the platform tables.
type StatsRepository interface {
	Collect(ctx context.Context) (PlatformStats, error)
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository constructs the stats repository.
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Collect(ctx context.Context) (PlatformStats, error) {
	var stats PlatformStats

	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return PlatformStats{}, err
	}

	if err := r.db.WithContext(ctx).Model(&models.TutoringSession{}).
		Where("status = ?", models.SessionStatusScheduled).
		Count(&stats.ScheduledSessions).Error; err != nil {
		return PlatformStats{}, err
	}

	if err := r.db.WithContext(ctx).Model(&models.TutorProfile{}).
		Where("is_approved = ?", false).
		Count(&stats.PendingTutors).Error; err != nil {
		return PlatformStats{}, err
	}

	if err := r.db.WithContext(ctx).Model(&models.Resource{}).Count(&stats.Resources).Error; err != nil {
		return PlatformStats{}, err
	}

	return stats, nil
}

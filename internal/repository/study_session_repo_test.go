package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/campushub/tutoring-api/internal/models"
)

func TestStudySessionRepositoryCountOverlapping(t *testing.T) {
	db := setupTestDB(t, &models.StudySession{})
	repo := NewStudySessionRepository(db)

	base := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	existing := models.StudySession{
		UserID: 10, Title: "Calculus review",
		StartTime: base, EndTime: base.Add(2 * time.Hour),
	}
	require.NoError(t, db.Create(&existing).Error)

	// Intersecting window.
	count, err := repo.CountOverlapping(context.Background(), 10, base.Add(time.Hour), base.Add(3*time.Hour), 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	// Touching boundary is not a conflict.
	count, err = repo.CountOverlapping(context.Background(), 10, base.Add(2*time.Hour), base.Add(3*time.Hour), 0)
	require.NoError(t, err)
	require.Zero(t, count)

	// Another user's calendar is unaffected.
	count, err = repo.CountOverlapping(context.Background(), 11, base, base.Add(time.Hour), 0)
	require.NoError(t, err)
	require.Zero(t, count)

	// Excluding the session itself, as edits do.
	count, err = repo.CountOverlapping(context.Background(), 10, base, base.Add(time.Hour), existing.ID)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestStudySessionRepositoryGetForUserScoped(t *testing.T) {
	db := setupTestDB(t, &models.StudySession{})
	repo := NewStudySessionRepository(db)

	base := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	session := models.StudySession{UserID: 10, Title: "Essay draft", StartTime: base, EndTime: base.Add(time.Hour)}
	require.NoError(t, db.Create(&session).Error)

	_, err := repo.GetForUser(context.Background(), session.ID, 11)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	found, err := repo.GetForUser(context.Background(), session.ID, 10)
	require.NoError(t, err)
	require.Equal(t, "Essay draft", found.Title)
}

func TestStudySessionRepositoryDeleteScoped(t *testing.T) {
	db := setupTestDB(t, &models.StudySession{})
	repo := NewStudySessionRepository(db)

	base := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	session := models.StudySession{UserID: 10, Title: "Essay draft", StartTime: base, EndTime: base.Add(time.Hour)}
	require.NoError(t, db.Create(&session).Error)

	require.ErrorIs(t, repo.Delete(context.Background(), session.ID, 11), gorm.ErrRecordNotFound)
	require.NoError(t, repo.Delete(context.Background(), session.ID, 10))
	require.ErrorIs(t, repo.Delete(context.Background(), session.ID, 10), gorm.ErrRecordNotFound)
}

func TestStudySessionRepositoryListByUserOrdered(t *testing.T) {
	db := setupTestDB(t, &models.StudySession{})
	repo := NewStudySessionRepository(db)

	base := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	later := models.StudySession{UserID: 10, Title: "Later", StartTime: base.Add(3 * time.Hour), EndTime: base.Add(4 * time.Hour)}
	earlier := models.StudySession{UserID: 10, Title: "Earlier", StartTime: base, EndTime: base.Add(time.Hour)}
	foreign := models.StudySession{UserID: 11, Title: "Foreign", StartTime: base, EndTime: base.Add(time.Hour)}

	for _, seed := range []*models.StudySession{&later, &earlier, &foreign} {
		require.NoError(t, db.Create(seed).Error)
	}

	sessions, err := repo.ListByUser(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	require.Equal(t, "Earlier", sessions[0].Title)
	require.Equal(t, "Later", sessions[1].Title)
}

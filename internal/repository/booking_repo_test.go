package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/campushub/tutoring-api/internal/models"
)

func bookingTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return setupTestDB(t,
		&models.AvailabilitySlot{},
		&models.TutoringRequest{},
		&models.TutoringSession{},
		&models.AuditLog{},
	)
}

func openSlot(t *testing.T, db *gorm.DB, tutorID uint) models.AvailabilitySlot {
	t.Helper()
	now := time.Now()
	slot := models.AvailabilitySlot{TutorID: tutorID, StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour)}
	require.NoError(t, db.Create(&slot).Error)
	return slot
}

func TestBookingRepositoryCreateRequestClaimsSlot(t *testing.T) {
	db := bookingTestDB(t)
	repo := NewBookingRepository(db)

	slot := openSlot(t, db, 7)

	request := models.TutoringRequest{StudentID: 1, TutorID: 7, SlotID: &slot.ID, Topic: "calculus"}
	require.NoError(t, repo.CreateRequest(context.Background(), &request))
	require.Equal(t, models.RequestStatusPending, request.Status)

	var stored models.AvailabilitySlot
	require.NoError(t, db.First(&stored, slot.ID).Error)
	require.True(t, stored.IsBooked)

	second := models.TutoringRequest{StudentID: 2, TutorID: 7, SlotID: &slot.ID, Topic: "algebra"}
	err := repo.CreateRequest(context.Background(), &second)
	require.ErrorIs(t, err, ErrSlotAlreadyBooked)

	var count int64
	require.NoError(t, db.Model(&models.TutoringRequest{}).Count(&count).Error)
	require.Equal(t, int64(1), count, "losing request must not be persisted")
}

func TestBookingRepositoryCreateRequestRejectsForeignSlot(t *testing.T) {
	db := bookingTestDB(t)
	repo := NewBookingRepository(db)

	slot := openSlot(t, db, 7)

	request := models.TutoringRequest{StudentID: 1, TutorID: 8, SlotID: &slot.ID, Topic: "physics"}
	err := repo.CreateRequest(context.Background(), &request)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBookingRepositoryAcceptCreatesOneSession(t *testing.T) {
	db := bookingTestDB(t)
	repo := NewBookingRepository(db)

	request := models.TutoringRequest{StudentID: 1, TutorID: 7, Topic: "calculus", Status: models.RequestStatusPending}
	require.NoError(t, db.Create(&request).Error)

	start := time.Now().Add(24 * time.Hour)
	end := start.Add(time.Hour)
	audit := models.AuditLog{ActorID: 70, ActorRole: models.RoleTutor, Action: "request.accepted", EntityType: "tutoring_request"}

	accepted, session, err := repo.Accept(context.Background(), request.ID, 7, start, end, audit)
	require.NoError(t, err)
	require.Equal(t, models.RequestStatusAccepted, accepted.Status)
	require.Equal(t, request.ID, session.RequestID)
	require.Equal(t, models.SessionStatusScheduled, session.Status)

	var sessionCount int64
	require.NoError(t, db.Model(&models.TutoringSession{}).Count(&sessionCount).Error)
	require.Equal(t, int64(1), sessionCount)

	var auditCount int64
	require.NoError(t, db.Model(&models.AuditLog{}).Count(&auditCount).Error)
	require.Equal(t, int64(1), auditCount)

	// Accepting twice is not a valid transition.
	_, _, err = repo.Accept(context.Background(), request.ID, 7, start, end, audit)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestBookingRepositoryAcceptScopedToTutor(t *testing.T) {
	db := bookingTestDB(t)
	repo := NewBookingRepository(db)

	request := models.TutoringRequest{StudentID: 1, TutorID: 7, Topic: "calculus", Status: models.RequestStatusPending}
	require.NoError(t, db.Create(&request).Error)

	start := time.Now().Add(time.Hour)
	_, _, err := repo.Accept(context.Background(), request.ID, 99, start, start.Add(time.Hour), models.AuditLog{})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound, "foreign tutor sees not-found, not forbidden")
}

func TestBookingRepositoryDeclineReleasesSlot(t *testing.T) {
	db := bookingTestDB(t)
	repo := NewBookingRepository(db)

	slot := openSlot(t, db, 7)
	request := models.TutoringRequest{StudentID: 1, TutorID: 7, SlotID: &slot.ID, Topic: "calculus"}
	require.NoError(t, repo.CreateRequest(context.Background(), &request))

	declined, err := repo.Decline(context.Background(), request.ID, 7, models.AuditLog{ActorID: 70, Action: "request.declined"})
	require.NoError(t, err)
	require.Equal(t, models.RequestStatusDeclined, declined.Status)

	var stored models.AvailabilitySlot
	require.NoError(t, db.First(&stored, slot.ID).Error)
	require.False(t, stored.IsBooked, "declining must free the slot")
}

func TestBookingRepositoryCancelReleasesSlotAndCascades(t *testing.T) {
	db := bookingTestDB(t)
	repo := NewBookingRepository(db)

	slot := openSlot(t, db, 7)
	request := models.TutoringRequest{StudentID: 1, TutorID: 7, SlotID: &slot.ID, Topic: "calculus"}
	require.NoError(t, repo.CreateRequest(context.Background(), &request))

	start := time.Now().Add(24 * time.Hour)
	_, session, err := repo.Accept(context.Background(), request.ID, 7, start, start.Add(time.Hour), models.AuditLog{Action: "request.accepted"})
	require.NoError(t, err)

	cancelled, cascaded, err := repo.Cancel(context.Background(), request.ID, 1, models.AuditLog{ActorID: 1, Action: "request.cancelled"})
	require.NoError(t, err)
	require.Equal(t, models.RequestStatusCancelled, cancelled.Status)
	require.NotNil(t, cascaded)
	require.Equal(t, models.SessionStatusCancelled, cascaded.Status)

	var storedSession models.TutoringSession
	require.NoError(t, db.First(&storedSession, session.ID).Error)
	require.Equal(t, models.SessionStatusCancelled, storedSession.Status)

	var storedSlot models.AvailabilitySlot
	require.NoError(t, db.First(&storedSlot, slot.ID).Error)
	require.False(t, storedSlot.IsBooked)
}

func TestBookingRepositoryCancelRejectsTerminalStates(t *testing.T) {
	db := bookingTestDB(t)
	repo := NewBookingRepository(db)

	request := models.TutoringRequest{StudentID: 1, TutorID: 7, Topic: "calculus", Status: models.RequestStatusDeclined}
	require.NoError(t, db.Create(&request).Error)

	_, _, err := repo.Cancel(context.Background(), request.ID, 1, models.AuditLog{})
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, _, err = repo.Cancel(context.Background(), request.ID, 2, models.AuditLog{})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound, "another student must not cancel the request")
}

func TestBookingRepositoryListByStudentPreloadsSession(t *testing.T) {
	db := bookingTestDB(t)
	repo := NewBookingRepository(db)

	request := models.TutoringRequest{StudentID: 1, TutorID: 7, Topic: "calculus", Status: models.RequestStatusPending}
	require.NoError(t, db.Create(&request).Error)

	start := time.Now().Add(24 * time.Hour)
	_, _, err := repo.Accept(context.Background(), request.ID, 7, start, start.Add(time.Hour), models.AuditLog{})
	require.NoError(t, err)

	requests, err := repo.ListByStudent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	require.NotNil(t, requests[0].Session)
	require.Equal(t, models.SessionStatusScheduled, requests[0].Session.Status)
}

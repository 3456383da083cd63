package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/campushub/tutoring-api/internal/models"
	"github.com/campushub/tutoring-api/internal/repository"
)

type statsRepoStub struct {
	stats repository.PlatformStats
}

func (s *statsRepoStub) Collect(ctx context.Context) (repository.PlatformStats, error) {
	return s.stats, nil
}

type adminFixture struct {
	users         *userRepoStub
	tutors        *tutorRepoStub
	audit         *auditRepoStub
	notifications *notificationServiceStub
	resources     *resourceRepoStub
	threads       *qaRepoStub
	svc           AdminService
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()

	fixture := &adminFixture{
		users:         newUserRepoStub(),
		tutors:        newTutorRepoStub(),
		audit:         &auditRepoStub{},
		notifications: &notificationServiceStub{},
		resources:     newResourceRepoStub(),
		threads:       newQARepoStub(),
	}
	auditSvc := NewAuditService(fixture.audit, testValidator(), testLogger())
	fixture.svc = NewAdminService(fixture.users, fixture.tutors, &statsRepoStub{}, fixture.resources, fixture.threads, auditSvc, fixture.notifications, nil, testLogger())
	return fixture
}

func TestAdminServiceApproveTutor(t *testing.T) {
	fixture := newAdminFixture(t)
	require.NoError(t, fixture.tutors.Create(context.Background(), &models.TutorProfile{ID: 7, UserID: 70}))

	response, err := fixture.svc.ApproveTutor(context.Background(), 1, 7)
	require.NoError(t, err)
	require.True(t, response.IsApproved)

	profile, err := fixture.tutors.GetByID(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, profile.IsApproved)

	require.Len(t, fixture.audit.entries, 1)
	require.Equal(t, AuditActionTutorApproved, fixture.audit.entries[0].Action)
	require.Equal(t, models.RoleAdmin, fixture.audit.entries[0].ActorRole)

	sent := fixture.notifications.sent()
	require.Len(t, sent, 1)
	require.Equal(t, uint(70), sent[0].UserID)
	require.Equal(t, "tutor.approved", sent[0].Type)

	_, err = fixture.svc.ApproveTutor(context.Background(), 1, 99)
	require.ErrorIs(t, err, ErrTutorNotFound)
}

func TestAdminServiceApproveTutorInvalidatesListCache(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})

	fixture := newAdminFixture(t)
	require.NoError(t, fixture.tutors.Create(context.Background(), &models.TutorProfile{ID: 7, UserID: 70}))
	auditSvc := NewAuditService(fixture.audit, testValidator(), testLogger())
	svc := NewAdminService(fixture.users, fixture.tutors, &statsRepoStub{}, fixture.resources, fixture.threads, auditSvc, fixture.notifications, client, testLogger())

	require.NoError(t, server.Set("tutoring:tutors:list", "[]"))

	_, err := svc.ApproveTutor(context.Background(), 1, 7)
	require.NoError(t, err)

	// The stale listing must be gone so the newly approved tutor shows up
	// on the next read.
	require.False(t, server.Exists("tutoring:tutors:list"))
}

func TestAdminServiceRejectTutorDeletesAccount(t *testing.T) {
	fixture := newAdminFixture(t)
	user := models.User{Name: "Tess", Email: "tess@example.edu", Role: models.RoleTutor, Status: models.UserStatusActive}
	require.NoError(t, fixture.users.Create(context.Background(), &user))
	require.NoError(t, fixture.tutors.Create(context.Background(), &models.TutorProfile{ID: 7, UserID: user.ID}))

	require.NoError(t, fixture.svc.RejectTutor(context.Background(), 1, 7))

	_, err := fixture.users.GetByID(context.Background(), user.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.Len(t, fixture.audit.entries, 1)
	require.Equal(t, AuditActionTutorRejected, fixture.audit.entries[0].Action)
	require.Equal(t, user.ID, fixture.audit.entries[0].Metadata["user_id"])

	require.ErrorIs(t, fixture.svc.RejectTutor(context.Background(), 1, 99), ErrTutorNotFound)
}

func TestAdminServiceSuspendAndActivateUser(t *testing.T) {
	fixture := newAdminFixture(t)
	user := models.User{Name: "Ada", Email: "ada@example.edu", Role: models.RoleStudent, Status: models.UserStatusActive}
	require.NoError(t, fixture.users.Create(context.Background(), &user))

	require.NoError(t, fixture.svc.SuspendUser(context.Background(), 1, user.ID))

	suspended, err := fixture.users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.True(t, suspended.IsSuspended())

	require.Len(t, fixture.audit.entries, 1)
	require.Equal(t, AuditActionUserSuspended, fixture.audit.entries[0].Action)
	require.Equal(t, models.UserStatusActive, fixture.audit.entries[0].Metadata["previous_status"])

	require.NoError(t, fixture.svc.ActivateUser(context.Background(), 1, user.ID))
	activated, err := fixture.users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.False(t, activated.IsSuspended())

	require.ErrorIs(t, fixture.svc.SuspendUser(context.Background(), 1, 99), ErrUserNotFound)
}

func TestAdminServiceDeleteContentRecordsAudit(t *testing.T) {
	fixture := newAdminFixture(t)
	require.NoError(t, fixture.resources.Create(context.Background(), &models.Resource{Title: "Notes", Type: "note", Content: "x"}))
	require.NoError(t, fixture.threads.CreateThread(context.Background(), &models.QAThread{Title: "Question"}))

	require.NoError(t, fixture.svc.DeleteResource(context.Background(), 1, 1))
	require.NoError(t, fixture.svc.DeleteThread(context.Background(), 1, 1))

	require.ErrorIs(t, fixture.svc.DeleteResource(context.Background(), 1, 1), ErrResourceNotFound)
	require.ErrorIs(t, fixture.svc.DeleteThread(context.Background(), 1, 1), ErrThreadNotFound)

	require.Len(t, fixture.audit.entries, 2)
	for _, entry := range fixture.audit.entries {
		require.Equal(t, AuditActionContentRemoved, entry.Action)
	}
}

func TestAdminServiceStats(t *testing.T) {
	fixture := newAdminFixture(t)
	stats := &statsRepoStub{stats: repository.PlatformStats{TotalUsers: 12, ScheduledSessions: 3, PendingTutors: 2, Resources: 7}}
	auditSvc := NewAuditService(fixture.audit, testValidator(), testLogger())
	svc := NewAdminService(fixture.users, fixture.tutors, stats, fixture.resources, fixture.threads, auditSvc, fixture.notifications, nil, testLogger())

	response, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(12), response.TotalUsers)
	require.Equal(t, int64(3), response.ScheduledSessions)
	require.Equal(t, int64(2), response.PendingTutors)
	require.Equal(t, int64(7), response.Resources)
}

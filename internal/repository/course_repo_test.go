package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/campushub/tutoring-api/internal/models"
)

func courseTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return setupTestDB(t, &models.User{}, &models.Course{}, &models.Enrollment{})
}

func TestCourseRepositoryEnrollRejectsDuplicate(t *testing.T) {
	db := courseTestDB(t)
	repo := NewCourseRepository(db)

	course := models.Course{Code: "MATH101", Title: "Calculus I"}
	require.NoError(t, repo.Create(context.Background(), &course))

	require.NoError(t, repo.Enroll(context.Background(), 1, course.ID))
	require.ErrorIs(t, repo.Enroll(context.Background(), 1, course.ID), ErrAlreadyEnrolled)

	// A different student can still enroll.
	require.NoError(t, repo.Enroll(context.Background(), 2, course.ID))
}

func TestCourseRepositoryWithdraw(t *testing.T) {
	db := courseTestDB(t)
	repo := NewCourseRepository(db)

	course := models.Course{Code: "PHYS101", Title: "Mechanics"}
	require.NoError(t, repo.Create(context.Background(), &course))
	require.NoError(t, repo.Enroll(context.Background(), 1, course.ID))

	require.NoError(t, repo.Withdraw(context.Background(), 1, course.ID))
	require.ErrorIs(t, repo.Withdraw(context.Background(), 1, course.ID), gorm.ErrRecordNotFound)

	// Withdrawing frees the student to re-enroll.
	require.NoError(t, repo.Enroll(context.Background(), 1, course.ID))
}

func TestCourseRepositoryListEnrolledStudents(t *testing.T) {
	db := courseTestDB(t)
	repo := NewCourseRepository(db)

	course := models.Course{Code: "CS101", Title: "Intro to CS"}
	require.NoError(t, repo.Create(context.Background(), &course))

	alice := models.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "x", Role: models.RoleStudent, Status: models.UserStatusActive}
	bob := models.User{Name: "Bob", Email: "bob@example.com", PasswordHash: "x", Role: models.RoleStudent, Status: models.UserStatusActive}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)

	require.NoError(t, repo.Enroll(context.Background(), alice.ID, course.ID))

	students, err := repo.ListEnrolledStudents(context.Background(), course.ID)
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.Equal(t, alice.ID, students[0].ID)

	courses, err := repo.ListEnrolled(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Equal(t, "CS101", courses[0].Code)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/campushub/tutoring-api/internal/dto"
	"github.com/campushub/tutoring-api/internal/models"
	"github.com/campushub/tutoring-api/internal/repository"
)

type enrollmentKey struct {
	userID   uint
	courseID uint
}

type courseRepoStub struct {
	courses     map[uint]models.Course
	enrollments map[enrollmentKey]struct{}
	students    map[uint][]models.User
	nextID      uint
}

func newCourseRepoStub(courses ...models.Course) *courseRepoStub {
	stub := &courseRepoStub{
		courses:     make(map[uint]models.Course),
		enrollments: make(map[enrollmentKey]struct{}),
		students:    make(map[uint][]models.User),
		nextID:      1,
	}
	for _, course := range courses {
		if course.ID >= stub.nextID {
			stub.nextID = course.ID + 1
		}
		stub.courses[course.ID] = course
	}
	return stub
}

func (s *courseRepoStub) Create(ctx context.Context, course *models.Course) error {
	for _, existing := range s.courses {
		if existing.Code == course.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	course.ID = s.nextID
	s.nextID++
	s.courses[course.ID] = *course
	return nil
}

func (s *courseRepoStub) Update(ctx context.Context, course *models.Course) error {
	if _, ok := s.courses[course.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.courses[course.ID] = *course
	return nil
}

func (s *courseRepoStub) Delete(ctx context.Context, id uint) error {
	if _, ok := s.courses[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.courses, id)
	return nil
}

func (s *courseRepoStub) GetByID(ctx context.Context, id uint) (models.Course, error) {
	course, ok := s.courses[id]
	if !ok {
		return models.Course{}, gorm.ErrRecordNotFound
	}
	return course, nil
}

func (s *courseRepoStub) List(ctx context.Context) ([]models.Course, error) {
	var result []models.Course
	for _, course := range s.courses {
		result = append(result, course)
	}
	return result, nil
}

func (s *courseRepoStub) Enroll(ctx context.Context, userID, courseID uint) error {
	key := enrollmentKey{userID: userID, courseID: courseID}
	if _, exists := s.enrollments[key]; exists {
		return repository.ErrAlreadyEnrolled
	}
	s.enrollments[key] = struct{}{}
	return nil
}

func (s *courseRepoStub) Withdraw(ctx context.Context, userID, courseID uint) error {
	key := enrollmentKey{userID: userID, courseID: courseID}
	if _, exists := s.enrollments[key]; !exists {
		return gorm.ErrRecordNotFound
	}
	delete(s.enrollments, key)
	return nil
}

func (s *courseRepoStub) ListEnrolled(ctx context.Context, userID uint) ([]models.Course, error) {
	var result []models.Course
	for key := range s.enrollments {
		if key.userID == userID {
			result = append(result, s.courses[key.courseID])
		}
	}
	return result, nil
}

func (s *courseRepoStub) ListEnrolledStudents(ctx context.Context, courseID uint) ([]models.User, error) {
	return s.students[courseID], nil
}

func TestCourseServiceCreateRejectsDuplicateCode(t *testing.T) {
	courses := newCourseRepoStub()
	svc := NewCourseService(courses, &notificationServiceStub{}, testValidator(), testLogger())

	_, err := svc.Create(context.Background(), dto.CourseCreateRequest{Code: "MATH101", Title: "Calculus I"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), dto.CourseCreateRequest{Code: "MATH101", Title: "Another Calculus"})
	require.ErrorIs(t, err, ErrCourseCodeTaken)
}

func TestCourseServiceEnroll(t *testing.T) {
	courses := newCourseRepoStub(models.Course{ID: 1, Code: "MATH101", Title: "Calculus I"})
	notifications := &notificationServiceStub{}
	svc := NewCourseService(courses, notifications, testValidator(), testLogger())

	_, err := svc.Enroll(context.Background(), 5, 99)
	require.ErrorIs(t, err, ErrCourseNotFound)

	response, err := svc.Enroll(context.Background(), 5, 1)
	require.NoError(t, err)
	require.Equal(t, "MATH101", response.Code)

	_, err = svc.Enroll(context.Background(), 5, 1)
	require.ErrorIs(t, err, ErrAlreadyEnrolled)

	sent := notifications.sent()
	require.Len(t, sent, 1)
	require.Equal(t, "course.enrolled", sent[0].Type)
	require.Equal(t, uint(5), sent[0].UserID)
}

func TestCourseServiceWithdraw(t *testing.T) {
	courses := newCourseRepoStub(models.Course{ID: 1, Code: "MATH101", Title: "Calculus I"})
	svc := NewCourseService(courses, &notificationServiceStub{}, testValidator(), testLogger())

	require.ErrorIs(t, svc.Withdraw(context.Background(), 5, 1), ErrNotEnrolled)

	_, err := svc.Enroll(context.Background(), 5, 1)
	require.NoError(t, err)
	require.NoError(t, svc.Withdraw(context.Background(), 5, 1))

	enrolled, err := svc.ListEnrolled(context.Background(), 5)
	require.NoError(t, err)
	require.Empty(t, enrolled)
}

func TestCourseServiceUpdateAppliesPartialChanges(t *testing.T) {
	courses := newCourseRepoStub(models.Course{ID: 1, Code: "MATH101", Title: "Calculus I", Description: "Limits"})
	svc := NewCourseService(courses, &notificationServiceStub{}, testValidator(), testLogger())

	title := "Calculus I (Honors)"
	updated, err := svc.Update(context.Background(), 1, dto.CourseUpdateRequest{Title: &title})
	require.NoError(t, err)
	require.Equal(t, title, updated.Title)
	require.Equal(t, "Limits", updated.Description, "untouched fields keep their value")
}

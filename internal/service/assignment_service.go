package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campushub/tutoring-api/internal/dto"
	"github.com/campushub/tutoring-api/internal/models"
	"github.com/campushub/tutoring-api/internal/repository"
)

var (
	// ErrAssignmentNotFound covers missing assignments and assignments
	// owned by another student.
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrAssignmentPastDue rejects submissions after the due date.
	ErrAssignmentPastDue = errors.New("assignment is past its due date")
	// ErrAssignmentAlreadySubmitted rejects a second submission.
	ErrAssignmentAlreadySubmitted = errors.New("assignment already submitted")
	// ErrNoEnrolledStudents rejects fan-out into an empty course.
	ErrNoEnrolledStudents = errors.New("course has no enrolled students")
)

// AssignmentService handles coursework: tutors post assignments that fan
// out to every enrolled student, students submit, tutors grade.
type AssignmentService interface {
	Create(ctx context.Context, tutorID uint, payload dto.AssignmentCreateRequest) ([]dto.AssignmentResponse, error)
	ListOwn(ctx context.Context, studentID uint, status string) ([]dto.AssignmentResponse, error)
	GetOwn(ctx context.Context, id, studentID uint) (dto.AssignmentResponse, error)
	Submit(ctx context.Context, id, studentID uint, payload dto.AssignmentSubmitRequest) (dto.AssignmentResponse, error)
	ListUngraded(ctx context.Context, tutorID uint, courseIDs []uint) ([]dto.AssignmentResponse, error)
	Grade(ctx context.Context, id, tutorID uint, payload dto.AssignmentGradeRequest) (dto.AssignmentResponse, error)
}

type assignmentService struct {
	assignments   repository.AssignmentRepository
	courses       repository.CourseRepository
	notifications NotificationService
	validator     *validator.Validate
	logger        zerolog.Logger
	now           func() time.Time
}

// NewAssignmentService constructs the coursework service.
func NewAssignmentService(assignments repository.AssignmentRepository, courses repository.CourseRepository, notifications NotificationService, validate *validator.Validate, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignments:   assignments,
		courses:       courses,
		notifications: notifications,
		validator:     validate,
		logger:        logger.With().Str("component", "assignment_service").Logger(),
		now:           time.Now,
	}
}

func (s *assignmentService) Create(ctx context.Context, tutorID uint, payload dto.AssignmentCreateRequest) ([]dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, err
	}

	dueDate, err := time.Parse(time.RFC3339, payload.DueDate)
	if err != nil {
		return nil, fmt.Errorf("invalid due date: %w", err)
	}

	course, err := s.courses.GetByID(ctx, payload.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	students, err := s.courses.ListEnrolledStudents(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, ErrNoEnrolledStudents
	}

	assignments := make([]models.Assignment, 0, len(students))
	for _, student := range students {
		assignments = append(assignments, models.Assignment{
			CourseID:    course.ID,
			StudentID:   student.ID,
			TutorID:     tutorID,
			Title:       payload.Title,
			Description: payload.Description,
			DueDate:     dueDate,
			Status:      models.AssignmentStatusPending,
		})
	}

	if err := s.assignments.CreateBatch(ctx, assignments); err != nil {
		return nil, err
	}

	s.logger.Info().Uint("course_id", course.ID).Int("students", len(students)).Msg("assignment fanned out")

	for _, assignment := range assignments {
		s.notify(ctx, assignment.StudentID, "assignment.created",
			fmt.Sprintf("New assignment in %s: %s", course.Code, assignment.Title),
			fmt.Sprintf("/assignments/%d", assignment.ID))
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

func (s *assignmentService) ListOwn(ctx context.Context, studentID uint, status string) ([]dto.AssignmentResponse, error) {
	assignments, err := s.assignments.ListByStudent(ctx, studentID, status)
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

func (s *assignmentService) GetOwn(ctx context.Context, id, studentID uint) (dto.AssignmentResponse, error) {
	assignment, err := s.assignments.GetForStudent(ctx, id, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Submit(ctx context.Context, id, studentID uint, payload dto.AssignmentSubmitRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.assignments.GetForStudent(ctx, id, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	if assignment.SubmittedAt != nil {
		return dto.AssignmentResponse{}, ErrAssignmentAlreadySubmitted
	}
	if assignment.IsPastDue(s.now()) {
		return dto.AssignmentResponse{}, ErrAssignmentPastDue
	}

	submittedAt := s.now()
	assignment.SubmissionText = payload.SubmissionText
	assignment.SubmittedAt = &submittedAt
	assignment.Status = models.AssignmentStatusCompleted

	if err := s.assignments.Save(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) ListUngraded(ctx context.Context, tutorID uint, courseIDs []uint) ([]dto.AssignmentResponse, error) {
	assignments, err := s.assignments.ListUngraded(ctx, tutorID, courseIDs)
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

// Grade records a grade on an assignment the tutor posted. Assignments
// posted by other tutors are reported as not found.
func (s *assignmentService) Grade(ctx context.Context, id, tutorID uint, payload dto.AssignmentGradeRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.assignments.GetForTutor(ctx, id, tutorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	grade := payload.Grade
	assignment.Grade = &grade
	assignment.TutorFeedback = payload.Feedback

	if err := s.assignments.Save(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.notify(ctx, assignment.StudentID, "assignment.graded",
		fmt.Sprintf("Your assignment %q was graded: %s", assignment.Title, grade),
		fmt.Sprintf("/assignments/%d", assignment.ID))

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) notify(ctx context.Context, userID uint, kind, message, link string) {
	if s.notifications == nil {
		return
	}
	if _, err := s.notifications.Publish(ctx, dto.NotificationCreateRequest{
		UserID:  userID,
		Type:    kind,
		Message: message,
		Link:    link,
	}); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", userID).Str("type", kind).Msg("failed to publish assignment notification")
	}
}

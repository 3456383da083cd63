package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campushub/tutoring-api/internal/dto"
	"github.com/campushub/tutoring-api/internal/models"
	"github.com/campushub/tutoring-api/internal/repository"
)

var (
	// ErrCourseNotFound indicates the course does not exist.
	ErrCourseNotFound = errors.New("course not found")
	// ErrCourseCodeTaken indicates the course code is already in use.
	ErrCourseCodeTaken = errors.New("course code already in use")
	// ErrAlreadyEnrolled indicates a duplicate enrollment attempt.
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
	// ErrNotEnrolled indicates a withdrawal without an enrollment.
	ErrNotEnrolled = errors.New("not enrolled in this course")
)

// CourseService manages the catalog and student enrollment.
type CourseService interface {
	Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	Update(ctx context.Context, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error)
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (dto.CourseResponse, error)
	List(ctx context.Context) ([]dto.CourseResponse, error)

	Enroll(ctx context.Context, userID, courseID uint) (dto.CourseResponse, error)
	Withdraw(ctx context.Context, userID, courseID uint) error
	ListEnrolled(ctx context.Context, userID uint) ([]dto.CourseResponse, error)
	ListEnrolledStudents(ctx context.Context, courseID uint) ([]dto.UserResponse, error)
}

type courseService struct {
	courses       repository.CourseRepository
	notifications NotificationService
	validator     *validator.Validate
	logger        zerolog.Logger
}

// NewCourseService constructs the course catalog service.
func NewCourseService(courses repository.CourseRepository, notifications NotificationService, validate *validator.Validate, logger zerolog.Logger) CourseService {
	return &courseService{
		courses:       courses,
		notifications: notifications,
		validator:     validate,
		logger:        logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course := models.Course{
		Code:        payload.Code,
		Title:       payload.Title,
		Description: payload.Description,
	}

	if err := s.courses.Create(ctx, &course); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.CourseResponse{}, ErrCourseCodeTaken
		}
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", course.ID).Str("code", course.Code).Msg("course created")

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Update(ctx context.Context, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	if payload.Title != nil {
		course.Title = *payload.Title
	}
	if payload.Description != nil {
		course.Description = *payload.Description
	}

	if err := s.courses.Update(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Delete(ctx context.Context, id uint) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	return nil
}

func (s *courseService) Get(ctx context.Context, id uint) (dto.CourseResponse, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) List(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) Enroll(ctx context.Context, userID, courseID uint) (dto.CourseResponse, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	if err := s.courses.Enroll(ctx, userID, courseID); err != nil {
		if errors.Is(err, repository.ErrAlreadyEnrolled) {
			return dto.CourseResponse{}, ErrAlreadyEnrolled
		}
		return dto.CourseResponse{}, err
	}

	if s.notifications != nil {
		if _, err := s.notifications.Publish(ctx, dto.NotificationCreateRequest{
			UserID:  userID,
			Type:    "course.enrolled",
			Message: fmt.Sprintf("You are enrolled in %s: %s", course.Code, course.Title),
			Link:    fmt.Sprintf("/courses/%d", course.ID),
		}); err != nil {
			s.logger.Warn().Err(err).Uint("user_id", userID).Msg("failed to publish enrollment notification")
		}
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Withdraw(ctx context.Context, userID, courseID uint) error {
	if err := s.courses.Withdraw(ctx, userID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotEnrolled
		}
		return err
	}

	return nil
}

func (s *courseService) ListEnrolled(ctx context.Context, userID uint) ([]dto.CourseResponse, error) {
	courses, err := s.courses.ListEnrolled(ctx, userID)
	if err != nil {
		return nil, err
	}

	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) ListEnrolledStudents(ctx context.Context, courseID uint) ([]dto.UserResponse, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	students, err := s.courses.ListEnrolledStudents(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewUserResponseSlice(students), nil
}

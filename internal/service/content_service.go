package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campushub/tutoring-api/internal/dto"
	"github.com/campushub/tutoring-api/internal/models"
	"github.com/campushub/tutoring-api/internal/repository"
)

var (
	// ErrResourceNotFound indicates the resource does not exist.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrThreadNotFound indicates the Q&A thread does not exist.
	ErrThreadNotFound = errors.New("thread not found")
	// ErrEmptyContent rejects content that sanitization stripped bare.
	ErrEmptyContent = errors.New("content is empty after sanitization")
)

// ContentService covers shared study resources and the Q&A board. All
// user-authored text passes through an HTML sanitizer before persisting.
type ContentService interface {
	PublishResource(ctx context.Context, userID uint, payload dto.ResourcePublishRequest) (dto.ResourceResponse, error)
	ListResources(ctx context.Context, search string, courseID *uint) ([]dto.ResourceResponse, error)
	DeleteOwnResource(ctx context.Context, id, userID uint) error

	OpenThread(ctx context.Context, userID uint, payload dto.ThreadCreateRequest) (dto.ThreadResponse, error)
	GetThread(ctx context.Context, id uint) (dto.ThreadResponse, error)
	ListThreads(ctx context.Context, search string, courseID *uint) ([]dto.ThreadResponse, error)
	Reply(ctx context.Context, threadID, userID uint, payload dto.ReplyCreateRequest) (dto.PostResponse, error)
}

type contentService struct {
	resources     repository.ResourceRepository
	threads       repository.QARepository
	notifications NotificationService
	validator     *validator.Validate
	sanitizer     *bluemonday.Policy
	logger        zerolog.Logger
}

// NewContentService constructs the resources and Q&A service.
func NewContentService(resources repository.ResourceRepository, threads repository.QARepository, notifications NotificationService, validate *validator.Validate, logger zerolog.Logger) ContentService {
	return &contentService{
		resources:     resources,
		threads:       threads,
		notifications: notifications,
		validator:     validate,
		sanitizer:     bluemonday.UGCPolicy(),
		logger:        logger.With().Str("component", "content_service").Logger(),
	}
}

func (s *contentService) PublishResource(ctx context.Context, userID uint, payload dto.ResourcePublishRequest) (dto.ResourceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ResourceResponse{}, err
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if content == "" {
		return dto.ResourceResponse{}, ErrEmptyContent
	}

	resource := models.Resource{
		UserID:   userID,
		CourseID: payload.CourseID,
		Title:    strings.TrimSpace(payload.Title),
		Type:     payload.Type,
		Content:  content,
		Tags:     datatypes.NewJSONSlice(payload.Tags),
	}

	if err := s.resources.Create(ctx, &resource); err != nil {
		return dto.ResourceResponse{}, err
	}

	s.logger.Info().Uint("resource_id", resource.ID).Uint("user_id", userID).Msg("resource published")

	return dto.NewResourceResponse(resource), nil
}

func (s *contentService) ListResources(ctx context.Context, search string, courseID *uint) ([]dto.ResourceResponse, error) {
	resources, err := s.resources.List(ctx, repository.ResourceFilter{
		Search:   search,
		CourseID: courseID,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewResourceResponseSlice(resources), nil
}

func (s *contentService) DeleteOwnResource(ctx context.Context, id, userID uint) error {
	resource, err := s.resources.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResourceNotFound
		}
		return err
	}
	if resource.UserID != userID {
		return ErrResourceNotFound
	}

	return s.resources.Delete(ctx, id)
}

func (s *contentService) OpenThread(ctx context.Context, userID uint, payload dto.ThreadCreateRequest) (dto.ThreadResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ThreadResponse{}, err
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if content == "" {
		return dto.ThreadResponse{}, ErrEmptyContent
	}

	thread := models.QAThread{
		UserID:   userID,
		CourseID: payload.CourseID,
		Title:    strings.TrimSpace(payload.Title),
		Content:  content,
	}

	if err := s.threads.CreateThread(ctx, &thread); err != nil {
		return dto.ThreadResponse{}, err
	}

	return dto.NewThreadResponse(thread), nil
}

func (s *contentService) GetThread(ctx context.Context, id uint) (dto.ThreadResponse, error) {
	thread, err := s.threads.GetThread(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ThreadResponse{}, ErrThreadNotFound
		}
		return dto.ThreadResponse{}, err
	}

	return dto.NewThreadResponse(thread), nil
}

func (s *contentService) ListThreads(ctx context.Context, search string, courseID *uint) ([]dto.ThreadResponse, error) {
	threads, err := s.threads.ListThreads(ctx, search, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewThreadResponseSlice(threads), nil
}

func (s *contentService) Reply(ctx context.Context, threadID, userID uint, payload dto.ReplyCreateRequest) (dto.PostResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PostResponse{}, err
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if content == "" {
		return dto.PostResponse{}, ErrEmptyContent
	}

	thread, err := s.threads.GetThread(ctx, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PostResponse{}, ErrThreadNotFound
		}
		return dto.PostResponse{}, err
	}

	post := models.QAPost{
		ThreadID: thread.ID,
		UserID:   userID,
		Content:  content,
	}

	if err := s.threads.CreatePost(ctx, &post); err != nil {
		return dto.PostResponse{}, err
	}

	// The thread owner hears about replies from everyone but themselves.
	if s.notifications != nil && thread.UserID != userID {
		if _, err := s.notifications.Publish(ctx, dto.NotificationCreateRequest{
			UserID:  thread.UserID,
			Type:    "thread.replied",
			Message: fmt.Sprintf("New reply on your question %q", thread.Title),
			Link:    fmt.Sprintf("/qa/%d", thread.ID),
		}); err != nil {
			s.logger.Warn().Err(err).Uint("thread_id", thread.ID).Msg("failed to publish reply notification")
		}
	}

	return dto.NewPostResponse(post), nil
}

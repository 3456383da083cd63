package dto

import (
	"time"

	"github.com/campushub/tutoring-api/internal/models"
)

// ResourcePublishRequest describes a study resource to publish.
type ResourcePublishRequest struct {
	CourseID *uint    `json:"course_id" validate:"omitempty,gt=0"`
	Title    string   `json:"title" validate:"required,min=3,max=255"`
	Type     string   `json:"type" validate:"required,oneof=link note file"`
	Content  string   `json:"content" validate:"required"`
	Tags     []string `json:"tags" validate:"omitempty,dive,min=1"`
}

// ResourceResponse is the serialized resource.
type ResourceResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	CourseID  *uint     `json:"course_id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// NewResourceResponse converts a model into a DTO.
func NewResourceResponse(model models.Resource) ResourceResponse {
	return ResourceResponse{
		ID:        model.ID,
		UserID:    model.UserID,
		CourseID:  model.CourseID,
		Title:     model.Title,
		Type:      model.Type,
		Content:   model.Content,
		Tags:      model.Tags,
		CreatedAt: model.CreatedAt,
	}
}

// NewResourceResponseSlice converts a slice of models into DTOs.
func NewResourceResponseSlice(resources []models.Resource) []ResourceResponse {
	responses := make([]ResourceResponse, 0, len(resources))
	for _, resource := range resources {
		responses = append(responses, NewResourceResponse(resource))
	}

	return responses
}

// ThreadCreateRequest opens a new Q&A thread.
type ThreadCreateRequest struct {
	CourseID *uint  `json:"course_id" validate:"omitempty,gt=0"`
	Title    string `json:"title" validate:"required,min=3,max=255"`
	Content  string `json:"content" validate:"required"`
}

// ReplyCreateRequest answers an existing thread.
type ReplyCreateRequest struct {
	Content string `json:"content" validate:"required"`
}

// ThreadResponse is the serialized Q&A thread.
type ThreadResponse struct {
	ID        uint           `json:"id"`
	UserID    uint           `json:"user_id"`
	CourseID  *uint          `json:"course_id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	Posts     []PostResponse `json:"posts,omitempty"`
}

// PostResponse is the serialized thread reply.
type PostResponse struct {
	ID        uint      `json:"id"`
	ThreadID  uint      `json:"thread_id"`
	UserID    uint      `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPostResponse converts a model into a DTO.
func NewPostResponse(model models.QAPost) PostResponse {
	return PostResponse{
		ID:        model.ID,
		ThreadID:  model.ThreadID,
		UserID:    model.UserID,
		Content:   model.Content,
		CreatedAt: model.CreatedAt,
	}
}

// NewThreadResponse converts a model into a DTO.
func NewThreadResponse(model models.QAThread) ThreadResponse {
	response := ThreadResponse{
		ID:        model.ID,
		UserID:    model.UserID,
		CourseID:  model.CourseID,
		Title:     model.Title,
		Content:   model.Content,
		CreatedAt: model.CreatedAt,
	}

	for _, post := range model.Posts {
		response.Posts = append(response.Posts, NewPostResponse(post))
	}

	return response
}

// NewThreadResponseSlice converts a slice of models into DTOs.
func NewThreadResponseSlice(threads []models.QAThread) []ThreadResponse {
	responses := make([]ThreadResponse, 0, len(threads))
	for _, thread := range threads {
		responses = append(responses, NewThreadResponse(thread))
	}

	return responses
}

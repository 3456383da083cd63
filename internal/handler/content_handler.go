package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campushub/tutoring-api/internal/dto"
	"github.com/campushub/tutoring-api/internal/service"
	"github.com/campushub/tutoring-api/internal/utils"
)

// ContentHandler exposes study resources and the Q&A board.
type ContentHandler struct {
	service service.ContentService
	logger  zerolog.Logger
}

// NewContentHandler constructs a handler instance.
func NewContentHandler(service service.ContentService, logger zerolog.Logger) *ContentHandler {
	return &ContentHandler{
		service: service,
		logger:  logger.With().Str("component", "content_handler").Logger(),
	}
}

// RegisterResources binds the resource routes.
func (h *ContentHandler) RegisterResources(router fiber.Router) {
	router.Get("/", h.listResources)
	router.Post("/", h.publishResource)
	router.Delete("/:id", h.deleteResource)
}

// RegisterQA binds the Q&A routes.
func (h *ContentHandler) RegisterQA(router fiber.Router) {
	router.Get("/", h.listThreads)
	router.Post("/", h.openThread)
	router.Get("/:id", h.getThread)
	router.Post("/:id/replies", h.reply)
}

func (h *ContentHandler) listResources(c *fiber.Ctx) error {
	courseID, err := parseQueryUintPtr(c, "course_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course_id")
	}

	resources, err := h.service.ListResources(requestContext(c), c.Query("search"), courseID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "resources", resources)
}

func (h *ContentHandler) publishResource(c *fiber.Ctx) error {
	var payload dto.ResourcePublishRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resource, err := h.service.PublishResource(requestContext(c), userIDFromContext(c), payload)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "resource published", resource)
}

func (h *ContentHandler) deleteResource(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid resource id")
	}

	if err := h.service.DeleteOwnResource(requestContext(c), id, userIDFromContext(c)); err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "resource deleted", nil)
}

func (h *ContentHandler) listThreads(c *fiber.Ctx) error {
	courseID, err := parseQueryUintPtr(c, "course_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course_id")
	}

	threads, err := h.service.ListThreads(requestContext(c), c.Query("search"), courseID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "threads", threads)
}

func (h *ContentHandler) openThread(c *fiber.Ctx) error {
	var payload dto.ThreadCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	thread, err := h.service.OpenThread(requestContext(c), userIDFromContext(c), payload)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "thread opened", thread)
}

func (h *ContentHandler) getThread(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid thread id")
	}

	thread, err := h.service.GetThread(requestContext(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccess(c, "thread", thread)
}

func (h *ContentHandler) reply(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid thread id")
	}

	var payload dto.ReplyCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	post, err := h.service.Reply(requestContext(c), id, userIDFromContext(c), payload)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "reply posted", post)
}

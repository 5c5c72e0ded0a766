package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/dioarya/classpulse-api/internal/dto"
	"github.com/dioarya/classpulse-api/internal/middleware"
	"github.com/dioarya/classpulse-api/internal/service"
	"github.com/dioarya/classpulse-api/internal/utils"
)

// DiscussionHandler provides HTTP endpoints for discussion threads and replies.
type DiscussionHandler struct {
	service service.DiscussionService
	logger  zerolog.Logger
}

// NewDiscussionHandler constructs a handler instance.
func NewDiscussionHandler(service service.DiscussionService, logger zerolog.Logger) *DiscussionHandler {
	return &DiscussionHandler{
		service: service,
		logger:  logger.With().Str("component", "discussion_handler").Logger(),
	}
}

// RegisterClassRoutes binds thread routes scoped to a class.
func (h *DiscussionHandler) RegisterClassRoutes(router fiber.Router) {
	router.Get("/:classId/threads", h.listThreads)
	router.Post("/:classId/threads", h.createThread)
}

// RegisterThreadRoutes binds routes addressed by thread identifier.
func (h *DiscussionHandler) RegisterThreadRoutes(router fiber.Router) {
	router.Post("/:id/replies", h.createReply)
}

func (h *DiscussionHandler) listThreads(c *fiber.Ctx) error {
	classID, err := parseUintParam(c, "classId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	threads, err := h.service.ListThreads(withRequestContext(c), classID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "threads", threads)
}

func (h *DiscussionHandler) createThread(c *fiber.Ctx) error {
	classID, err := parseUintParam(c, "classId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	authorID := middleware.CallerID(c)
	if authorID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	var payload dto.ThreadCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	thread, err := h.service.CreateThread(withRequestContext(c), classID, authorID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "thread created", thread)
}

func (h *DiscussionHandler) createReply(c *fiber.Ctx) error {
	threadID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	authorID := middleware.CallerID(c)
	if authorID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	var payload dto.ReplyCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	reply, err := h.service.CreateReply(withRequestContext(c), threadID, authorID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "reply created", reply)
}

func (h *DiscussionHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case isValidationError(err):
		return sendValidationError(c, err)
	case errors.Is(err, service.ErrEmptyMessage):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrThreadNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	default:
		h.logger.Error().Err(err).Msg("discussion request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

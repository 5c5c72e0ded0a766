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

// RosterHandler provides HTTP endpoints for class membership.
type RosterHandler struct {
	service service.RosterService
	logger  zerolog.Logger
}

// NewRosterHandler constructs a handler instance.
func NewRosterHandler(service service.RosterService, logger zerolog.Logger) *RosterHandler {
	return &RosterHandler{
		service: service,
		logger:  logger.With().Str("component", "roster_handler").Logger(),
	}
}

// RegisterClassRoutes binds membership routes scoped to a class.
func (h *RosterHandler) RegisterClassRoutes(router fiber.Router) {
	router.Get("/:classId/members", h.roster)
	router.Post("/:classId/members", middleware.RequireRole("instructor"), h.addStudent)
}

// RegisterSearchRoutes binds the student search route.
func (h *RosterHandler) RegisterSearchRoutes(router fiber.Router) {
	router.Get("/search", middleware.RequireRole("instructor"), h.search)
}

func (h *RosterHandler) roster(c *fiber.Ctx) error {
	classID, err := parseUintParam(c, "classId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	roster, err := h.service.Roster(withRequestContext(c), classID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "members", roster)
}

func (h *RosterHandler) addStudent(c *fiber.Ctx) error {
	classID, err := parseUintParam(c, "classId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.AddMemberRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if payload.StudentID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "studentId required")
	}

	roster, err := h.service.AddStudent(withRequestContext(c), classID, payload.StudentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student enrolled", roster)
}

func (h *RosterHandler) search(c *fiber.Ctx) error {
	members, err := h.service.Search(withRequestContext(c), c.Query("q"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "students", members)
}

func (h *RosterHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrMemberNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotAStudent):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("roster request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

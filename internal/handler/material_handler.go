package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/dioarya/classpulse-api/internal/dto"
	"github.com/dioarya/classpulse-api/internal/middleware"
	"github.com/dioarya/classpulse-api/internal/service"
	"github.com/dioarya/classpulse-api/internal/utils"
)

// MaterialHandler provides HTTP endpoints for class study materials.
type MaterialHandler struct {
	service service.MaterialService
	logger  zerolog.Logger
}

// NewMaterialHandler constructs a handler instance.
func NewMaterialHandler(service service.MaterialService, logger zerolog.Logger) *MaterialHandler {
	return &MaterialHandler{
		service: service,
		logger:  logger.With().Str("component", "material_handler").Logger(),
	}
}

// RegisterClassRoutes binds material routes scoped to a class.
func (h *MaterialHandler) RegisterClassRoutes(router fiber.Router) {
	router.Get("/:classId/materials", h.listByClass)
	router.Post("/:classId/materials", middleware.RequireRole("instructor"), h.create)
}

func (h *MaterialHandler) create(c *fiber.Ctx) error {
	classID, err := parseUintParam(c, "classId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.MaterialCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "material file is required")
	}

	material, err := h.service.Create(withRequestContext(c), classID, payload, file)
	if err != nil {
		if isValidationError(err) {
			return sendValidationError(c, err)
		}
		h.logger.Error().Err(err).Msg("material request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "material shared", material)
}

func (h *MaterialHandler) listByClass(c *fiber.Ctx) error {
	classID, err := parseUintParam(c, "classId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	materials, err := h.service.ListByClass(withRequestContext(c), classID)
	if err != nil {
		h.logger.Error().Err(err).Msg("material request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "materials", materials)
}

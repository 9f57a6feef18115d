package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/hireform-api/internal/dto"
	"github.com/noah-isme/hireform-api/internal/service"
	"github.com/noah-isme/hireform-api/internal/utils"
)

// FormHandler manages form endpoints.
type FormHandler struct {
	service service.FormService
	logger  zerolog.Logger
}

// NewFormHandler builds a form handler instance.
func NewFormHandler(service service.FormService, logger zerolog.Logger) *FormHandler {
	return &FormHandler{
		service: service,
		logger:  logger.With().Str("component", "form_handler").Logger(),
	}
}

// Register attaches the HR routes to the provided router group.
func (h *FormHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("", h.list)
	router.Get("/:id", h.detail)
}

// RegisterPublic attaches the candidate-facing routes.
func (h *FormHandler) RegisterPublic(router fiber.Router) {
	router.Get("/forms/:publicId", h.public)
}

func (h *FormHandler) create(c *fiber.Ctx) error {
	ownerID, err := ownerFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	var payload dto.FormCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	form, err := h.service.Create(c.UserContext(), ownerID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.Created(c, form, "form created")
}

func (h *FormHandler) list(c *fiber.Ctx) error {
	ownerID, err := ownerFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	forms, err := h.service.List(c.UserContext(), ownerID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.OK(c, forms, "forms retrieved", fiber.Map{"total": len(forms)})
}

func (h *FormHandler) detail(c *fiber.Ctx) error {
	ownerID, err := ownerFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	formID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	form, err := h.service.Get(c.UserContext(), ownerID, formID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.OK(c, form, "form retrieved", nil)
}

func (h *FormHandler) public(c *fiber.Ctx) error {
	form, err := h.service.GetPublic(c.UserContext(), c.Params("publicId"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.OK(c, form, "form retrieved", nil)
}

func (h *FormHandler) handleError(c *fiber.Ctx, err error) error {
	if details, ok := validationDetails(err); ok {
		return utils.Fail(c, fiber.StatusBadRequest, "validation failed", details)
	}

	switch {
	case errors.Is(err, service.ErrFormNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "form not found")
	case errors.Is(err, service.ErrFormForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "form belongs to another user")
	case errors.Is(err, service.ErrInvalidForm):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

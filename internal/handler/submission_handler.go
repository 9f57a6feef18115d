package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/hireform-api/internal/dto"
	"github.com/noah-isme/hireform-api/internal/ranking"
	"github.com/noah-isme/hireform-api/internal/service"
	"github.com/noah-isme/hireform-api/internal/utils"
)

// SubmissionHandler manages candidate submissions and the HR ranking views.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler constructs a submission handler.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches the HR routes under a form group.
func (h *SubmissionHandler) Register(router fiber.Router) {
	router.Get("/:id/submissions", h.ranked)
	router.Get("/:id/submissions/export", h.export)
}

// RegisterPublic attaches the candidate intake route. guards run before the handler.
func (h *SubmissionHandler) RegisterPublic(router fiber.Router, guards ...fiber.Handler) {
	handlers := make([]fiber.Handler, 0, len(guards)+1)
	handlers = append(handlers, guards...)
	handlers = append(handlers, h.submit)
	router.Post("/forms/:publicId/submissions", handlers...)
}

func (h *SubmissionHandler) submit(c *fiber.Ctx) error {
	payload, resume, err := parseSubmission(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	receipt, err := h.service.Submit(c.UserContext(), c.Params("publicId"), payload, resume)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.Created(c, receipt, "submission received")
}

func (h *SubmissionHandler) ranked(c *fiber.Ctx) error {
	ownerID, err := ownerFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	formID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.Ranked(c.UserContext(), ownerID, formID, c.Query("sort"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.OK(c, response, "submissions retrieved", fiber.Map{
		"total":     response.Total,
		"evaluated": response.Evaluated,
		"dimension": response.Dimension,
	})
}

func (h *SubmissionHandler) export(c *fiber.Ctx) error {
	ownerID, err := ownerFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	formID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	file, err := h.service.Export(c.UserContext(), ownerID, formID, c.Query("sort"))
	if err != nil {
		return h.handleError(c, err)
	}

	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, file.FileName))
	return c.Status(fiber.StatusOK).Send(file.Content)
}

func (h *SubmissionHandler) handleError(c *fiber.Ctx, err error) error {
	if details, ok := validationDetails(err); ok {
		return utils.Fail(c, fiber.StatusBadRequest, "validation failed", details)
	}

	switch {
	case errors.Is(err, service.ErrFormNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "form not found")
	case errors.Is(err, service.ErrFormForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "form belongs to another user")
	case errors.Is(err, service.ErrInvalidResponses):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ranking.ErrUnknownDimension):
		return utils.Fail(c, fiber.StatusBadRequest, err.Error(), fiber.Map{"supported": ranking.Dimensions()})
	case errors.Is(err, service.ErrDocumentTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

// parseSubmission accepts either a JSON body or a multipart form whose
// "responses" part holds the answers and whose optional "resume" part holds
// the document.
func parseSubmission(c *fiber.Ctx) (dto.SubmissionCreateRequest, *multipart.FileHeader, error) {
	var payload dto.SubmissionCreateRequest

	if !strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm) {
		if err := c.BodyParser(&payload); err != nil {
			return payload, nil, errors.New("invalid request body")
		}
		return payload, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return payload, nil, errors.New("invalid multipart body")
	}

	var raw string
	if values := form.Value["responses"]; len(values) > 0 {
		raw = values[0]
	}
	responses, err := decodeResponses(raw)
	if err != nil {
		return payload, nil, err
	}
	payload.Responses = responses

	var resume *multipart.FileHeader
	if files := form.File["resume"]; len(files) > 0 {
		resume = files[0]
	}

	return payload, resume, nil
}

func decodeResponses(raw string) ([]dto.ResponseItem, error) {
	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '[' {
		var items []dto.ResponseItem
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, errors.New("responses must be valid JSON")
		}
		return items, nil
	}

	var wrapped dto.SubmissionCreateRequest
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, errors.New("responses must be valid JSON")
	}
	return wrapped.Responses, nil
}

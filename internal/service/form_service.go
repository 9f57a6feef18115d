package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/hireform-api/internal/dto"
	"github.com/noah-isme/hireform-api/internal/evaluation"
	"github.com/noah-isme/hireform-api/internal/models"
	"github.com/noah-isme/hireform-api/internal/repository"
)

var (
	// ErrFormNotFound indicates the requested form does not exist.
	ErrFormNotFound = errors.New("form not found")
	// ErrFormForbidden indicates the form belongs to another user.
	ErrFormForbidden = errors.New("form belongs to another user")
	// ErrInvalidForm indicates a structurally invalid form definition.
	ErrInvalidForm = errors.New("invalid form definition")
)

// FormService manages HR-authored forms.
type FormService interface {
	Create(ctx context.Context, ownerID uint, payload dto.FormCreateRequest) (dto.FormResponse, error)
	List(ctx context.Context, ownerID uint) ([]dto.FormResponse, error)
	Get(ctx context.Context, ownerID, formID uint) (dto.FormResponse, error)
	GetPublic(ctx context.Context, publicID string) (dto.PublicFormResponse, error)
}

type formService struct {
	repo      repository.FormRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	newID     func() string
}

// NewFormService constructs the form service.
func NewFormService(repo repository.FormRepository, validate *validator.Validate, logger zerolog.Logger) FormService {
	return &formService{
		repo:      repo,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "form_service").Logger(),
		newID:     uuid.NewString,
	}
}

func (s *formService) Create(ctx context.Context, ownerID uint, payload dto.FormCreateRequest) (dto.FormResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FormResponse{}, err
	}

	fields, err := s.buildFields(payload.Fields)
	if err != nil {
		return dto.FormResponse{}, err
	}

	requirements, err := s.normalizeRequirements(payload.JobRequirements)
	if err != nil {
		return dto.FormResponse{}, err
	}

	form := models.Form{
		OwnerID:         ownerID,
		PublicID:        s.newID(),
		Title:           s.clean(payload.Title),
		Description:     s.clean(payload.Description),
		Fields:          fields,
		JobRequirements: requirements,
	}

	if err := s.repo.Create(ctx, &form); err != nil {
		return dto.FormResponse{}, fmt.Errorf("create form: %w", err)
	}

	s.logger.Info().
		Uint("form_id", form.ID).
		Uint("owner_id", ownerID).
		Bool("scoring_enabled", form.HasRequirements()).
		Msg("form created")

	return dto.NewFormResponse(form), nil
}

func (s *formService) List(ctx context.Context, ownerID uint) ([]dto.FormResponse, error) {
	forms, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return dto.NewFormResponseSlice(forms), nil
}

func (s *formService) Get(ctx context.Context, ownerID, formID uint) (dto.FormResponse, error) {
	form, err := ownedForm(ctx, s.repo, ownerID, formID)
	if err != nil {
		return dto.FormResponse{}, err
	}
	return dto.NewFormResponse(form), nil
}

func (s *formService) GetPublic(ctx context.Context, publicID string) (dto.PublicFormResponse, error) {
	form, err := publicForm(ctx, s.repo, publicID)
	if err != nil {
		return dto.PublicFormResponse{}, err
	}
	return dto.NewPublicFormResponse(form), nil
}

// buildFields sanitizes labels and assigns sequential ids ("1", "2", ...) to fields without one.
func (s *formService) buildFields(input []dto.FormFieldRequest) ([]models.FormField, error) {
	fields := make([]models.FormField, 0, len(input))
	seen := make(map[string]struct{}, len(input))

	for index, field := range input {
		id := strings.TrimSpace(field.ID)
		if id == "" {
			id = strconv.Itoa(index + 1)
		}
		if _, exists := seen[id]; exists {
			return nil, fmt.Errorf("%w: duplicate field id %q", ErrInvalidForm, id)
		}
		seen[id] = struct{}{}

		var options []string
		for _, option := range field.Options {
			if cleaned := s.clean(option); cleaned != "" {
				options = append(options, cleaned)
			}
		}
		if (field.Type == models.FieldTypeSelect || field.Type == models.FieldTypeRadio) && len(options) == 0 {
			return nil, fmt.Errorf("%w: field %q needs options", ErrInvalidForm, id)
		}

		fields = append(fields, models.FormField{
			ID:       id,
			Type:     field.Type,
			Label:    s.clean(field.Label),
			Required: field.Required,
			Options:  options,
		})
	}

	return fields, nil
}

func (s *formService) normalizeRequirements(requirements *evaluation.JobRequirements) (*evaluation.JobRequirements, error) {
	if requirements == nil {
		return nil, nil
	}

	normalized := *requirements
	normalized.Role = strings.TrimSpace(normalized.Role)
	normalized.RequiredSkills = trimAll(normalized.RequiredSkills)
	normalized.PreferredSkills = trimAll(normalized.PreferredSkills)
	normalized.Qualifications = trimAll(normalized.Qualifications)

	experience := normalized.ExperienceRequired
	if experience.Maximum > 0 && experience.Minimum > experience.Maximum {
		return nil, fmt.Errorf("%w: minimum experience exceeds maximum", ErrInvalidForm)
	}

	return &normalized, nil
}

func (s *formService) clean(value string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(strings.TrimSpace(value)))
}

func trimAll(values []string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func ownedForm(ctx context.Context, repo repository.FormRepository, ownerID, formID uint) (models.Form, error) {
	form, err := repo.GetByID(ctx, formID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Form{}, ErrFormNotFound
		}
		return models.Form{}, err
	}
	if form.OwnerID != ownerID {
		return models.Form{}, ErrFormForbidden
	}
	return form, nil
}

func publicForm(ctx context.Context, repo repository.FormRepository, publicID string) (models.Form, error) {
	publicID = strings.TrimSpace(publicID)
	if publicID == "" {
		return models.Form{}, ErrFormNotFound
	}

	form, err := repo.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Form{}, ErrFormNotFound
		}
		return models.Form{}, err
	}
	return form, nil
}

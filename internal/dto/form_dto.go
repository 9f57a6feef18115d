package dto

import (
	"time"

	"github.com/noah-isme/hireform-api/internal/evaluation"
	"github.com/noah-isme/hireform-api/internal/models"
)

// FormFieldRequest describes one question when creating a form.
type FormFieldRequest struct {
	ID       string   `json:"id" validate:"omitempty,max=64"`
	Type     string   `json:"type" validate:"required,oneof=text email tel number textarea select radio checkbox date file"`
	Label    string   `json:"label" validate:"required,max=200"`
	Required bool     `json:"required"`
	Options  []string `json:"options" validate:"omitempty,max=50,dive,required,max=200"`
}

// FormCreateRequest is the payload for creating a form.
type FormCreateRequest struct {
	Title           string                      `json:"title" validate:"required,min=3,max=255"`
	Description     string                      `json:"description" validate:"max=5000"`
	Fields          []FormFieldRequest          `json:"fields" validate:"required,min=1,max=100,dive"`
	JobRequirements *evaluation.JobRequirements `json:"job_requirements" validate:"omitempty"`
}

// FormFieldResponse is a form question as returned to clients.
type FormFieldResponse struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Label    string   `json:"label"`
	Required bool     `json:"required"`
	Options  []string `json:"options"`
}

// FormResponse is the owner's view of a form.
type FormResponse struct {
	ID              uint                        `json:"id"`
	PublicID        string                      `json:"public_id"`
	PublicLink      string                      `json:"public_link"`
	Title           string                      `json:"title"`
	Description     string                      `json:"description"`
	Fields          []FormFieldResponse         `json:"fields"`
	JobRequirements *evaluation.JobRequirements `json:"job_requirements"`
	ScoringEnabled  bool                        `json:"scoring_enabled"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

// PublicFormResponse is the candidate's view of a form. Job requirements are never exposed.
type PublicFormResponse struct {
	PublicID    string              `json:"public_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Fields      []FormFieldResponse `json:"fields"`
}

// NewFormResponse converts a Form model into its owner DTO.
func NewFormResponse(model models.Form) FormResponse {
	return FormResponse{
		ID:              model.ID,
		PublicID:        model.PublicID,
		PublicLink:      model.PublicLink(),
		Title:           model.Title,
		Description:     model.Description,
		Fields:          newFormFieldResponses(model.Fields),
		JobRequirements: model.JobRequirements,
		ScoringEnabled:  model.HasRequirements(),
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

// NewFormResponseSlice converts form models into DTOs.
func NewFormResponseSlice(forms []models.Form) []FormResponse {
	responses := make([]FormResponse, 0, len(forms))
	for _, form := range forms {
		responses = append(responses, NewFormResponse(form))
	}
	return responses
}

// NewPublicFormResponse converts a Form model into the candidate DTO.
func NewPublicFormResponse(model models.Form) PublicFormResponse {
	return PublicFormResponse{
		PublicID:    model.PublicID,
		Title:       model.Title,
		Description: model.Description,
		Fields:      newFormFieldResponses(model.Fields),
	}
}

func newFormFieldResponses(fields []models.FormField) []FormFieldResponse {
	responses := make([]FormFieldResponse, 0, len(fields))
	for _, field := range fields {
		options := field.Options
		if options == nil {
			options = []string{}
		}
		responses = append(responses, FormFieldResponse{
			ID:       field.ID,
			Type:     field.Type,
			Label:    field.Label,
			Required: field.Required,
			Options:  options,
		})
	}
	return responses
}

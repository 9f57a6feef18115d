package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/noah-isme/hireform-api/internal/evaluation"
)

// Form is an HR-authored application form shared with candidates through its public link.
type Form struct {
	ID              uint                           `gorm:"primaryKey" json:"id"`
	OwnerID         uint                           `gorm:"not null;index" json:"owner_id"`
	PublicID        string                         `gorm:"size:36;not null;uniqueIndex" json:"public_id"`
	Title           string                         `gorm:"size:255;not null" json:"title"`
	Description     string                         `gorm:"type:text" json:"description"`
	Fields          datatypes.JSONSlice[FormField] `gorm:"not null" json:"fields"`
	JobRequirements *evaluation.JobRequirements    `gorm:"serializer:json;type:text" json:"job_requirements"`
	CreatedAt       time.Time                      `json:"created_at"`
	UpdatedAt       time.Time                      `json:"updated_at"`
}

// FormField is one question on a form.
type FormField struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Label    string   `json:"label"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

const (
	FieldTypeText     = "text"
	FieldTypeEmail    = "email"
	FieldTypeTel      = "tel"
	FieldTypeNumber   = "number"
	FieldTypeTextarea = "textarea"
	FieldTypeSelect   = "select"
	FieldTypeRadio    = "radio"
	FieldTypeCheckbox = "checkbox"
	FieldTypeDate     = "date"
	FieldTypeFile     = "file"
)

// HasRequirements reports whether submissions to the form are scored.
func (f Form) HasRequirements() bool {
	return f.JobRequirements != nil
}

// PublicLink is the candidate-facing path of the form.
func (f Form) PublicLink() string {
	return "/form/" + f.PublicID
}

// NoticePeriodFieldID returns the id of the first field whose label mentions a notice period.
func (f Form) NoticePeriodFieldID() (string, bool) {
	for _, field := range f.Fields {
		if strings.Contains(strings.ToLower(field.Label), "notice") {
			return field.ID, true
		}
	}
	return "", false
}

package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/noah-isme/hireform-api/internal/evaluation"
)

// Submission is a candidate's filled-out form. It is written once and never updated.
type Submission struct {
	ID              uint                          `gorm:"primaryKey" json:"id"`
	FormID          uint                          `gorm:"not null;index" json:"form_id"`
	Responses       datatypes.JSONSlice[Response] `gorm:"not null" json:"responses"`
	ResumeURL       *string                       `gorm:"size:1024" json:"resume_url"`
	ResumeStatus    string                        `gorm:"size:32;not null" json:"resume_status"`
	AIEvaluation    *evaluation.ScoreBreakdown    `gorm:"serializer:json;type:text" json:"ai_evaluation"`
	ParsedResume    *evaluation.StructuredResume  `gorm:"serializer:json;type:text" json:"parsed_resume,omitempty"`
	EvaluationError string                        `gorm:"size:32" json:"evaluation_error,omitempty"`
	SubmittedAt     time.Time                     `gorm:"not null;index" json:"submitted_at"`
	Form            Form                          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// Response is a candidate's answer to one form field.
type Response struct {
	FieldID string `json:"field_id"`
	Value   string `json:"value"`
}

const (
	// ResumeStatusNone indicates no document was attached.
	ResumeStatusNone = "none"
	// ResumeStatusStored indicates the document was uploaded and ResumeURL is set.
	ResumeStatusStored = "stored"
	// ResumeStatusUploadFailed indicates a document was attached but could not be stored.
	ResumeStatusUploadFailed = "upload_failed"
)

// IsEvaluated reports whether the submission carries a score breakdown.
func (s Submission) IsEvaluated() bool {
	return s.AIEvaluation != nil
}

// ResponseValue returns the answer given for fieldID.
func (s Submission) ResponseValue(fieldID string) (string, bool) {
	for _, response := range s.Responses {
		if response.FieldID == fieldID {
			return response.Value, true
		}
	}
	return "", false
}

package dto

import (
	"time"

	"github.com/noah-isme/hireform-api/internal/evaluation"
	"github.com/noah-isme/hireform-api/internal/models"
)

// ResponseItem is a candidate's answer to one field.
type ResponseItem struct {
	FieldID string `json:"field_id" validate:"required,max=64"`
	Value   string `json:"value" validate:"max=10000"`
}

// SubmissionCreateRequest carries the decoded "responses" part of a submission.
type SubmissionCreateRequest struct {
	Responses []ResponseItem `json:"responses" validate:"required,min=1,max=200,dive"`
}

// SubmissionReceipt is returned to the candidate after a submission is stored.
type SubmissionReceipt struct {
	SubmissionID uint      `json:"submission_id"`
	ResumeURL    *string   `json:"resume_url"`
	ResumeStatus string    `json:"resume_status"`
	Evaluated    bool      `json:"evaluated"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// SubmissionView is one row of the HR dashboard.
type SubmissionView struct {
	Rank            int                          `json:"rank"`
	ID              uint                         `json:"id"`
	FormID          uint                         `json:"form_id"`
	CandidateName   string                       `json:"candidate_name,omitempty"`
	Responses       []ResponseItem               `json:"responses"`
	ResumeURL       *string                      `json:"resume_url"`
	ResumeStatus    string                       `json:"resume_status"`
	AIEvaluation    *evaluation.ScoreBreakdown   `json:"ai_evaluation"`
	ParsedResume    *evaluation.StructuredResume `json:"parsed_resume,omitempty"`
	EvaluationError string                       `json:"evaluation_error,omitempty"`
	SubmittedAt     time.Time                    `json:"submitted_at"`
}

// JobRequirementsSummary condenses a form's requirements for the dashboard header.
type JobRequirementsSummary struct {
	Configured           bool     `json:"configured"`
	Role                 string   `json:"role,omitempty"`
	MinimumYears         float64  `json:"minimum_years"`
	MaximumYears         float64  `json:"maximum_years"`
	PreferredIndustry    string   `json:"preferred_industry,omitempty"`
	RequiredSkills       []string `json:"required_skills"`
	PreferredSkills      []string `json:"preferred_skills"`
	NoticePeriodRequired string   `json:"notice_period_required,omitempty"`
}

// RankedSubmissionsResponse answers a ranking query.
type RankedSubmissionsResponse struct {
	FormID                 uint                   `json:"form_id"`
	FormTitle              string                 `json:"form_title"`
	Dimension              string                 `json:"dimension"`
	Total                  int                    `json:"total"`
	Evaluated              int                    `json:"evaluated"`
	Submissions            []SubmissionView       `json:"submissions"`
	JobRequirementsSummary JobRequirementsSummary `json:"job_requirements_summary"`
	CacheHit               bool                   `json:"cache_hit"`
}

// SubmissionExport is a rendered ranking workbook.
type SubmissionExport struct {
	FileName    string
	ContentType string
	Content     []byte
}

// NewSubmissionReceipt converts a freshly stored Submission into the candidate receipt.
func NewSubmissionReceipt(model models.Submission) SubmissionReceipt {
	return SubmissionReceipt{
		SubmissionID: model.ID,
		ResumeURL:    model.ResumeURL,
		ResumeStatus: model.ResumeStatus,
		Evaluated:    model.IsEvaluated(),
		SubmittedAt:  model.SubmittedAt,
	}
}

// NewSubmissionView converts a Submission model into a dashboard row.
func NewSubmissionView(model models.Submission, rank int) SubmissionView {
	responses := make([]ResponseItem, 0, len(model.Responses))
	for _, response := range model.Responses {
		responses = append(responses, ResponseItem{FieldID: response.FieldID, Value: response.Value})
	}

	view := SubmissionView{
		Rank:            rank,
		ID:              model.ID,
		FormID:          model.FormID,
		Responses:       responses,
		ResumeURL:       model.ResumeURL,
		ResumeStatus:    model.ResumeStatus,
		AIEvaluation:    model.AIEvaluation,
		ParsedResume:    model.ParsedResume,
		EvaluationError: model.EvaluationError,
		SubmittedAt:     model.SubmittedAt,
	}
	if model.ParsedResume != nil {
		view.CandidateName = model.ParsedResume.FullName
	}

	return view
}

// NewSubmissionViews converts ranked submissions into dashboard rows numbered from 1.
func NewSubmissionViews(ranked []models.Submission) []SubmissionView {
	views := make([]SubmissionView, 0, len(ranked))
	for index, submission := range ranked {
		views = append(views, NewSubmissionView(submission, index+1))
	}
	return views
}

// NewJobRequirementsSummary condenses requirements; nil yields an unconfigured summary.
func NewJobRequirementsSummary(requirements *evaluation.JobRequirements) JobRequirementsSummary {
	if requirements == nil {
		return JobRequirementsSummary{RequiredSkills: []string{}, PreferredSkills: []string{}}
	}

	summary := JobRequirementsSummary{
		Configured:           true,
		Role:                 requirements.Role,
		MinimumYears:         requirements.ExperienceRequired.Minimum,
		MaximumYears:         requirements.ExperienceRequired.Maximum,
		PreferredIndustry:    requirements.ExperienceRequired.PreferredIndustry,
		RequiredSkills:       append([]string{}, requirements.RequiredSkills...),
		PreferredSkills:      append([]string{}, requirements.PreferredSkills...),
		NoticePeriodRequired: requirements.NoticePeriod.Required,
	}
	return summary
}

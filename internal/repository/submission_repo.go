package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/hireform-api/internal/models"
)

// SubmissionFilter allows narrowing submission queries.
type SubmissionFilter struct {
	FormID        *uint
	EvaluatedOnly bool
}

// SubmissionRepository defines data operations for submissions. Submissions
// are append-only, so there is no update.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error)
	ListByForm(ctx context.Context, formID uint) ([]models.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(submission).Error
}

// List returns submissions in arrival order.
func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error) {
	query := r.db.WithContext(ctx).Model(&models.Submission{})

	if filter.FormID != nil {
		query = query.Where("form_id = ?", *filter.FormID)
	}

	if filter.EvaluatedOnly {
		query = query.Where("ai_evaluation IS NOT NULL")
	}

	var submissions []models.Submission
	if err := query.Order("submitted_at ASC").Order("id ASC").Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) ListByForm(ctx context.Context, formID uint) ([]models.Submission, error) {
	return r.List(ctx, SubmissionFilter{FormID: &formID})
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/hireform-api/internal/models"
)

// FormRepository defines data operations for forms.
type FormRepository interface {
	Create(ctx context.Context, form *models.Form) error
	GetByID(ctx context.Context, id uint) (models.Form, error)
	GetByPublicID(ctx context.Context, publicID string) (models.Form, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Form, error)
}

type formRepository struct {
	db *gorm.DB
}

// NewFormRepository instantiates the repository.
func NewFormRepository(db *gorm.DB) FormRepository {
	return &formRepository{db: db}
}

func (r *formRepository) Create(ctx context.Context, form *models.Form) error {
	return r.db.WithContext(ctx).Create(form).Error
}

func (r *formRepository) GetByID(ctx context.Context, id uint) (models.Form, error) {
	var form models.Form
	if err := r.db.WithContext(ctx).First(&form, id).Error; err != nil {
		return models.Form{}, err
	}

	return form, nil
}

func (r *formRepository) GetByPublicID(ctx context.Context, publicID string) (models.Form, error) {
	var form models.Form
	if err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&form).Error; err != nil {
		return models.Form{}, err
	}

	return form, nil
}

func (r *formRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Form, error) {
	var forms []models.Form
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&forms).Error; err != nil {
		return nil, err
	}

	return forms, nil
}

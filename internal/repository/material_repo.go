package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dioarya/classpulse-api/internal/models"
)

// MaterialRepository persists class materials.
type MaterialRepository interface {
	ListByClass(ctx context.Context, classID uint) ([]models.Material, error)
	Create(ctx context.Context, material *models.Material) error
}

type materialRepository struct {
	db *gorm.DB
}

// NewMaterialRepository constructs a GORM-backed repository.
func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &materialRepository{db: db}
}

func (r *materialRepository) ListByClass(ctx context.Context, classID uint) ([]models.Material, error) {
	var materials []models.Material
	if err := r.db.WithContext(ctx).
		Where("class_id = ?", classID).
		Order("created_at DESC").
		Find(&materials).Error; err != nil {
		return nil, err
	}

	return materials, nil
}

func (r *materialRepository) Create(ctx context.Context, material *models.Material) error {
	return r.db.WithContext(ctx).Create(material).Error
}

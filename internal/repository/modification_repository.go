package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/PGohila/LMS/internal/models"
)

// ModificationRepository defines the interface for loan modification access
type ModificationRepository interface {
	FindByID(ctx context.Context, id uint) (*models.LoanModification, error)
	FindByApplication(ctx context.Context, applicationID uint) ([]models.LoanModification, error)
	Create(ctx context.Context, mod *models.LoanModification) error
	Update(ctx context.Context, mod *models.LoanModification) error
	List(ctx context.Context, query *ListQuery) ([]models.LoanModification, int64, error)
}

type modificationRepository struct {
	db *gorm.DB
}

// NewModificationRepository creates a new modification repository
func NewModificationRepository(db *gorm.DB) ModificationRepository {
	return &modificationRepository{db: db}
}

func (r *modificationRepository) FindByID(ctx context.Context, id uint) (*models.LoanModification, error) {
	var mod models.LoanModification
	if err := r.db.WithContext(ctx).First(&mod, id).Error; err != nil {
		return nil, err
	}
	return &mod, nil
}

func (r *modificationRepository) FindByApplication(ctx context.Context, applicationID uint) ([]models.LoanModification, error) {
	var mods []models.LoanModification
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at DESC").
		Find(&mods).Error
	return mods, err
}

func (r *modificationRepository) Create(ctx context.Context, mod *models.LoanModification) error {
	return r.db.WithContext(ctx).Create(mod).Error
}

func (r *modificationRepository) Update(ctx context.Context, mod *models.LoanModification) error {
	return r.db.WithContext(ctx).Save(mod).Error
}

func (r *modificationRepository) List(ctx context.Context, query *ListQuery) ([]models.LoanModification, int64, error) {
	var mods []models.LoanModification
	var total int64

	db := r.db.WithContext(ctx).Model(&models.LoanModification{})

	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}

	if query.Filters["application_id"] != "" {
		db = db.Where("application_id = ?", query.Filters["application_id"])
	}

	db.Count(&total)

	db = db.Order("created_at DESC")
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&mods).Error
	return mods, total, err
}

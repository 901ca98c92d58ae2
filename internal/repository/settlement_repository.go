package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/PGohila/LMS/internal/models"
)

// SettlementRepository defines the interface for settlement data access
type SettlementRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Settlement, error)
	FindByAccount(ctx context.Context, accountID uint) ([]models.Settlement, error)
	Create(ctx context.Context, settlement *models.Settlement) error
	Update(ctx context.Context, settlement *models.Settlement) error
	List(ctx context.Context, query *ListQuery) ([]models.Settlement, int64, error)
}

type settlementRepository struct {
	db *gorm.DB
}

// NewSettlementRepository creates a new settlement repository
func NewSettlementRepository(db *gorm.DB) SettlementRepository {
	return &settlementRepository{db: db}
}

func (r *settlementRepository) FindByID(ctx context.Context, id uint) (*models.Settlement, error) {
	var settlement models.Settlement
	if err := r.db.WithContext(ctx).First(&settlement, id).Error; err != nil {
		return nil, err
	}
	return &settlement, nil
}

func (r *settlementRepository) FindByAccount(ctx context.Context, accountID uint) ([]models.Settlement, error) {
	var settlements []models.Settlement
	err := r.db.WithContext(ctx).
		Where("loan_account_id = ?", accountID).
		Order("created_at DESC").
		Find(&settlements).Error
	return settlements, err
}

func (r *settlementRepository) Create(ctx context.Context, settlement *models.Settlement) error {
	return r.db.WithContext(ctx).Create(settlement).Error
}

func (r *settlementRepository) Update(ctx context.Context, settlement *models.Settlement) error {
	return r.db.WithContext(ctx).Save(settlement).Error
}

func (r *settlementRepository) List(ctx context.Context, query *ListQuery) ([]models.Settlement, int64, error) {
	var settlements []models.Settlement
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Settlement{})

	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}

	if query.Filters["loan_account_id"] != "" {
		db = db.Where("loan_account_id = ?", query.Filters["loan_account_id"])
	}

	db.Count(&total)

	db = db.Order("created_at DESC")
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&settlements).Error
	return settlements, total, err
}

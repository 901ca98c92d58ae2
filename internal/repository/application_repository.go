package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/PGohila/LMS/internal/models"
)

// ApplicationRepository defines the interface for loan application data access
type ApplicationRepository interface {
	FindByID(ctx context.Context, id uint) (*models.LoanApplication, error)
	Create(ctx context.Context, app *models.LoanApplication) error
	Update(ctx context.Context, app *models.LoanApplication) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	List(ctx context.Context, query *ListQuery) ([]models.LoanApplication, int64, error)
	FindByCustomer(ctx context.Context, customerID uint) ([]models.LoanApplication, error)
	AddHistory(ctx context.Context, entry *models.ApplicationHistory) error
	FindHistory(ctx context.Context, applicationID uint) ([]models.ApplicationHistory, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new loan application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) FindByID(ctx context.Context, id uint) (*models.LoanApplication, error) {
	var app models.LoanApplication
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Officer").
		First(&app, id).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) Create(ctx context.Context, app *models.LoanApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *applicationRepository) Update(ctx context.Context, app *models.LoanApplication) error {
	return r.db.WithContext(ctx).Save(app).Error
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.LoanApplication{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *applicationRepository) List(ctx context.Context, query *ListQuery) ([]models.LoanApplication, int64, error) {
	var apps []models.LoanApplication
	var total int64

	db := r.db.WithContext(ctx).Model(&models.LoanApplication{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("JOIN customers ON customers.id = loan_applications.customer_id").
			Where("customers.full_name ILIKE ? OR customers.national_id ILIKE ? OR loan_applications.product_name ILIKE ?",
				search, search, search)
	}

	if query.Filters["status"] != "" {
		db = db.Where("loan_applications.status = ?", query.Filters["status"])
	}

	if query.Filters["customer_id"] != "" {
		db = db.Where("loan_applications.customer_id = ?", query.Filters["customer_id"])
	}

	if query.Filters["calculation_method"] != "" {
		db = db.Where("loan_applications.calculation_method = ?", query.Filters["calculation_method"])
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := "loan_applications." + query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("loan_applications.created_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Customer").Find(&apps).Error
	return apps, total, err
}

func (r *applicationRepository) FindByCustomer(ctx context.Context, customerID uint) ([]models.LoanApplication, error) {
	var apps []models.LoanApplication
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

func (r *applicationRepository) AddHistory(ctx context.Context, entry *models.ApplicationHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *applicationRepository) FindHistory(ctx context.Context, applicationID uint) ([]models.ApplicationHistory, error) {
	var entries []models.ApplicationHistory
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *applicationRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		Status string
		Count  int
	}
	err := r.db.WithContext(ctx).
		Model(&models.LoanApplication{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

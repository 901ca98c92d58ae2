package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/PGohila/LMS/internal/models"
)

// PastDueRepository defines the interface for past-due and penalty data access
type PastDueRepository interface {
	FindOpenBySchedule(ctx context.Context, scheduleID uint) (*models.PastDueRecord, error)
	Upsert(ctx context.Context, record *models.PastDueRecord) error
	Resolve(ctx context.Context, scheduleID uint, at time.Time) error
	List(ctx context.Context, query *ListQuery) ([]models.PastDueRecord, int64, error)
	CreateAccrual(ctx context.Context, accrual *models.PenaltyAccrual) error
	HasAccrualOn(ctx context.Context, scheduleID uint, day time.Time) (bool, error)
	ActiveConfig(ctx context.Context) (*models.PenaltyConfig, error)
	SaveConfig(ctx context.Context, cfg *models.PenaltyConfig) error
}

type pastDueRepository struct {
	db *gorm.DB
}

// NewPastDueRepository creates a new past-due repository
func NewPastDueRepository(db *gorm.DB) PastDueRepository {
	return &pastDueRepository{db: db}
}

func (r *pastDueRepository) FindOpenBySchedule(ctx context.Context, scheduleID uint) (*models.PastDueRecord, error) {
	var record models.PastDueRecord
	err := r.db.WithContext(ctx).
		Where("schedule_id = ? AND resolved_at IS NULL", scheduleID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Upsert creates the record on first detection and refreshes the overdue
// figures on subsequent scans.
func (r *pastDueRepository) Upsert(ctx context.Context, record *models.PastDueRecord) error {
	var existing models.PastDueRecord
	err := r.db.WithContext(ctx).
		Where("schedule_id = ?", record.ScheduleID).
		First(&existing).Error

	if err == nil {
		existing.DaysOverdue = record.DaysOverdue
		existing.AmountOverdue = record.AmountOverdue
		existing.ResolvedAt = nil
		return r.db.WithContext(ctx).Save(&existing).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *pastDueRepository) Resolve(ctx context.Context, scheduleID uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.PastDueRecord{}).
		Where("schedule_id = ? AND resolved_at IS NULL", scheduleID).
		Update("resolved_at", at).Error
}

func (r *pastDueRepository) List(ctx context.Context, query *ListQuery) ([]models.PastDueRecord, int64, error) {
	var records []models.PastDueRecord
	var total int64

	db := r.db.WithContext(ctx).Model(&models.PastDueRecord{})

	if query.Filters["loan_account_id"] != "" {
		db = db.Where("loan_account_id = ?", query.Filters["loan_account_id"])
	}

	if query.Filters["open"] == "true" {
		db = db.Where("resolved_at IS NULL")
	}

	db.Count(&total)

	db = db.Order("detected_at DESC")
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&records).Error
	return records, total, err
}

func (r *pastDueRepository) CreateAccrual(ctx context.Context, accrual *models.PenaltyAccrual) error {
	return r.db.WithContext(ctx).Create(accrual).Error
}

// HasAccrualOn reports whether a penalty was already charged against the
// schedule row on the given day, so a rerun scan never double-charges.
func (r *pastDueRepository) HasAccrualOn(ctx context.Context, scheduleID uint, day time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PenaltyAccrual{}).
		Where("schedule_id = ? AND accrued_on = ?", scheduleID, day.Format("2006-01-02")).
		Count(&count).Error
	return count > 0, err
}

func (r *pastDueRepository) ActiveConfig(ctx context.Context) (*models.PenaltyConfig, error) {
	var cfg models.PenaltyConfig
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at DESC").
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *pastDueRepository) SaveConfig(ctx context.Context, cfg *models.PenaltyConfig) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}

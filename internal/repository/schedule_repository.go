package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/PGohila/LMS/internal/models"
)

// ScheduleRepository defines the interface for repayment schedule data access
type ScheduleRepository interface {
	FindByID(ctx context.Context, id uint) (*models.RepaymentSchedule, error)
	FindByApplication(ctx context.Context, applicationID uint) ([]models.RepaymentSchedule, error)
	FindPendingByApplication(ctx context.Context, applicationID uint) ([]models.RepaymentSchedule, error)
	CreateBatch(ctx context.Context, rows []models.RepaymentSchedule) error
	Update(ctx context.Context, row *models.RepaymentSchedule) error
	DeletePendingFrom(ctx context.Context, applicationID uint, from time.Time) error
	FindOverdue(ctx context.Context, asOf time.Time) ([]models.RepaymentSchedule, error)
	FindDueBetween(ctx context.Context, from, to time.Time) ([]models.RepaymentSchedule, error)
	MarkReminderSent(ctx context.Context, ids []uint, at time.Time) error
}

type scheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) FindByID(ctx context.Context, id uint) (*models.RepaymentSchedule, error) {
	var row models.RepaymentSchedule
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *scheduleRepository) FindByApplication(ctx context.Context, applicationID uint) ([]models.RepaymentSchedule, error) {
	var rows []models.RepaymentSchedule
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("period ASC").
		Find(&rows).Error
	return rows, err
}

func (r *scheduleRepository) FindPendingByApplication(ctx context.Context, applicationID uint) ([]models.RepaymentSchedule, error) {
	var rows []models.RepaymentSchedule
	err := r.db.WithContext(ctx).
		Where("application_id = ? AND status IN ?", applicationID,
			[]string{models.ScheduleStatusPending, models.ScheduleStatusPartial}).
		Order("due_date ASC, period ASC").
		Find(&rows).Error
	return rows, err
}

func (r *scheduleRepository) CreateBatch(ctx context.Context, rows []models.RepaymentSchedule) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *scheduleRepository) Update(ctx context.Context, row *models.RepaymentSchedule) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// DeletePendingFrom removes unsettled rows due on or after the given date.
// Used by modifications before the schedule is regenerated; the filter must
// match the rows whose principal the recalculation absorbed, so partial rows
// go too.
func (r *scheduleRepository) DeletePendingFrom(ctx context.Context, applicationID uint, from time.Time) error {
	return r.db.WithContext(ctx).
		Where("application_id = ? AND status IN ? AND due_date >= ?",
			applicationID, []string{models.ScheduleStatusPending, models.ScheduleStatusPartial}, from).
		Delete(&models.RepaymentSchedule{}).Error
}

func (r *scheduleRepository) FindOverdue(ctx context.Context, asOf time.Time) ([]models.RepaymentSchedule, error) {
	var rows []models.RepaymentSchedule
	err := r.db.WithContext(ctx).
		Where("status IN ? AND due_date < ?",
			[]string{models.ScheduleStatusPending, models.ScheduleStatusPartial}, asOf).
		Order("due_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *scheduleRepository) FindDueBetween(ctx context.Context, from, to time.Time) ([]models.RepaymentSchedule, error) {
	var rows []models.RepaymentSchedule
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_date >= ? AND due_date < ? AND reminder_sent_at IS NULL",
			models.ScheduleStatusPending, from, to).
		Order("due_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *scheduleRepository) MarkReminderSent(ctx context.Context, ids []uint, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.RepaymentSchedule{}).
		Where("id IN ?", ids).
		Update("reminder_sent_at", at).Error
}

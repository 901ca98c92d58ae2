package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/PGohila/LMS/internal/models"
)

// PortfolioRepository defines the interface for portfolio-level aggregates
type PortfolioRepository interface {
	TotalDisbursed(ctx context.Context) (decimal.Decimal, error)
	TotalOutstanding(ctx context.Context) (decimal.Decimal, error)
	TotalPenaltiesAccrued(ctx context.Context) (decimal.Decimal, error)
	AccountStatusCounts(ctx context.Context) (map[string]int, error)
	CollectionTotals(ctx context.Context) (due decimal.Decimal, collected decimal.Decimal, err error)
	OverdueAging(ctx context.Context) ([]models.OverdueAgingBucket, error)
}

type portfolioRepository struct {
	db *gorm.DB
}

// NewPortfolioRepository creates a new portfolio repository
func NewPortfolioRepository(db *gorm.DB) PortfolioRepository {
	return &portfolioRepository{db: db}
}

func (r *portfolioRepository) TotalDisbursed(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.LoanAccount{}).
		Select("COALESCE(SUM(principal_disbursed), 0)").
		Scan(&total).Error
	return total, err
}

func (r *portfolioRepository) TotalOutstanding(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.LoanAccount{}).
		Select("COALESCE(SUM(outstanding_principal), 0)").
		Where("status IN ?", []string{models.AccountStatusActive, models.AccountStatusPastDue}).
		Scan(&total).Error
	return total, err
}

func (r *portfolioRepository) TotalPenaltiesAccrued(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.RepaymentSchedule{}).
		Select("COALESCE(SUM(penalty_amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *portfolioRepository) AccountStatusCounts(ctx context.Context) (map[string]int, error) {
	var results []struct {
		Status string
		Count  int
	}

	err := r.db.WithContext(ctx).Model(&models.LoanAccount{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(results))
	for _, res := range results {
		counts[res.Status] = res.Count
	}
	return counts, nil
}

// CollectionTotals returns the amount due on installments that have reached
// their due date and the amount actually collected against them.
func (r *portfolioRepository) CollectionTotals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	var result struct {
		Due       decimal.Decimal
		Collected decimal.Decimal
	}

	err := r.db.WithContext(ctx).Model(&models.RepaymentSchedule{}).
		Select("COALESCE(SUM(total_amount), 0) as due, COALESCE(SUM(paid_amount), 0) as collected").
		Where("due_date <= CURRENT_DATE").
		Where("status <> ?", models.ScheduleStatusCancelled).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return result.Due, result.Collected, nil
}

func (r *portfolioRepository) OverdueAging(ctx context.Context) ([]models.OverdueAgingBucket, error) {
	var results []struct {
		Bucket string
		Count  int
		Amount decimal.Decimal
	}

	err := r.db.WithContext(ctx).Model(&models.RepaymentSchedule{}).
		Select(`CASE
			WHEN CURRENT_DATE - due_date <= 30 THEN '1-30'
			WHEN CURRENT_DATE - due_date <= 60 THEN '31-60'
			WHEN CURRENT_DATE - due_date <= 90 THEN '61-90'
			ELSE '90+'
		END as bucket,
		COUNT(*) as count,
		COALESCE(SUM(total_amount + penalty_amount - paid_amount), 0) as amount`).
		Where("due_date < CURRENT_DATE").
		Where("status IN ?", []string{models.ScheduleStatusPending, models.ScheduleStatusPartial}).
		Group("bucket").
		Order("bucket ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	buckets := make([]models.OverdueAgingBucket, 0, len(results))
	for _, res := range results {
		buckets = append(buckets, models.OverdueAgingBucket{
			Bucket: res.Bucket,
			Count:  res.Count,
			Amount: res.Amount.StringFixed(2),
		})
	}
	return buckets, nil
}

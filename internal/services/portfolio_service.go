package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/PGohila/LMS/internal/models"
	"github.com/PGohila/LMS/internal/repository"
)

// PortfolioService aggregates portfolio-wide figures for dashboards.
type PortfolioService struct {
	repo    repository.PortfolioRepository
	appRepo repository.ApplicationRepository
}

func NewPortfolioService(repo repository.PortfolioRepository, appRepo repository.ApplicationRepository) *PortfolioService {
	return &PortfolioService{
		repo:    repo,
		appRepo: appRepo,
	}
}

// Overview returns the headline portfolio numbers.
func (s *PortfolioService) Overview(ctx context.Context) (*models.PortfolioOverview, error) {
	disbursed, err := s.repo.TotalDisbursed(ctx)
	if err != nil {
		return nil, err
	}
	outstanding, err := s.repo.TotalOutstanding(ctx)
	if err != nil {
		return nil, err
	}
	penalties, err := s.repo.TotalPenaltiesAccrued(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.AccountStatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	due, collected, err := s.repo.CollectionTotals(ctx)
	if err != nil {
		return nil, err
	}

	// Collected over due, as a percentage. An empty book collects 100%.
	collectionRate := decimal.NewFromInt(100)
	if due.GreaterThan(decimal.Zero) {
		collectionRate = collected.Div(due).Mul(decimal.NewFromInt(100))
	}

	return &models.PortfolioOverview{
		TotalDisbursed:        disbursed.StringFixed(2),
		TotalOutstanding:      outstanding.StringFixed(2),
		TotalPenaltiesAccrued: penalties.StringFixed(2),
		ActiveAccounts:        counts[models.AccountStatusActive],
		PastDueAccounts:       counts[models.AccountStatusPastDue],
		SettledAccounts:       counts[models.AccountStatusSettled],
		CollectionRate:        collectionRate.StringFixed(2),
		CurrencySymbol:        "$",
	}, nil
}

// StatusDistribution counts loan applications per lifecycle status.
func (s *PortfolioService) StatusDistribution(ctx context.Context) (*models.StatusDistribution, error) {
	counts, err := s.appRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &models.StatusDistribution{
		Draft:       counts[models.ApplicationStatusDraft],
		Submitted:   counts[models.ApplicationStatusSubmitted],
		UnderReview: counts[models.ApplicationStatusUnderReview],
		Approved:    counts[models.ApplicationStatusApproved],
		Rejected:    counts[models.ApplicationStatusRejected],
		Modified:    counts[models.ApplicationStatusModified],
		Closed:      counts[models.ApplicationStatusClosed],
	}, nil
}

// OverdueAging buckets overdue installments by days late.
func (s *PortfolioService) OverdueAging(ctx context.Context) ([]models.OverdueAgingBucket, error) {
	return s.repo.OverdueAging(ctx)
}

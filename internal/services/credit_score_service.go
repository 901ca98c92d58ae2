package services

import (
	"context"
	"fmt"

	"github.com/PGohila/LMS/internal/models"
	"github.com/PGohila/LMS/internal/repository"
	"github.com/PGohila/LMS/pkg/logger"
)

// CreditScoreService scores borrowers from their repayment behavior
type CreditScoreService struct {
	customerRepo repository.CustomerRepository
	appRepo      repository.ApplicationRepository
	scheduleRepo repository.ScheduleRepository
}

func NewCreditScoreService(customerRepo repository.CustomerRepository, appRepo repository.ApplicationRepository, scheduleRepo repository.ScheduleRepository) *CreditScoreService {
	return &CreditScoreService{
		customerRepo: customerRepo,
		appRepo:      appRepo,
		scheduleRepo: scheduleRepo,
	}
}

// UpdateScore recalculates and stores the credit score for one customer
func (s *CreditScoreService) UpdateScore(ctx context.Context, customerID uint) error {
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return fmt.Errorf("failed to find customer: %w", err)
	}

	score := s.calculateCreditScore(ctx, customerID)

	if err := s.customerRepo.UpdateCreditScore(ctx, customerID, score); err != nil {
		return fmt.Errorf("failed to update credit score: %w", err)
	}

	logger.Info(fmt.Sprintf("[CreditScoreService] Updated credit score for customer %d: %d", customerID, score))
	return nil
}

// UpdateAllScores recalculates scores for every customer, in batches
func (s *CreditScoreService) UpdateAllScores(ctx context.Context) error {
	logger.Info("[CreditScoreService] Updating all customer credit scores...")

	page := 1
	pageSize := 100
	totalProcessed := 0

	for {
		query := repository.NewListQuery()
		query.Page = page
		query.PerPage = pageSize

		customers, total, err := s.customerRepo.List(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to fetch customers page %d: %w", page, err)
		}

		if len(customers) == 0 {
			break
		}

		for _, customer := range customers {
			if err := s.UpdateScore(ctx, customer.ID); err != nil {
				logger.Error(fmt.Sprintf("[CreditScoreService] Error updating score for customer %d: %v", customer.ID, err))
				continue
			}
			totalProcessed++
		}

		if int64(totalProcessed) >= total || len(customers) < pageSize {
			break
		}

		page++
	}

	logger.Info(fmt.Sprintf("[CreditScoreService] Updated credit scores for %d customers", totalProcessed))
	return nil
}

// calculateCreditScore derives a score from installment payment history
func (s *CreditScoreService) calculateCreditScore(ctx context.Context, customerID uint) int {
	baseScore := 500

	applications, err := s.appRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return baseScore
	}

	for _, app := range applications {
		schedules, err := s.scheduleRepo.FindByApplication(ctx, app.ID)
		if err != nil {
			continue
		}

		for _, sched := range schedules {
			if sched.Status == models.ScheduleStatusPaid && sched.PaidAt != nil {
				daysLate := int(sched.PaidAt.Sub(sched.DueDate).Hours() / 24)

				if daysLate <= 0 {
					// On-time payment: +5 points
					baseScore += 5
				} else if daysLate <= 7 {
					// 1-7 days late: -2 points
					baseScore -= 2
				} else if daysLate <= 30 {
					// 8-30 days late: -5 points
					baseScore -= 5
				} else {
					// 30+ days late: -10 points
					baseScore -= 10
				}
			} else if sched.IsOverdue() {
				baseScore -= 10
			}
		}

		// Rejected applications weigh lightly against the score
		if app.Status == models.ApplicationStatusRejected {
			baseScore -= 5
		}

		// Bonus for loans repaid to the end
		if app.Status == models.ApplicationStatusClosed {
			baseScore += 50
		}
	}

	if baseScore < 300 {
		baseScore = 300
	}
	if baseScore > 850 {
		baseScore = 850
	}

	return baseScore
}

package services

import (
	"context"

	"github.com/PGohila/LMS/internal/models"
	"github.com/PGohila/LMS/internal/repository"
)

// AccountService exposes read access to loan accounts and their ledgers.
// Mutations go through RepaymentService and SettlementService.
type AccountService struct {
	repo repository.LoanAccountRepository
}

func NewAccountService(repo repository.LoanAccountRepository) *AccountService {
	return &AccountService{repo: repo}
}

func (s *AccountService) FindByID(ctx context.Context, id uint) (*models.LoanAccount, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AccountService) FindByApplication(ctx context.Context, applicationID uint) (*models.LoanAccount, error) {
	return s.repo.FindByApplication(ctx, applicationID)
}

func (s *AccountService) List(ctx context.Context, query *repository.ListQuery) ([]models.LoanAccount, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *AccountService) Transactions(ctx context.Context, accountID uint) ([]models.Transaction, error) {
	return s.repo.FindTransactions(ctx, accountID)
}

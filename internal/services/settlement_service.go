package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/PGohila/LMS/internal/jobs"
	"github.com/PGohila/LMS/internal/models"
	"github.com/PGohila/LMS/internal/repository"
	"github.com/PGohila/LMS/internal/statemachine"
)

// SettlementService manages early-payoff offers. Completing an accepted offer
// cancels the remaining installments and closes the account.
type SettlementService struct {
	repo            repository.SettlementRepository
	accountRepo     repository.LoanAccountRepository
	scheduleRepo    repository.ScheduleRepository
	appRepo         repository.ApplicationRepository
	notificationSvc *NotificationService
	auditSvc        *AuditService
	worker          *jobs.Worker
}

func NewSettlementService(
	repo repository.SettlementRepository,
	accountRepo repository.LoanAccountRepository,
	scheduleRepo repository.ScheduleRepository,
	appRepo repository.ApplicationRepository,
	notificationSvc *NotificationService,
	auditSvc *AuditService,
	worker *jobs.Worker,
) *SettlementService {
	return &SettlementService{
		repo:            repo,
		accountRepo:     accountRepo,
		scheduleRepo:    scheduleRepo,
		appRepo:         appRepo,
		notificationSvc: notificationSvc,
		auditSvc:        auditSvc,
		worker:          worker,
	}
}

func (s *SettlementService) FindByID(ctx context.Context, id uint) (*models.Settlement, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *SettlementService) FindByAccount(ctx context.Context, accountID uint) ([]models.Settlement, error) {
	return s.repo.FindByAccount(ctx, accountID)
}

func (s *SettlementService) List(ctx context.Context, query *repository.ListQuery) ([]models.Settlement, int64, error) {
	return s.repo.List(ctx, query)
}

// Propose creates a settlement offer: the full outstanding due across the
// remaining installments minus a negotiated discount.
func (s *SettlementService) Propose(ctx context.Context, accountID uint, discount decimal.Decimal, reason *string, actorID uint) (*models.Settlement, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.MaySettle() {
		return nil, fmt.Errorf("account %s is %s and cannot be settled: %w", account.AccountNumber, account.Status, ErrInvalidState)
	}
	if discount.IsNegative() {
		return nil, fmt.Errorf("discount cannot be negative")
	}

	outstanding, err := s.outstandingDue(ctx, account.ApplicationID)
	if err != nil {
		return nil, err
	}
	if discount.GreaterThanOrEqual(outstanding) {
		return nil, fmt.Errorf("discount %s exceeds the outstanding due %s",
			discount.StringFixed(2), outstanding.StringFixed(2))
	}

	settlement := &models.Settlement{
		LoanAccountID:  account.ID,
		OutstandingDue: outstanding,
		DiscountAmount: discount,
		OfferedAmount:  outstanding.Sub(discount),
		Reason:         reason,
		Status:         models.SettlementStatusProposed,
		ProposedBy:     &actorID,
	}
	if err := s.repo.Create(ctx, settlement); err != nil {
		return nil, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyAdmins(ctx,
			"Settlement proposed",
			fmt.Sprintf("Account %s: settle %s for %s", account.AccountNumber,
				outstanding.StringFixed(2), settlement.OfferedAmount.StringFixed(2)),
			models.NotificationTypeSettlementProposed)
	})

	s.auditSvc.Log(ctx, actorID, "PROPOSE", "Settlement", settlement.ID,
		fmt.Sprintf("Settlement proposed on account %s: %s due, %s offered",
			account.AccountNumber, outstanding.StringFixed(2), settlement.OfferedAmount.StringFixed(2)), "", "")

	return settlement, nil
}

// Accept moves a proposed offer to accepted.
func (s *SettlementService) Accept(ctx context.Context, id uint, actorID uint) (*models.Settlement, error) {
	settlement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewSettlementFSM(settlement)
	if err := fsm.Accept(ctx); err != nil {
		return nil, err
	}

	now := time.Now()
	settlement.DecidedBy = &actorID
	settlement.DecidedAt = &now
	if err := s.repo.Update(ctx, settlement); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "ACCEPT", "Settlement", settlement.ID, "Settlement accepted", "", "")
	return settlement, nil
}

// Reject declines a proposed offer.
func (s *SettlementService) Reject(ctx context.Context, id uint, actorID uint) (*models.Settlement, error) {
	settlement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewSettlementFSM(settlement)
	if err := fsm.Reject(ctx); err != nil {
		return nil, err
	}

	now := time.Now()
	settlement.DecidedBy = &actorID
	settlement.DecidedAt = &now
	if err := s.repo.Update(ctx, settlement); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "REJECT", "Settlement", settlement.ID, "Settlement rejected", "", "")
	return settlement, nil
}

// Complete records receipt of the offered amount, cancels the remaining
// installments and closes the account.
func (s *SettlementService) Complete(ctx context.Context, id uint, actorID uint) (*models.Settlement, error) {
	settlement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewSettlementFSM(settlement)
	if err := fsm.Complete(ctx); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindByID(ctx, settlement.LoanAccountID)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	pending, err := s.scheduleRepo.FindPendingByApplication(ctx, account.ApplicationID)
	if err != nil {
		return nil, err
	}
	for i := range pending {
		pending[i].Status = models.ScheduleStatusCancelled
		if err := s.scheduleRepo.Update(ctx, &pending[i]); err != nil {
			return nil, err
		}
	}

	txn := &models.Transaction{
		LoanAccountID: account.ID,
		Type:          models.TransactionSettlement,
		Amount:        settlement.OfferedAmount,
		Reference:     newTransactionReference(),
		RecordedBy:    &actorID,
	}
	if err := s.accountRepo.CreateTransaction(ctx, txn); err != nil {
		return nil, err
	}

	account.Status = models.AccountStatusSettled
	account.OutstandingPrincipal = decimal.Zero
	account.AccruedPenalty = decimal.Zero
	account.ClosedAt = &now
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	if err := s.appRepo.UpdateStatus(ctx, account.ApplicationID, models.ApplicationStatusClosed); err != nil {
		return nil, err
	}

	settlement.CompletedAt = &now
	if err := s.repo.Update(ctx, settlement); err != nil {
		return nil, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyAdmins(ctx,
			"Account settled",
			fmt.Sprintf("Account %s settled for %s and closed", account.AccountNumber, settlement.OfferedAmount.StringFixed(2)),
			models.NotificationTypeAccountClosed)
	})

	s.auditSvc.Log(ctx, actorID, "COMPLETE", "Settlement", settlement.ID,
		fmt.Sprintf("Settlement completed on account %s: %d installments cancelled",
			account.AccountNumber, len(pending)), "", "")

	return settlement, nil
}

// outstandingDue sums what is still owed on every open installment.
func (s *SettlementService) outstandingDue(ctx context.Context, applicationID uint) (decimal.Decimal, error) {
	pending, err := s.scheduleRepo.FindPendingByApplication(ctx, applicationID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, row := range pending {
		total = total.Add(row.Outstanding())
	}
	return total, nil
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/PGohila/LMS/internal/jobs"
	"github.com/PGohila/LMS/internal/models"
	"github.com/PGohila/LMS/internal/repository"
	"github.com/PGohila/LMS/pkg/logger"
)

// PastDueService runs the overdue scan: it detects installments past their
// due date, accrues penalties per the active policy, flags the accounts and
// sends reminders for installments coming due. The scan is idempotent per
// day; rerunning it never double-charges.
type PastDueService struct {
	repo            repository.PastDueRepository
	scheduleRepo    repository.ScheduleRepository
	accountRepo     repository.LoanAccountRepository
	customerRepo    repository.CustomerRepository
	notificationSvc *NotificationService
	emailSvc        *EmailService
	auditSvc        *AuditService
	worker          *jobs.Worker
}

func NewPastDueService(
	repo repository.PastDueRepository,
	scheduleRepo repository.ScheduleRepository,
	accountRepo repository.LoanAccountRepository,
	customerRepo repository.CustomerRepository,
	notificationSvc *NotificationService,
	emailSvc *EmailService,
	auditSvc *AuditService,
	worker *jobs.Worker,
) *PastDueService {
	return &PastDueService{
		repo:            repo,
		scheduleRepo:    scheduleRepo,
		accountRepo:     accountRepo,
		customerRepo:    customerRepo,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		auditSvc:        auditSvc,
		worker:          worker,
	}
}

// ScanResult summarizes one past-due scan run.
type ScanResult struct {
	OverdueInstallments int `json:"overdue_installments"`
	PenaltiesAccrued    int `json:"penalties_accrued"`
	AccountsFlagged     int `json:"accounts_flagged"`
}

// Scan walks every overdue installment, refreshes its past-due record,
// accrues the day's penalty and flags the owning account.
func (s *PastDueService) Scan(ctx context.Context) (*ScanResult, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	cfg, err := s.repo.ActiveConfig(ctx)
	if err != nil {
		// No active policy means no penalties, but overdue detection still runs.
		cfg = nil
	}

	overdue, err := s.scheduleRepo.FindOverdue(ctx, today)
	if err != nil {
		return nil, err
	}

	result := &ScanResult{OverdueInstallments: len(overdue)}
	accounts := make(map[uint]*models.LoanAccount)

	for i := range overdue {
		sched := &overdue[i]

		account, ok := accounts[sched.ApplicationID]
		if !ok {
			account, err = s.accountRepo.FindByApplication(ctx, sched.ApplicationID)
			if err != nil {
				logger.Warn(fmt.Sprintf("[PastDue] no account for application %d: %v", sched.ApplicationID, err))
				continue
			}
			accounts[sched.ApplicationID] = account
		}

		daysOverdue := int(today.Sub(sched.DueDate).Hours() / 24)

		record := &models.PastDueRecord{
			LoanAccountID: account.ID,
			ScheduleID:    sched.ID,
			DaysOverdue:   daysOverdue,
			AmountOverdue: sched.Outstanding(),
			DetectedAt:    now,
		}
		if err := s.repo.Upsert(ctx, record); err != nil {
			return nil, err
		}

		if cfg != nil && cfg.Active && daysOverdue > cfg.GraceDays {
			charged, err := s.accruePenalty(ctx, cfg, account, sched, today)
			if err != nil {
				return nil, err
			}
			if charged {
				result.PenaltiesAccrued++
			}
		}
	}

	// Flag every touched account that is not already past due.
	for _, account := range accounts {
		if account.Status == models.AccountStatusActive {
			account.Status = models.AccountStatusPastDue
			if err := s.accountRepo.Update(ctx, account); err != nil {
				return nil, err
			}
			result.AccountsFlagged++
		}
	}

	if result.OverdueInstallments > 0 {
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			return s.notificationSvc.NotifyAdmins(ctx,
				"Past-due scan",
				fmt.Sprintf("%d overdue installments, %d penalties accrued, %d accounts flagged",
					result.OverdueInstallments, result.PenaltiesAccrued, result.AccountsFlagged),
				models.NotificationTypeInstallmentOverdue)
		})
	}

	return result, nil
}

// accruePenalty charges one day's penalty on the installment unless today's
// charge already exists.
func (s *PastDueService) accruePenalty(ctx context.Context, cfg *models.PenaltyConfig, account *models.LoanAccount, sched *models.RepaymentSchedule, today time.Time) (bool, error) {
	exists, err := s.repo.HasAccrualOn(ctx, sched.ID, today)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	penalty := cfg.PenaltyFor(sched.Outstanding())
	if penalty.LessThanOrEqual(decimal.Zero) {
		return false, nil
	}

	sched.PenaltyAmount = sched.PenaltyAmount.Add(penalty)
	if err := s.scheduleRepo.Update(ctx, sched); err != nil {
		return false, err
	}

	accrual := &models.PenaltyAccrual{
		LoanAccountID: account.ID,
		ScheduleID:    sched.ID,
		Amount:        penalty,
		Basis:         cfg.Basis,
		AccruedOn:     today,
	}
	if err := s.repo.CreateAccrual(ctx, accrual); err != nil {
		return false, err
	}

	account.AccruedPenalty = account.AccruedPenalty.Add(penalty)

	txn := &models.Transaction{
		LoanAccountID: account.ID,
		ScheduleID:    &sched.ID,
		Type:          models.TransactionPenaltyAccrual,
		Amount:        penalty,
		Reference:     newTransactionReference(),
	}
	if err := s.accountRepo.CreateTransaction(ctx, txn); err != nil {
		return false, err
	}

	return true, nil
}

// SendReminders emails customers whose installments fall due within the given
// window and have not been reminded yet.
func (s *PastDueService) SendReminders(ctx context.Context, window time.Duration) (int, error) {
	now := time.Now()
	due, err := s.scheduleRepo.FindDueBetween(ctx, now, now.Add(window))
	if err != nil {
		return 0, err
	}

	sent := 0
	var remindedIDs []uint
	for i := range due {
		sched := &due[i]

		account, err := s.accountRepo.FindByApplication(ctx, sched.ApplicationID)
		if err != nil {
			continue
		}
		customer, err := s.customerRepo.FindByID(ctx, account.CustomerID)
		if err != nil || customer.Email == "" {
			continue
		}

		accountNumber := account.AccountNumber
		amount := sched.Outstanding().StringFixed(2)
		dueDate := sched.DueDate.Format("2006-01-02")
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			return s.emailSvc.SendInstallmentReminder(ctx, customer, accountNumber, amount, dueDate)
		})

		remindedIDs = append(remindedIDs, sched.ID)
		sent++
	}

	if err := s.scheduleRepo.MarkReminderSent(ctx, remindedIDs, now); err != nil {
		return sent, err
	}
	return sent, nil
}

// Records lists past-due records with filters.
func (s *PastDueService) Records(ctx context.Context, query *repository.ListQuery) ([]models.PastDueRecord, int64, error) {
	return s.repo.List(ctx, query)
}

// Config returns the active penalty policy, if any.
func (s *PastDueService) Config(ctx context.Context) (*models.PenaltyConfig, error) {
	return s.repo.ActiveConfig(ctx)
}

// SaveConfig stores a penalty policy and audits the change.
func (s *PastDueService) SaveConfig(ctx context.Context, cfg *models.PenaltyConfig, actorID uint) error {
	if err := s.repo.SaveConfig(ctx, cfg); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "UPDATE", "PenaltyConfig", cfg.ID,
		fmt.Sprintf("Penalty policy saved: basis=%s grace=%d days", cfg.Basis, cfg.GraceDays), "", "")
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PGohila/LMS/internal/jobs"
	"github.com/PGohila/LMS/internal/models"
)

// RepaymentService applies incoming payments against a loan account. It works
// directly on the database so that the whole application of a payment, row
// lock included, runs inside one transaction. Concurrent repayments against
// the same account serialize on the account row.
//
// Allocation order for an incoming amount:
//  1. accrued penalties on due installments, oldest first
//  2. due installments, oldest first, each settled only when the remaining
//     amount covers it in full
//  3. whatever is left is parked on the advance payment balance
type RepaymentService struct {
	db              *gorm.DB
	notificationSvc *NotificationService
	emailSvc        *EmailService
	auditSvc        *AuditService
	worker          *jobs.Worker
}

func NewRepaymentService(db *gorm.DB, notificationSvc *NotificationService, emailSvc *EmailService, auditSvc *AuditService, worker *jobs.Worker) *RepaymentService {
	return &RepaymentService{
		db:              db,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		auditSvc:        auditSvc,
		worker:          worker,
	}
}

// RepaymentResult summarizes how an incoming amount was allocated.
type RepaymentResult struct {
	Account          *models.LoanAccount `json:"-"`
	InstallmentsPaid int                 `json:"installments_paid"`
	PenaltyPaid      decimal.Decimal     `json:"penalty_paid"`
	AmountApplied    decimal.Decimal     `json:"amount_applied"`
	AddedToAdvance   decimal.Decimal     `json:"added_to_advance"`
}

// scheduleAllocation is one slice of an incoming amount applied to a row.
// Penalty is the part of Amount that went to accrued penalties.
type scheduleAllocation struct {
	Schedule *models.RepaymentSchedule
	Type     string
	Amount   decimal.Decimal
	Penalty  decimal.Decimal
}

// allocateRepayment distributes amount across the given rows in place:
// penalties first oldest first, then whole installments oldest first. An
// installment is settled only when the remaining amount covers its full
// outstanding figure. Returns the per-row allocations and the surplus left
// over for the advance balance.
func allocateRepayment(schedules []models.RepaymentSchedule, amount decimal.Decimal, now time.Time) ([]scheduleAllocation, decimal.Decimal) {
	var allocs []scheduleAllocation
	remaining := amount

	for i := range schedules {
		sched := &schedules[i]
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		penaltyOwed := sched.PenaltyOutstanding()
		if penaltyOwed.LessThanOrEqual(decimal.Zero) {
			continue
		}
		pay := decimal.Min(remaining, penaltyOwed)
		sched.PenaltyPaid = sched.PenaltyPaid.Add(pay)
		if sched.Status == models.ScheduleStatusPending {
			sched.Status = models.ScheduleStatusPartial
		}
		allocs = append(allocs, scheduleAllocation{
			Schedule: sched,
			Type:     models.TransactionPenaltyPayment,
			Amount:   pay,
			Penalty:  pay,
		})
		remaining = remaining.Sub(pay)
	}

	for i := range schedules {
		sched := &schedules[i]
		outstanding := sched.Outstanding()
		if outstanding.LessThanOrEqual(decimal.Zero) {
			continue
		}
		if remaining.LessThan(outstanding) {
			break
		}

		basePortion := outstanding.Sub(sched.PenaltyOutstanding())
		sched.PaidAmount = sched.PaidAmount.Add(basePortion)
		sched.PenaltyPaid = sched.PenaltyAmount
		sched.Status = models.ScheduleStatusPaid
		paidAt := now
		sched.PaidAt = &paidAt
		allocs = append(allocs, scheduleAllocation{
			Schedule: sched,
			Type:     models.TransactionRepayment,
			Amount:   outstanding,
		})
		remaining = remaining.Sub(outstanding)
	}

	return allocs, decimal.Max(decimal.Zero, remaining)
}

// allocateAdvance drains an already-received balance into the given rows,
// oldest first. Unlike direct repayments, partial application is allowed:
// every unit of the balance is put to work. Returns the allocations and what
// is left of the balance.
func allocateAdvance(schedules []models.RepaymentSchedule, balance decimal.Decimal, now time.Time) ([]scheduleAllocation, decimal.Decimal) {
	var allocs []scheduleAllocation

	for i := range schedules {
		sched := &schedules[i]
		if balance.LessThanOrEqual(decimal.Zero) {
			break
		}
		outstanding := sched.Outstanding()
		if outstanding.LessThanOrEqual(decimal.Zero) {
			continue
		}

		pay := decimal.Min(balance, outstanding)
		penaltyPortion := decimal.Min(pay, sched.PenaltyOutstanding())
		sched.PenaltyPaid = sched.PenaltyPaid.Add(penaltyPortion)
		sched.PaidAmount = sched.PaidAmount.Add(pay.Sub(penaltyPortion))
		if pay.Equal(outstanding) {
			sched.Status = models.ScheduleStatusPaid
			paidAt := now
			sched.PaidAt = &paidAt
		} else {
			sched.Status = models.ScheduleStatusPartial
		}
		allocs = append(allocs, scheduleAllocation{
			Schedule: sched,
			Type:     models.TransactionAdvanceApplied,
			Amount:   pay,
			Penalty:  penaltyPortion,
		})
		balance = balance.Sub(pay)
	}

	return allocs, balance
}

// ApplyRepayment records an incoming payment and allocates it.
func (s *RepaymentService) ApplyRepayment(ctx context.Context, accountID uint, amount decimal.Decimal, notes *string, actorID uint) (*RepaymentResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("repayment amount must be positive")
	}

	var result *RepaymentResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var account models.LoanAccount
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Customer").
			First(&account, accountID).Error; err != nil {
			return err
		}

		if !account.IsOpen() {
			return fmt.Errorf("account %s is %s and cannot receive repayments: %w",
				account.AccountNumber, account.Status, ErrInvalidState)
		}

		var schedules []models.RepaymentSchedule
		if err := tx.Where("application_id = ? AND status IN ?",
			account.ApplicationID, []string{models.ScheduleStatusPending, models.ScheduleStatusPartial}).
			Where("due_date <= ?", time.Now()).
			Order("due_date ASC, period ASC").
			Find(&schedules).Error; err != nil {
			return err
		}

		now := time.Now()
		allocs, surplus := allocateRepayment(schedules, amount, now)

		penaltyPaid := decimal.Zero
		applied := decimal.Zero
		installmentsPaid := 0

		for _, alloc := range allocs {
			if err := tx.Save(alloc.Schedule).Error; err != nil {
				return err
			}

			txn := &models.Transaction{
				LoanAccountID: account.ID,
				ScheduleID:    &alloc.Schedule.ID,
				Type:          alloc.Type,
				Amount:        alloc.Amount,
				Reference:     newTransactionReference(),
				Notes:         notes,
				RecordedBy:    &actorID,
			}
			if err := tx.Create(txn).Error; err != nil {
				return err
			}

			switch alloc.Type {
			case models.TransactionPenaltyPayment:
				account.AccruedPenalty = decimal.Max(decimal.Zero, account.AccruedPenalty.Sub(alloc.Amount))
				penaltyPaid = penaltyPaid.Add(alloc.Amount)
			case models.TransactionRepayment:
				if err := tx.Model(&models.PastDueRecord{}).
					Where("schedule_id = ? AND resolved_at IS NULL", alloc.Schedule.ID).
					Update("resolved_at", now).Error; err != nil {
					return err
				}
				account.OutstandingPrincipal = decimal.Max(decimal.Zero, account.OutstandingPrincipal.Sub(alloc.Schedule.Principal))
				applied = applied.Add(alloc.Amount)
				installmentsPaid++
			}
		}

		// Remainder goes to the advance balance for later application.
		if surplus.GreaterThan(decimal.Zero) {
			account.AdvancePaymentBalance = account.AdvancePaymentBalance.Add(surplus)
			txn := &models.Transaction{
				LoanAccountID: account.ID,
				Type:          models.TransactionAdvanceDeposit,
				Amount:        surplus,
				Reference:     newTransactionReference(),
				Notes:         notes,
				RecordedBy:    &actorID,
			}
			if err := tx.Create(txn).Error; err != nil {
				return err
			}
		}

		if err := s.refreshAccountStatus(tx, &account, now); err != nil {
			return err
		}

		if err := tx.Save(&account).Error; err != nil {
			return err
		}

		result = &RepaymentResult{
			Account:          &account,
			InstallmentsPaid: installmentsPaid,
			PenaltyPaid:      penaltyPaid,
			AmountApplied:    applied,
			AddedToAdvance:   surplus,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	account := result.Account
	if account.Customer.Email != "" {
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			return s.emailSvc.SendRepaymentReceived(ctx, account,
				amount.StringFixed(2), account.OutstandingPrincipal.StringFixed(2))
		})
	}
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyAdmins(ctx,
			"Repayment received",
			fmt.Sprintf("Account %s received %s", account.AccountNumber, amount.StringFixed(2)),
			models.NotificationTypeRepaymentReceived)
	})

	s.auditSvc.Log(ctx, actorID, "REPAYMENT", "LoanAccount", account.ID,
		fmt.Sprintf("Repayment of %s applied: %d installments settled, %s penalties, %s to advance",
			amount.StringFixed(2), result.InstallmentsPaid, result.PenaltyPaid.StringFixed(2), result.AddedToAdvance.StringFixed(2)), "", "")

	return result, nil
}

// ApplyAdvancePayment drains the account's advance balance into pending
// installments, oldest first.
func (s *RepaymentService) ApplyAdvancePayment(ctx context.Context, accountID uint, actorID uint) (*models.LoanAccount, error) {
	var account *models.LoanAccount
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var acc models.LoanAccount
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&acc, accountID).Error; err != nil {
			return err
		}

		if !acc.IsOpen() {
			return fmt.Errorf("account %s is %s: %w", acc.AccountNumber, acc.Status, ErrInvalidState)
		}
		if acc.AdvancePaymentBalance.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("no advance balance to apply")
		}

		var schedules []models.RepaymentSchedule
		if err := tx.Where("application_id = ? AND status IN ?",
			acc.ApplicationID, []string{models.ScheduleStatusPending, models.ScheduleStatusPartial}).
			Order("due_date ASC, period ASC").
			Find(&schedules).Error; err != nil {
			return err
		}

		now := time.Now()
		allocs, left := allocateAdvance(schedules, acc.AdvancePaymentBalance, now)
		acc.AdvancePaymentBalance = left

		for _, alloc := range allocs {
			if err := tx.Save(alloc.Schedule).Error; err != nil {
				return err
			}

			if alloc.Penalty.GreaterThan(decimal.Zero) {
				acc.AccruedPenalty = decimal.Max(decimal.Zero, acc.AccruedPenalty.Sub(alloc.Penalty))
			}
			if alloc.Schedule.Status == models.ScheduleStatusPaid {
				acc.OutstandingPrincipal = decimal.Max(decimal.Zero, acc.OutstandingPrincipal.Sub(alloc.Schedule.Principal))
				if err := tx.Model(&models.PastDueRecord{}).
					Where("schedule_id = ? AND resolved_at IS NULL", alloc.Schedule.ID).
					Update("resolved_at", now).Error; err != nil {
					return err
				}
			}

			txn := &models.Transaction{
				LoanAccountID: acc.ID,
				ScheduleID:    &alloc.Schedule.ID,
				Type:          alloc.Type,
				Amount:        alloc.Amount,
				Reference:     newTransactionReference(),
				RecordedBy:    &actorID,
			}
			if err := tx.Create(txn).Error; err != nil {
				return err
			}
		}

		if err := s.refreshAccountStatus(tx, &acc, now); err != nil {
			return err
		}
		if err := tx.Save(&acc).Error; err != nil {
			return err
		}

		account = &acc
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "APPLY_ADVANCE", "LoanAccount", account.ID,
		fmt.Sprintf("Advance balance applied, remaining advance: %s", account.AdvancePaymentBalance.StringFixed(2)), "", "")

	return account, nil
}

// refreshAccountStatus recomputes the account status from what is left to
// pay. All installments settled closes the account; otherwise past_due or
// active depending on whether anything overdue remains.
func (s *RepaymentService) refreshAccountStatus(tx *gorm.DB, account *models.LoanAccount, now time.Time) error {
	var open int64
	if err := tx.Model(&models.RepaymentSchedule{}).
		Where("application_id = ? AND status IN ?",
			account.ApplicationID, []string{models.ScheduleStatusPending, models.ScheduleStatusPartial}).
		Count(&open).Error; err != nil {
		return err
	}

	if open == 0 {
		account.Status = models.AccountStatusClosed
		account.ClosedAt = &now
		account.OutstandingPrincipal = decimal.Zero
		return tx.Model(&models.LoanApplication{}).
			Where("id = ?", account.ApplicationID).
			Update("status", models.ApplicationStatusClosed).Error
	}

	var overdue int64
	if err := tx.Model(&models.RepaymentSchedule{}).
		Where("application_id = ? AND status IN ? AND due_date < ?",
			account.ApplicationID, []string{models.ScheduleStatusPending, models.ScheduleStatusPartial}, now).
		Count(&overdue).Error; err != nil {
		return err
	}

	if overdue > 0 {
		account.Status = models.AccountStatusPastDue
	} else {
		account.Status = models.AccountStatusActive
	}
	return nil
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/PGohila/LMS/internal/amortization"
	"github.com/PGohila/LMS/internal/models"
	"github.com/PGohila/LMS/internal/repository"
	"github.com/PGohila/LMS/internal/statemachine"
)

// ModificationService restructures approved loans. A modification is
// requested, approved, and then applied: application replaces the pending
// future installments with a schedule recalculated from today against the
// remaining principal, adjusted by the requested delta.
type ModificationService struct {
	repo         repository.ModificationRepository
	appRepo      repository.ApplicationRepository
	scheduleRepo repository.ScheduleRepository
	accountRepo  repository.LoanAccountRepository
	engine       *amortization.Engine
	auditSvc     *AuditService
}

func NewModificationService(
	repo repository.ModificationRepository,
	appRepo repository.ApplicationRepository,
	scheduleRepo repository.ScheduleRepository,
	accountRepo repository.LoanAccountRepository,
	engine *amortization.Engine,
	auditSvc *AuditService,
) *ModificationService {
	return &ModificationService{
		repo:         repo,
		appRepo:      appRepo,
		scheduleRepo: scheduleRepo,
		accountRepo:  accountRepo,
		engine:       engine,
		auditSvc:     auditSvc,
	}
}

func (s *ModificationService) FindByID(ctx context.Context, id uint) (*models.LoanModification, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ModificationService) FindByApplication(ctx context.Context, applicationID uint) ([]models.LoanModification, error) {
	return s.repo.FindByApplication(ctx, applicationID)
}

func (s *ModificationService) List(ctx context.Context, query *repository.ListQuery) ([]models.LoanModification, int64, error) {
	return s.repo.List(ctx, query)
}

// Request records a modification proposal against an approved application.
func (s *ModificationService) Request(ctx context.Context, applicationID uint, newRate, newTermCount, principalDelta decimal.Decimal, reason *string, actorID uint) (*models.LoanModification, error) {
	app, err := s.appRepo.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !app.MayModify() {
		return nil, fmt.Errorf("application %d is %s and cannot be modified: %w", app.ID, app.Status, ErrInvalidState)
	}

	remaining, err := s.remainingPrincipal(ctx, applicationID, time.Now().Truncate(24*time.Hour))
	if err != nil {
		return nil, err
	}

	newRemaining := remaining.Add(principalDelta)
	if newRemaining.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("principal delta %s would leave nothing to amortize", principalDelta.StringFixed(2))
	}

	mod := &models.LoanModification{
		ApplicationID:      applicationID,
		OldInterestRate:    app.InterestRate,
		NewInterestRate:    newRate,
		OldTermCount:       app.TermCount,
		NewTermCount:       newTermCount,
		PrincipalDelta:     principalDelta,
		RemainingPrincipal: newRemaining,
		Reason:             reason,
		Status:             models.ModificationStatusRequested,
		RequestedBy:        &actorID,
	}
	if err := s.repo.Create(ctx, mod); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "REQUEST", "LoanModification", mod.ID,
		fmt.Sprintf("Modification requested on application %d: rate %s -> %s, term %s -> %s, delta %s",
			applicationID, app.InterestRate.StringFixed(2), newRate.StringFixed(2),
			app.TermCount.String(), newTermCount.String(), principalDelta.StringFixed(2)), "", "")

	return mod, nil
}

// Approve accepts a requested modification. It does not touch the schedule
// yet; Apply does.
func (s *ModificationService) Approve(ctx context.Context, id uint, actorID uint) (*models.LoanModification, error) {
	mod, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !mod.MayApprove() {
		return nil, fmt.Errorf("modification %d is %s: %w", mod.ID, mod.Status, ErrInvalidState)
	}

	now := time.Now()
	mod.Status = models.ModificationStatusApproved
	mod.DecidedBy = &actorID
	mod.DecidedAt = &now
	if err := s.repo.Update(ctx, mod); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "APPROVE", "LoanModification", mod.ID, "Modification approved", "", "")
	return mod, nil
}

// Reject declines a requested modification.
func (s *ModificationService) Reject(ctx context.Context, id uint, actorID uint) (*models.LoanModification, error) {
	mod, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !mod.MayReject() {
		return nil, fmt.Errorf("modification %d is %s: %w", mod.ID, mod.Status, ErrInvalidState)
	}

	now := time.Now()
	mod.Status = models.ModificationStatusRejected
	mod.DecidedBy = &actorID
	mod.DecidedAt = &now
	if err := s.repo.Update(ctx, mod); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "REJECT", "LoanModification", mod.ID, "Modification rejected", "", "")
	return mod, nil
}

// Apply executes an approved modification: paid installments stay untouched,
// unpaid future rows are dropped and regenerated from today with the new
// terms, and the application record takes over the new rate and term.
func (s *ModificationService) Apply(ctx context.Context, id uint, actorID uint) (*models.LoanModification, error) {
	mod, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !mod.MayApply() {
		return nil, fmt.Errorf("modification %d is %s: %w", mod.ID, mod.Status, ErrInvalidState)
	}

	app, err := s.appRepo.FindByID(ctx, mod.ApplicationID)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewApplicationFSM(app)
	if err := fsm.Modify(ctx); err != nil {
		return nil, err
	}

	// Recompute what is actually left now; the figure stored at request time
	// may be stale if repayments arrived in between. Only rows due from today
	// are absorbed, and they are the same rows deleted below.
	today := time.Now().Truncate(24 * time.Hour)
	remaining, err := s.remainingPrincipal(ctx, app.ID, today)
	if err != nil {
		return nil, err
	}
	remaining = remaining.Add(mod.PrincipalDelta)
	if remaining.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("nothing left to amortize after delta")
	}
	mod.RemainingPrincipal = remaining

	app.InterestRate = mod.NewInterestRate
	app.TermCount = mod.NewTermCount

	plan, err := s.engine.Calculate(app.Terms(remaining, today))
	if err != nil {
		return nil, fmt.Errorf("failed to recalculate schedule: %w", err)
	}

	if err := s.scheduleRepo.DeletePendingFrom(ctx, app.ID, today); err != nil {
		return nil, err
	}

	rows := make([]models.RepaymentSchedule, 0, len(plan.Entries))
	for _, entry := range plan.Entries {
		rows = append(rows, models.RepaymentSchedule{
			ApplicationID: app.ID,
			Period:        entry.Period,
			Principal:     entry.Principal,
			Interest:      entry.Interest,
			TotalAmount:   entry.Installment,
			DueDate:       entry.DueDate,
			Status:        models.ScheduleStatusPending,
		})
	}
	if err := s.scheduleRepo.CreateBatch(ctx, rows); err != nil {
		return nil, err
	}

	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}

	// A principal top-up or reduction moves the account balance too.
	if !mod.PrincipalDelta.IsZero() {
		account, err := s.accountRepo.FindByApplication(ctx, app.ID)
		if err != nil {
			return nil, err
		}
		account.OutstandingPrincipal = decimal.Max(decimal.Zero, account.OutstandingPrincipal.Add(mod.PrincipalDelta))
		if mod.PrincipalDelta.GreaterThan(decimal.Zero) {
			account.PrincipalDisbursed = account.PrincipalDisbursed.Add(mod.PrincipalDelta)
			txn := &models.Transaction{
				LoanAccountID: account.ID,
				Type:          models.TransactionDisbursement,
				Amount:        mod.PrincipalDelta,
				Reference:     newTransactionReference(),
				RecordedBy:    &actorID,
			}
			if err := s.accountRepo.CreateTransaction(ctx, txn); err != nil {
				return nil, err
			}
		}
		if err := s.accountRepo.Update(ctx, account); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	mod.Status = models.ModificationStatusApplied
	mod.AppliedAt = &now
	if err := s.repo.Update(ctx, mod); err != nil {
		return nil, err
	}

	history := app.Snapshot(models.HistoryActionModified, &actorID, mod.Reason)
	if err := s.appRepo.AddHistory(ctx, &history); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "APPLY", "LoanModification", mod.ID,
		fmt.Sprintf("Modification applied on application %d: %d new installments against %s",
			app.ID, len(rows), remaining.StringFixed(2)), "", "")

	return mod, nil
}

// remainingPrincipal sums the unpaid principal of the unsettled installments
// due on or after the given date. Overdue rows stay in the table and stay
// owed, so they must not be folded into a recalculation; for partial rows
// only the principal portion not yet covered counts.
func (s *ModificationService) remainingPrincipal(ctx context.Context, applicationID uint, from time.Time) (decimal.Decimal, error) {
	pending, err := s.scheduleRepo.FindPendingByApplication(ctx, applicationID)
	if err != nil {
		return decimal.Zero, err
	}
	remaining := decimal.Zero
	for _, row := range pending {
		if row.DueDate.Before(from) {
			continue
		}
		remaining = remaining.Add(row.UnpaidPrincipal())
	}
	return remaining, nil
}

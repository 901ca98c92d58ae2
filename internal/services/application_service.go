package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PGohila/LMS/internal/amortization"
	"github.com/PGohila/LMS/internal/jobs"
	"github.com/PGohila/LMS/internal/models"
	"github.com/PGohila/LMS/internal/repository"
	"github.com/PGohila/LMS/internal/statemachine"
)

// ApplicationService drives the loan application lifecycle. Approval is the
// pivotal operation: it resolves the repayment start date, runs the
// amortization engine, persists the schedule, and opens the loan account.
type ApplicationService struct {
	repo            repository.ApplicationRepository
	customerRepo    repository.CustomerRepository
	scheduleRepo    repository.ScheduleRepository
	accountRepo     repository.LoanAccountRepository
	engine          *amortization.Engine
	notificationSvc *NotificationService
	emailSvc        *EmailService
	auditSvc        *AuditService
	worker          *jobs.Worker
}

func NewApplicationService(
	repo repository.ApplicationRepository,
	customerRepo repository.CustomerRepository,
	scheduleRepo repository.ScheduleRepository,
	accountRepo repository.LoanAccountRepository,
	engine *amortization.Engine,
	notificationSvc *NotificationService,
	emailSvc *EmailService,
	auditSvc *AuditService,
	worker *jobs.Worker,
) *ApplicationService {
	return &ApplicationService{
		repo:            repo,
		customerRepo:    customerRepo,
		scheduleRepo:    scheduleRepo,
		accountRepo:     accountRepo,
		engine:          engine,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		auditSvc:        auditSvc,
		worker:          worker,
	}
}

func (s *ApplicationService) FindByID(ctx context.Context, id uint) (*models.LoanApplication, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ApplicationService) List(ctx context.Context, query *repository.ListQuery) ([]models.LoanApplication, int64, error) {
	return s.repo.List(ctx, query)
}

// Create stores a new draft application after validating its terms against
// the engine, so impossible term combinations are rejected up front.
func (s *ApplicationService) Create(ctx context.Context, app *models.LoanApplication, actorID uint) error {
	if _, err := s.engine.Calculate(app.Terms(app.Amount, time.Now())); err != nil {
		return fmt.Errorf("invalid loan terms: %w", err)
	}

	if _, err := s.customerRepo.FindByID(ctx, app.CustomerID); err != nil {
		return fmt.Errorf("customer not found: %w", err)
	}

	if err := s.repo.Create(ctx, app); err != nil {
		return err
	}

	history := app.Snapshot(models.HistoryActionCreated, &actorID, nil)
	if err := s.repo.AddHistory(ctx, &history); err != nil {
		return err
	}

	return s.auditSvc.Log(ctx, actorID, "CREATE", "LoanApplication", app.ID,
		fmt.Sprintf("Application created for customer %d, amount %s", app.CustomerID, app.Amount.StringFixed(2)), "", "")
}

// Update changes the terms of a draft application.
func (s *ApplicationService) Update(ctx context.Context, app *models.LoanApplication, actorID uint) error {
	if app.Status != models.ApplicationStatusDraft {
		return fmt.Errorf("only draft applications can be edited: %w", ErrInvalidState)
	}

	if _, err := s.engine.Calculate(app.Terms(app.Amount, time.Now())); err != nil {
		return fmt.Errorf("invalid loan terms: %w", err)
	}

	if err := s.repo.Update(ctx, app); err != nil {
		return err
	}

	return s.auditSvc.Log(ctx, actorID, "UPDATE", "LoanApplication", app.ID, "Application terms updated", "", "")
}

// Submit moves a draft application into the review queue.
func (s *ApplicationService) Submit(ctx context.Context, id uint, actorID uint) (*models.LoanApplication, error) {
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewApplicationFSM(app)
	if err := fsm.Submit(ctx); err != nil {
		return nil, err
	}

	now := time.Now()
	app.SubmittedAt = &now
	if err := s.repo.Update(ctx, app); err != nil {
		return nil, err
	}

	history := app.Snapshot(models.HistoryActionSubmitted, &actorID, nil)
	if err := s.repo.AddHistory(ctx, &history); err != nil {
		return nil, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyAdmins(ctx,
			"Application submitted",
			fmt.Sprintf("Application #%d (%s) is awaiting review", app.ID, app.Customer.FullName),
			models.NotificationTypeApplicationSubmitted)
	})
	if app.Customer.Email != "" {
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			return s.emailSvc.SendApplicationSubmitted(ctx, app)
		})
	}

	s.auditSvc.Log(ctx, actorID, "SUBMIT", "LoanApplication", app.ID, "Application submitted for review", "", "")
	return app, nil
}

// Review marks a submitted application as under review.
func (s *ApplicationService) Review(ctx context.Context, id uint, actorID uint) (*models.LoanApplication, error) {
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewApplicationFSM(app)
	if err := fsm.Review(ctx); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, app); err != nil {
		return nil, err
	}

	history := app.Snapshot(models.HistoryActionReviewed, &actorID, nil)
	if err := s.repo.AddHistory(ctx, &history); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "REVIEW", "LoanApplication", app.ID, "Application moved under review", "", "")
	return app, nil
}

// Approve transitions the application, generates its repayment schedule and
// opens the loan account with the principal recorded as disbursed.
func (s *ApplicationService) Approve(ctx context.Context, id uint, actorID uint, notes *string) (*models.LoanApplication, error) {
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewApplicationFSM(app)
	if err := fsm.Approve(ctx); err != nil {
		return nil, err
	}

	startDate, err := amortization.RepaymentStartDate(app.ExpiryDate, app.GracePeriodCount, amortization.TenureUnit(app.GracePeriodUnit))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve repayment start date: %w", err)
	}

	plan, err := s.engine.Calculate(app.Terms(app.Amount, startDate))
	if err != nil {
		return nil, fmt.Errorf("failed to generate schedule: %w", err)
	}

	now := time.Now()
	app.ApprovedAt = &now
	app.ApprovedByUserID = &actorID
	app.RepaymentStartDate = &startDate
	if err := s.repo.Update(ctx, app); err != nil {
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
		return nil, fmt.Errorf("failed to persist schedule: %w", err)
	}

	account := &models.LoanAccount{
		ApplicationID:        app.ID,
		CustomerID:           app.CustomerID,
		AccountNumber:        newAccountNumber(),
		PrincipalDisbursed:   app.Amount,
		OutstandingPrincipal: app.Amount,
		Status:               models.AccountStatusActive,
		DisbursedAt:          &now,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to open loan account: %w", err)
	}

	disbursement := &models.Transaction{
		LoanAccountID: account.ID,
		Type:          models.TransactionDisbursement,
		Amount:        app.Amount,
		Reference:     newTransactionReference(),
		RecordedBy:    &actorID,
	}
	if err := s.accountRepo.CreateTransaction(ctx, disbursement); err != nil {
		return nil, fmt.Errorf("failed to record disbursement: %w", err)
	}

	history := app.Snapshot(models.HistoryActionApproved, &actorID, notes)
	if err := s.repo.AddHistory(ctx, &history); err != nil {
		return nil, err
	}

	if len(plan.Entries) > 0 && app.Customer.Email != "" {
		first := plan.Entries[0]
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			return s.emailSvc.SendApplicationApproved(ctx, app,
				first.Installment.StringFixed(2), first.DueDate.Format("2006-01-02"))
		})
	}
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyAdmins(ctx,
			"Application approved",
			fmt.Sprintf("Application #%d approved, account %s opened", app.ID, account.AccountNumber),
			models.NotificationTypeApplicationApproved)
	})

	s.auditSvc.Log(ctx, actorID, "APPROVE", "LoanApplication", app.ID,
		fmt.Sprintf("Application approved. Account: %s, principal: %s, %d installments",
			account.AccountNumber, app.Amount.StringFixed(2), len(rows)), "", "")

	return app, nil
}

// Reject declines a submitted or under-review application.
func (s *ApplicationService) Reject(ctx context.Context, id uint, reason string, actorID uint) (*models.LoanApplication, error) {
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewApplicationFSM(app)
	if err := fsm.Reject(ctx); err != nil {
		return nil, err
	}

	app.RejectionReason = &reason
	if err := s.repo.Update(ctx, app); err != nil {
		return nil, err
	}

	history := app.Snapshot(models.HistoryActionRejected, &actorID, &reason)
	if err := s.repo.AddHistory(ctx, &history); err != nil {
		return nil, err
	}

	if app.Customer.Email != "" {
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			return s.emailSvc.SendApplicationRejected(ctx, app, reason)
		})
	}

	s.auditSvc.Log(ctx, actorID, "REJECT", "LoanApplication", app.ID,
		fmt.Sprintf("Application rejected: %s", reason), "", "")
	return app, nil
}

// Preview computes the repayment plan for the application's current terms
// without persisting anything. Draft applications without an expiry date fall
// back to today as the start date.
func (s *ApplicationService) Preview(ctx context.Context, id uint) (*amortization.PlanResponse, error) {
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if app.ExpiryDate != nil && app.GracePeriodCount != nil {
		if resolved, err := amortization.RepaymentStartDate(app.ExpiryDate, app.GracePeriodCount, amortization.TenureUnit(app.GracePeriodUnit)); err == nil {
			start = resolved
		}
	}

	plan, err := s.engine.Calculate(app.Terms(app.Amount, start))
	if err != nil {
		return nil, err
	}
	resp := plan.ToResponse()
	return &resp, nil
}

// Schedules returns the persisted installments for an application.
func (s *ApplicationService) Schedules(ctx context.Context, applicationID uint) ([]models.RepaymentSchedule, error) {
	return s.scheduleRepo.FindByApplication(ctx, applicationID)
}

// History returns the audit trail of application actions.
func (s *ApplicationService) History(ctx context.Context, applicationID uint) ([]models.ApplicationHistory, error) {
	return s.repo.FindHistory(ctx, applicationID)
}

// CountByStatus returns the number of applications per lifecycle status.
func (s *ApplicationService) CountByStatus(ctx context.Context) (map[string]int, error) {
	return s.repo.CountByStatus(ctx)
}

// newAccountNumber builds a human-readable unique loan account number.
func newAccountNumber() string {
	return "LN-" + strings.ToUpper(uuid.New().String()[:8])
}

// newTransactionReference builds a unique reference for a ledger transaction.
func newTransactionReference() string {
	return "TXN-" + strings.ToUpper(uuid.New().String()[:12])
}

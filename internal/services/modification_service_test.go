package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PGohila/LMS/internal/amortization"
	"github.com/PGohila/LMS/internal/models"
	"github.com/PGohila/LMS/internal/repository"
)

type stubModificationRepo struct {
	repository.ModificationRepository
	mod *models.LoanModification
}

func (r *stubModificationRepo) FindByID(ctx context.Context, id uint) (*models.LoanModification, error) {
	return r.mod, nil
}

func (r *stubModificationRepo) Create(ctx context.Context, mod *models.LoanModification) error {
	r.mod = mod
	return nil
}

func (r *stubModificationRepo) Update(ctx context.Context, mod *models.LoanModification) error {
	r.mod = mod
	return nil
}

type stubAppRepo struct {
	repository.ApplicationRepository
	app     *models.LoanApplication
	history []models.ApplicationHistory
	updated bool
}

func (r *stubAppRepo) FindByID(ctx context.Context, id uint) (*models.LoanApplication, error) {
	return r.app, nil
}

func (r *stubAppRepo) Update(ctx context.Context, app *models.LoanApplication) error {
	r.updated = true
	return nil
}

func (r *stubAppRepo) AddHistory(ctx context.Context, entry *models.ApplicationHistory) error {
	r.history = append(r.history, *entry)
	return nil
}

type stubScheduleRepo struct {
	repository.ScheduleRepository
	pending     []models.RepaymentSchedule
	deletedFrom *time.Time
	created     []models.RepaymentSchedule
}

func (r *stubScheduleRepo) FindPendingByApplication(ctx context.Context, applicationID uint) ([]models.RepaymentSchedule, error) {
	return r.pending, nil
}

func (r *stubScheduleRepo) DeletePendingFrom(ctx context.Context, applicationID uint, from time.Time) error {
	r.deletedFrom = &from
	return nil
}

func (r *stubScheduleRepo) CreateBatch(ctx context.Context, rows []models.RepaymentSchedule) error {
	r.created = rows
	return nil
}

func approvedApplication() *models.LoanApplication {
	return &models.LoanApplication{
		ID:                1,
		CustomerID:        7,
		Amount:            decimal.NewFromInt(300),
		InterestRate:      decimal.NewFromInt(12),
		TermCount:         decimal.NewFromInt(3),
		TermUnit:          "months",
		Frequency:         "monthly",
		RepaymentMode:     "principal_and_interest",
		InterestBasis:     "365",
		CalculationMethod: "reducing_balance",
		Status:            models.ApplicationStatusApproved,
	}
}

func scheduleRow(dueInDays int, principal, interest, paid int64) models.RepaymentSchedule {
	p := decimal.NewFromInt(principal)
	i := decimal.NewFromInt(interest)
	row := models.RepaymentSchedule{
		ApplicationID: 1,
		Principal:     p,
		Interest:      i,
		TotalAmount:   p.Add(i),
		PaidAmount:    decimal.NewFromInt(paid),
		DueDate:       time.Now().AddDate(0, 0, dueInDays),
		Status:        models.ScheduleStatusPending,
	}
	if paid > 0 {
		row.Status = models.ScheduleStatusPartial
	}
	return row
}

func TestModificationService_ApplyRecalculatesFutureRowsOnly(t *testing.T) {
	app := approvedApplication()
	mod := &models.LoanModification{
		ID:              1,
		ApplicationID:   1,
		OldInterestRate: app.InterestRate,
		NewInterestRate: decimal.NewFromInt(10),
		OldTermCount:    app.TermCount,
		NewTermCount:    decimal.NewFromInt(2),
		PrincipalDelta:  decimal.Zero,
		Status:          models.ModificationStatusApproved,
	}

	scheduleRepo := &stubScheduleRepo{pending: []models.RepaymentSchedule{
		// Overdue and still owed: must stay in the table and stay out of
		// the recalculation.
		scheduleRow(-10, 100, 10, 0),
		scheduleRow(30, 100, 8, 0),
		// Partial future row: 56 paid covers the 6 interest and 50 of
		// principal, so only 50 of principal is left to absorb.
		scheduleRow(60, 100, 6, 56),
	}}
	appRepo := &stubAppRepo{app: app}
	modRepo := &stubModificationRepo{mod: mod}

	svc := NewModificationService(modRepo, appRepo, scheduleRepo, nil,
		amortization.NewEngine(amortization.DefaultConfig()), nil)

	applied, err := svc.Apply(context.Background(), 1, 9)
	require.NoError(t, err)

	// 100 from the future pending row plus 50 unpaid principal from the
	// partial row. The overdue 100 is excluded, otherwise it would be owed
	// twice: once on its own row and once inside the new schedule.
	assert.True(t, decimal.NewFromInt(150).Equal(applied.RemainingPrincipal),
		"remaining principal was %s", applied.RemainingPrincipal)

	require.Len(t, scheduleRepo.created, 2)
	sum := decimal.Zero
	for _, row := range scheduleRepo.created {
		sum = sum.Add(row.Principal)
	}
	assert.True(t, decimal.NewFromInt(150).Equal(sum), "new rows amortize %s", sum)

	// The delete window matches the rows that were absorbed.
	require.NotNil(t, scheduleRepo.deletedFrom)
	assert.WithinDuration(t, time.Now(), *scheduleRepo.deletedFrom, 24*time.Hour)

	assert.Equal(t, models.ApplicationStatusModified, app.Status)
	assert.True(t, decimal.NewFromInt(10).Equal(app.InterestRate))
	assert.Equal(t, models.ModificationStatusApplied, applied.Status)
	assert.True(t, appRepo.updated)
	require.Len(t, appRepo.history, 1)
	assert.Equal(t, models.HistoryActionModified, appRepo.history[0].Action)
}

func TestModificationService_ApplyRequiresApproved(t *testing.T) {
	mod := &models.LoanModification{ID: 1, ApplicationID: 1, Status: models.ModificationStatusRequested}
	svc := NewModificationService(&stubModificationRepo{mod: mod}, nil, nil, nil,
		amortization.NewEngine(amortization.DefaultConfig()), nil)

	_, err := svc.Apply(context.Background(), 1, 9)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestModificationService_RequestRejectsWipingDelta(t *testing.T) {
	app := approvedApplication()
	scheduleRepo := &stubScheduleRepo{pending: []models.RepaymentSchedule{
		scheduleRow(30, 100, 8, 0),
		scheduleRow(60, 100, 6, 56),
	}}
	svc := NewModificationService(&stubModificationRepo{}, &stubAppRepo{app: app}, scheduleRepo, nil,
		amortization.NewEngine(amortization.DefaultConfig()), nil)

	// Future unpaid principal is 150; a -150 delta leaves nothing.
	_, err := svc.Request(context.Background(), 1,
		decimal.NewFromInt(10), decimal.NewFromInt(2), decimal.NewFromInt(-150), nil, 9)
	require.Error(t, err)
}

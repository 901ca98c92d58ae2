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

type mockApplicationRepo struct {
	repository.ApplicationRepository
	mockFindByID func(ctx context.Context, id uint) (*models.LoanApplication, error)
}

func (m *mockApplicationRepo) FindByID(ctx context.Context, id uint) (*models.LoanApplication, error) {
	return m.mockFindByID(ctx, id)
}

func draftApplication() *models.LoanApplication {
	return &models.LoanApplication{
		ID:                1,
		CustomerID:        7,
		ProductName:       "Personal Loan",
		Amount:            decimal.NewFromInt(120000),
		InterestRate:      decimal.NewFromInt(12),
		TermCount:         decimal.NewFromInt(12),
		TermUnit:          "months",
		Frequency:         "monthly",
		RepaymentMode:     "principal_and_interest",
		InterestBasis:     "365",
		CalculationMethod: "reducing_balance",
		Status:            models.ApplicationStatusDraft,
	}
}

func TestApplicationService_Preview(t *testing.T) {
	app := draftApplication()
	repo := &mockApplicationRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.LoanApplication, error) {
			assert.Equal(t, uint(1), id)
			return app, nil
		},
	}

	svc := NewApplicationService(repo, nil, nil, nil,
		amortization.NewEngine(amortization.DefaultConfig()), nil, nil, nil, nil)

	plan, err := svc.Preview(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, plan.Schedule, 12)
	assert.Equal(t, "120000.00", plan.TotalPrincipal)

	// Reducing balance on 120000 at 12% over 12 months pays roughly
	// 7800 in interest.
	total, err := decimal.NewFromString(plan.TotalInterest)
	require.NoError(t, err)
	assert.True(t, total.GreaterThan(decimal.NewFromInt(7000)))
	assert.True(t, total.LessThan(decimal.NewFromInt(9000)))
}

func TestApplicationService_PreviewUsesGracePeriod(t *testing.T) {
	app := draftApplication()
	expiry := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	grace := 2
	app.ExpiryDate = &expiry
	app.GracePeriodCount = &grace
	app.GracePeriodUnit = "months"

	repo := &mockApplicationRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.LoanApplication, error) {
			return app, nil
		},
	}
	svc := NewApplicationService(repo, nil, nil, nil,
		amortization.NewEngine(amortization.DefaultConfig()), nil, nil, nil, nil)

	plan, err := svc.Preview(context.Background(), 1)
	require.NoError(t, err)
	require.NotEmpty(t, plan.Schedule)

	// Expiry plus 60 grace days plus one: the first installment falls due
	// on May 1st.
	assert.Equal(t, "2026-05-01", plan.Schedule[0].DueDate)
}

func TestApplicationService_CreateRejectsInvalidTerms(t *testing.T) {
	app := draftApplication()
	app.CalculationMethod = "negative_amortization"

	svc := NewApplicationService(nil, nil, nil, nil,
		amortization.NewEngine(amortization.DefaultConfig()), nil, nil, nil, nil)

	err := svc.Create(context.Background(), app, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid loan terms")
}

func TestApplicationService_SubmitRequiresDraft(t *testing.T) {
	app := draftApplication()
	app.Status = models.ApplicationStatusApproved

	repo := &mockApplicationRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.LoanApplication, error) {
			return app, nil
		},
	}
	svc := NewApplicationService(repo, nil, nil, nil,
		amortization.NewEngine(amortization.DefaultConfig()), nil, nil, nil, nil)

	_, err := svc.Submit(context.Background(), 1, 1)
	require.Error(t, err)
}

func TestApplicationService_RejectRequiresSubmitted(t *testing.T) {
	app := draftApplication()

	repo := &mockApplicationRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.LoanApplication, error) {
			return app, nil
		},
	}
	svc := NewApplicationService(repo, nil, nil, nil,
		amortization.NewEngine(amortization.DefaultConfig()), nil, nil, nil, nil)

	_, err := svc.Reject(context.Background(), 1, "insufficient income", 1)
	require.Error(t, err)
	assert.Equal(t, models.ApplicationStatusDraft, app.Status)
}

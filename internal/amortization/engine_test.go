package amortization

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTerms(method Method) Terms {
	return Terms{
		Principal:         decimal.NewFromInt(120000),
		AnnualRatePercent: decimal.NewFromInt(18),
		TenureValue:       decimal.NewFromInt(12),
		TenureUnit:        UnitMonths,
		Frequency:         FrequencyMonthly,
		RepaymentMode:     ModePrincipalAndInterest,
		InterestBasis:     Basis365,
		Method:            method,
		StartDate:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func sumPrincipal(plan *Plan) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range plan.Entries {
		sum = sum.Add(e.Principal)
	}
	return sum
}

func TestConstantRepayment_WorkedScenario(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	plan, err := engine.Calculate(testTerms(MethodConstantRepayment))
	require.NoError(t, err)
	require.Len(t, plan.Entries, 12)

	// First period interest: 120000 * 18/100 * 12/365
	assert.Equal(t, "710.14", plan.Entries[0].Interest.StringFixed(2))
	assert.Equal(t, "2024-01-01", plan.Entries[0].DueDate.Format("2006-01-02"))

	// Fixed 30-day interval, not calendar months: period 12 falls 330 days in.
	wantLast := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 330)
	assert.Equal(t, wantLast, plan.Entries[11].DueDate)

	// Level annuity: every installment is identical.
	level := plan.Entries[0].Installment
	for _, e := range plan.Entries {
		assert.True(t, e.Installment.Equal(level), "period %d installment %s != %s", e.Period, e.Installment, level)
	}

	// Principal fully amortizes.
	diff := sumPrincipal(plan).Sub(decimal.NewFromInt(120000)).Abs()
	assert.True(t, diff.LessThanOrEqual(decimal.RequireFromString("0.05")), "principal drift %s", diff)
}

func TestFullyAmortizingMethods_PrincipalSum(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	tolerance := decimal.RequireFromString("0.05")

	for _, method := range []Method{
		MethodReducingBalance,
		MethodFlatRate,
		MethodConstantRepayment,
		MethodSimpleInterest,
	} {
		t.Run(string(method), func(t *testing.T) {
			plan, err := engine.Calculate(testTerms(method))
			require.NoError(t, err)
			require.Len(t, plan.Entries, 12)

			diff := sumPrincipal(plan).Sub(decimal.NewFromInt(120000)).Abs()
			assert.True(t, diff.LessThanOrEqual(tolerance), "principal drift %s", diff)
		})
	}
}

func TestAllMethods_MonotonicDueDatesAndContiguousPeriods(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	for _, method := range Methods() {
		t.Run(string(method), func(t *testing.T) {
			plan, err := engine.Calculate(testTerms(method))
			require.NoError(t, err)

			for i, e := range plan.Entries {
				assert.Equal(t, i+1, e.Period)
				if i > 0 {
					assert.True(t, plan.Entries[i-1].DueDate.Before(e.DueDate))
				}
			}
		})
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	for _, method := range Methods() {
		first, err := engine.Calculate(testTerms(method))
		require.NoError(t, err)
		second, err := engine.Calculate(testTerms(method))
		require.NoError(t, err)
		assert.Equal(t, first.ToResponse(), second.ToResponse(), "method %s", method)
	}
}

func TestFlatRateAndSimpleInterest_Agree(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	flat, err := engine.Calculate(testTerms(MethodFlatRate))
	require.NoError(t, err)
	simple, err := engine.Calculate(testTerms(MethodSimpleInterest))
	require.NoError(t, err)

	assert.Equal(t, flat.ToResponse(), simple.ToResponse())
}

func TestBalloonPayment_Structure(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	terms := testTerms(MethodBalloonPayment)
	terms.Principal = decimal.NewFromInt(10000)
	terms.AnnualRatePercent = decimal.NewFromInt(12)

	plan, err := engine.Calculate(terms)
	require.NoError(t, err)
	require.Len(t, plan.Entries, 12)

	// Final period carries the 50% balloon.
	assert.Equal(t, "5000.00", plan.Entries[11].Principal.StringFixed(2))

	// Periods 1..11 pay a level installment of (P - balloon) / (N - 1).
	level := decimal.NewFromInt(5000).DivRound(decimal.NewFromInt(11), 2)
	for _, e := range plan.Entries[:11] {
		assert.True(t, e.Installment.Equal(level), "period %d installment %s", e.Period, e.Installment)
	}
}

func TestBalloonPayment_SinglePeriodRejected(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	terms := testTerms(MethodBalloonPayment)
	terms.TenureValue = decimal.NewFromInt(1)

	_, err := engine.Calculate(terms)
	assert.True(t, errors.Is(err, ErrInvalidTenure))

	terms.Frequency = FrequencyOneTime
	terms.TenureValue = decimal.NewFromInt(12)
	_, err = engine.Calculate(terms)
	assert.True(t, errors.Is(err, ErrInvalidTenure))
}

func TestBulletAndInterestFirst_DeferPrincipal(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	bullet, err := engine.Calculate(testTerms(MethodBulletRepayment))
	require.NoError(t, err)
	for _, e := range bullet.Entries[:11] {
		assert.True(t, e.Principal.IsZero(), "period %d", e.Period)
		assert.True(t, e.Interest.IsPositive())
	}
	assert.Equal(t, "120000.00", bullet.Entries[11].Principal.StringFixed(2))
	assert.True(t, bullet.Entries[11].Interest.IsPositive())

	interestFirst, err := engine.Calculate(testTerms(MethodInterestFirst))
	require.NoError(t, err)
	for _, e := range interestFirst.Entries[:11] {
		assert.True(t, e.Principal.IsZero(), "period %d", e.Period)
	}
	assert.Equal(t, "120000.00", interestFirst.Entries[11].Principal.StringFixed(2))
	assert.True(t, interestFirst.Entries[11].Interest.IsZero())
}

func TestGraduatedRepayment_PrincipalGrows(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	plan, err := engine.Calculate(testTerms(MethodGraduatedRepayment))
	require.NoError(t, err)
	require.Len(t, plan.Entries, 12)

	// Each principal payment is 5% larger than the previous one.
	for i := 1; i < len(plan.Entries); i++ {
		prev := plan.Entries[i-1].Principal
		curr := plan.Entries[i].Principal
		ratio := curr.DivRound(prev, 4)
		assert.Equal(t, "1.0500", ratio.StringFixed(4), "period %d", i+1)
	}
}

func TestConstantRepayment_ZeroRate(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	terms := testTerms(MethodConstantRepayment)
	terms.Principal = decimal.NewFromInt(1000)
	terms.AnnualRatePercent = decimal.Zero
	terms.TenureValue = decimal.NewFromInt(4)

	plan, err := engine.Calculate(terms)
	require.NoError(t, err)
	require.Len(t, plan.Entries, 4)

	for _, e := range plan.Entries {
		assert.Equal(t, "250.00", e.Principal.StringFixed(2))
		assert.True(t, e.Interest.IsZero())
	}
	assert.Equal(t, "1000.00", plan.TotalAmountToRepay.StringFixed(2))
}

func TestCalculate_OneTime(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	terms := testTerms(MethodReducingBalance)
	terms.Frequency = FrequencyOneTime
	terms.Principal = decimal.NewFromInt(5000)

	plan, err := engine.Calculate(terms)
	require.NoError(t, err)
	require.Len(t, plan.Entries, 1)
	assert.Equal(t, terms.StartDate, plan.Entries[0].DueDate)
	assert.Equal(t, "5000.00", plan.Entries[0].Principal.StringFixed(2))
}

func TestCalculate_InputValidation(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	terms := testTerms(MethodReducingBalance)
	terms.Method = "rule_of_78"
	_, err := engine.Calculate(terms)
	assert.True(t, errors.Is(err, ErrUnsupportedMethod))

	terms = testTerms(MethodReducingBalance)
	terms.StartDate = time.Time{}
	_, err = engine.Calculate(terms)
	assert.True(t, errors.Is(err, ErrMissingRequiredField))

	terms = testTerms(MethodReducingBalance)
	terms.Principal = decimal.Zero
	_, err = engine.Calculate(terms)
	assert.True(t, errors.Is(err, ErrMissingRequiredField))

	terms = testTerms(MethodReducingBalance)
	terms.TenureUnit = UnitDays
	terms.Frequency = FrequencyQuarterly
	_, err = engine.Calculate(terms)
	assert.True(t, errors.Is(err, ErrInvalidTenureUnit))
}

func TestPlanResponse_Format(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	plan, err := engine.Calculate(testTerms(MethodReducingBalance))
	require.NoError(t, err)

	resp := plan.ToResponse()
	require.Len(t, resp.Schedule, 12)
	assert.Equal(t, "10000.00", resp.Schedule[0].Principal)
	assert.Equal(t, "2024-01-01", resp.Schedule[0].DueDate)
	assert.Equal(t, "120000.00", resp.TotalPrincipal)
	assert.Regexp(t, `^\d+\.\d{2}$`, resp.TotalInterest)
}

package amortization

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestResolve_NativeUnits(t *testing.T) {
	res, err := Resolve(decimal.NewFromInt(12), UnitMonths, FrequencyMonthly)
	assert.NoError(t, err)
	assert.Equal(t, 12, res.Periods)
	assert.Equal(t, 30, res.IntervalDays)

	res, err = Resolve(decimal.NewFromInt(45), UnitDays, FrequencyDaily)
	assert.NoError(t, err)
	assert.Equal(t, 45, res.Periods)
	assert.Equal(t, 1, res.IntervalDays)

	res, err = Resolve(decimal.NewFromInt(8), UnitWeeks, FrequencyWeekly)
	assert.NoError(t, err)
	assert.Equal(t, 8, res.Periods)
	assert.Equal(t, 7, res.IntervalDays)
}

func TestResolve_Conversions(t *testing.T) {
	tests := []struct {
		name     string
		tenure   int64
		unit     TenureUnit
		freq     Frequency
		periods  int
		interval int
	}{
		{"one year monthly", 1, UnitYears, FrequencyMonthly, 12, 30},
		{"two years monthly", 2, UnitYears, FrequencyMonthly, 24, 30},
		{"90 days monthly", 90, UnitDays, FrequencyMonthly, 3, 30},
		{"six weeks monthly floors", 6, UnitWeeks, FrequencyMonthly, 1, 30},
		{"two months daily", 2, UnitMonths, FrequencyDaily, 60, 1},
		{"one year weekly", 1, UnitYears, FrequencyWeekly, 52, 7},
		{"ten days weekly floors", 10, UnitDays, FrequencyWeekly, 1, 7},
		{"one year quarterly", 1, UnitYears, FrequencyQuarterly, 4, 90},
		{"nine months quarterly", 9, UnitMonths, FrequencyQuarterly, 3, 90},
		{"18 months halfyearly", 18, UnitMonths, FrequencyHalfYearly, 3, 182},
		{"three years halfyearly", 3, UnitYears, FrequencyHalfYearly, 6, 182},
		{"24 months annually", 24, UnitMonths, FrequencyAnnually, 2, 365},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Resolve(decimal.NewFromInt(tt.tenure), tt.unit, tt.freq)
			assert.NoError(t, err)
			assert.Equal(t, tt.periods, res.Periods)
			assert.Equal(t, tt.interval, res.IntervalDays)
		})
	}
}

func TestResolve_OneTime(t *testing.T) {
	res, err := Resolve(decimal.NewFromInt(5), UnitYears, FrequencyOneTime)
	assert.NoError(t, err)
	assert.Equal(t, 1, res.Periods)
	assert.Equal(t, 0, res.IntervalDays)
}

func TestResolve_UnsupportedUnitForFrequency(t *testing.T) {
	_, err := Resolve(decimal.NewFromInt(10), UnitDays, FrequencyQuarterly)
	assert.True(t, errors.Is(err, ErrInvalidTenureUnit))

	_, err = Resolve(decimal.NewFromInt(10), UnitWeeks, FrequencyHalfYearly)
	assert.True(t, errors.Is(err, ErrInvalidTenureUnit))

	_, err = Resolve(decimal.NewFromInt(10), "fortnights", FrequencyMonthly)
	assert.True(t, errors.Is(err, ErrInvalidTenureUnit))
}

func TestResolve_TenureTooShort(t *testing.T) {
	// 3 days is less than one weekly period
	_, err := Resolve(decimal.NewFromInt(3), UnitDays, FrequencyWeekly)
	assert.True(t, errors.Is(err, ErrInvalidTenure))

	_, err = Resolve(decimal.Zero, UnitMonths, FrequencyMonthly)
	assert.True(t, errors.Is(err, ErrInvalidTenure))
}

package amortization

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRepaymentStartDate(t *testing.T) {
	expiry := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		count int
		unit  TenureUnit
		want  time.Time
	}{
		{"days", 10, UnitDays, time.Date(2024, 3, 26, 0, 0, 0, 0, time.UTC)},
		{"weeks", 2, UnitWeeks, time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC)},
		{"months", 1, UnitMonths, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)},
		{"years", 1, UnitYears, time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)},
		{"zero grace still skips a day", 0, UnitDays, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RepaymentStartDate(&expiry, &tt.count, tt.unit)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepaymentStartDate_MissingFields(t *testing.T) {
	expiry := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	count := 2

	_, err := RepaymentStartDate(nil, &count, UnitWeeks)
	assert.True(t, errors.Is(err, ErrMissingRequiredField))

	_, err = RepaymentStartDate(&expiry, nil, UnitWeeks)
	assert.True(t, errors.Is(err, ErrMissingRequiredField))

	_, err = RepaymentStartDate(&expiry, &count, "")
	assert.True(t, errors.Is(err, ErrMissingRequiredField))

	_, err = RepaymentStartDate(&expiry, &count, "decades")
	assert.True(t, errors.Is(err, ErrInvalidTenureUnit))
}

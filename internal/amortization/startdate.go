package amortization

import (
	"fmt"
	"time"
)

// Day multipliers for grace periods. Months and years use the same fixed-day
// approximation as the schedule intervals.
var graceDays = map[TenureUnit]int{
	UnitDays:   1,
	UnitWeeks:  7,
	UnitMonths: 30,
	UnitYears:  365,
}

// RepaymentStartDate computes the date the first installment falls due after
// an application is approved: the application's expiry date, plus the grace
// period the customer was granted, plus one day.
func RepaymentStartDate(expiry *time.Time, graceCount *int, graceUnit TenureUnit) (time.Time, error) {
	if expiry == nil || expiry.IsZero() {
		return time.Time{}, fmt.Errorf("%w: expiry date", ErrMissingRequiredField)
	}
	if graceCount == nil {
		return time.Time{}, fmt.Errorf("%w: grace period count", ErrMissingRequiredField)
	}
	if graceUnit == "" {
		return time.Time{}, fmt.Errorf("%w: grace period unit", ErrMissingRequiredField)
	}

	mult, ok := graceDays[graceUnit]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: grace period unit %q", ErrInvalidTenureUnit, graceUnit)
	}

	return expiry.AddDate(0, 0, *graceCount*mult+1), nil
}

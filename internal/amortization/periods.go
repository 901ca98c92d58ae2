package amortization

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Resolution is the outcome of period resolution: how many installments the
// plan has and how many days apart they fall due. IntervalDays is zero for
// one-time plans.
type Resolution struct {
	Periods      int
	IntervalDays int
}

// conversion describes how a tenure unit maps onto a frequency's periods:
// periods = floor(tenure * Num / Den).
type conversion struct {
	Num int64
	Den int64
}

type frequencyRule struct {
	native      TenureUnit
	interval    int
	conversions map[TenureUnit]conversion
}

// Fixed-day interval approximations (30/90/182/365). Due dates derived from
// them never track calendar month lengths or leap years.
var frequencyRules = map[Frequency]frequencyRule{
	FrequencyDaily: {
		native:   UnitDays,
		interval: 1,
		conversions: map[TenureUnit]conversion{
			UnitWeeks:  {7, 1},
			UnitMonths: {30, 1},
			UnitYears:  {365, 1},
		},
	},
	FrequencyWeekly: {
		native:   UnitWeeks,
		interval: 7,
		conversions: map[TenureUnit]conversion{
			UnitDays:   {1, 7},
			UnitMonths: {4, 1},
			UnitYears:  {52, 1},
		},
	},
	FrequencyMonthly: {
		native:   UnitMonths,
		interval: 30,
		conversions: map[TenureUnit]conversion{
			UnitDays:  {1, 30},
			UnitWeeks: {1, 4},
			UnitYears: {12, 1},
		},
	},
	FrequencyQuarterly: {
		native:   "",
		interval: 90,
		conversions: map[TenureUnit]conversion{
			UnitMonths: {1, 3},
			UnitYears:  {4, 1},
		},
	},
	FrequencyHalfYearly: {
		native:   "",
		interval: 182,
		conversions: map[TenureUnit]conversion{
			UnitMonths: {1, 6},
			UnitYears:  {2, 1},
		},
	},
	FrequencyAnnually: {
		native:   UnitYears,
		interval: 365,
		conversions: map[TenureUnit]conversion{
			UnitDays:   {1, 365},
			UnitWeeks:  {1, 52},
			UnitMonths: {1, 12},
		},
	},
}

// Resolve converts a tenure into a period count and due-date interval for the
// given frequency. The frequency's native unit passes through unconverted;
// every other unit uses floor division, so fractional trailing periods are
// dropped rather than rounded up.
func Resolve(tenure decimal.Decimal, unit TenureUnit, freq Frequency) (Resolution, error) {
	if !unit.Valid() {
		return Resolution{}, fmt.Errorf("%w: %q", ErrInvalidTenureUnit, unit)
	}

	if freq == FrequencyOneTime {
		return Resolution{Periods: 1, IntervalDays: 0}, nil
	}

	rule, ok := frequencyRules[freq]
	if !ok {
		return Resolution{}, fmt.Errorf("%w: frequency %q", ErrInvalidTenureUnit, freq)
	}

	var periods int64
	if unit == rule.native {
		periods = tenure.Floor().IntPart()
	} else {
		conv, ok := rule.conversions[unit]
		if !ok {
			return Resolution{}, fmt.Errorf("%w: %q with %q frequency", ErrInvalidTenureUnit, unit, freq)
		}
		periods = tenure.
			Mul(decimal.NewFromInt(conv.Num)).
			Div(decimal.NewFromInt(conv.Den)).
			Floor().
			IntPart()
	}

	if periods < 1 {
		return Resolution{}, fmt.Errorf("%w: %s %s resolves to %d %s periods",
			ErrInvalidTenure, tenure.String(), unit, periods, freq)
	}

	return Resolution{Periods: int(periods), IntervalDays: rule.interval}, nil
}

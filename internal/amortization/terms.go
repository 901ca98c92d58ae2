package amortization

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is how often installments fall due.
type Frequency string

const (
	FrequencyDaily      Frequency = "daily"
	FrequencyWeekly     Frequency = "weekly"
	FrequencyMonthly    Frequency = "monthly"
	FrequencyQuarterly  Frequency = "quarterly"
	FrequencyHalfYearly Frequency = "halfyearly"
	FrequencyAnnually   Frequency = "annually"
	FrequencyOneTime    Frequency = "one_time"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly,
		FrequencyHalfYearly, FrequencyAnnually, FrequencyOneTime:
		return true
	}
	return false
}

// TenureUnit is the unit the loan duration is expressed in.
type TenureUnit string

const (
	UnitDays   TenureUnit = "days"
	UnitWeeks  TenureUnit = "weeks"
	UnitMonths TenureUnit = "months"
	UnitYears  TenureUnit = "years"
)

// Valid reports whether u is a known tenure unit.
func (u TenureUnit) Valid() bool {
	switch u {
	case UnitDays, UnitWeeks, UnitMonths, UnitYears:
		return true
	}
	return false
}

// Method identifies one of the supported amortization recurrences. The set is
// closed: dispatch is an exhaustive switch and anything else fails with
// ErrUnsupportedMethod.
type Method string

const (
	MethodReducingBalance    Method = "reducing_balance"
	MethodFlatRate           Method = "flat_rate"
	MethodConstantRepayment  Method = "constant_repayment"
	MethodSimpleInterest     Method = "simple_interest"
	MethodCompoundInterest   Method = "compound_interest"
	MethodGraduatedRepayment Method = "graduated_repayment"
	MethodBalloonPayment     Method = "balloon_payment"
	MethodBulletRepayment    Method = "bullet_repayment"
	MethodInterestFirst      Method = "interest_first"
)

// Methods lists every supported calculation method.
func Methods() []Method {
	return []Method{
		MethodReducingBalance,
		MethodFlatRate,
		MethodConstantRepayment,
		MethodSimpleInterest,
		MethodCompoundInterest,
		MethodGraduatedRepayment,
		MethodBalloonPayment,
		MethodBulletRepayment,
		MethodInterestFirst,
	}
}

// Valid reports whether m is a known calculation method.
func (m Method) Valid() bool {
	for _, known := range Methods() {
		if m == known {
			return true
		}
	}
	return false
}

// RepaymentMode and InterestBasis are accepted on input and carried through,
// but do not alter the arithmetic. Basis "other" computes identically to
// "365"; this mirrors the reference behavior and is kept on purpose.
type RepaymentMode string

const (
	ModePrincipalAndInterest RepaymentMode = "principal_and_interest"
	ModeInterestOnly         RepaymentMode = "interest_only"
)

type InterestBasis string

const (
	Basis365   InterestBasis = "365"
	BasisOther InterestBasis = "other"
)

// Terms is the immutable input of one schedule computation.
type Terms struct {
	Principal         decimal.Decimal
	AnnualRatePercent decimal.Decimal
	TenureValue       decimal.Decimal
	TenureUnit        TenureUnit
	Frequency         Frequency
	RepaymentMode     RepaymentMode
	InterestBasis     InterestBasis
	Method            Method
	StartDate         time.Time
}

// Entry is one installment of a repayment plan. Monetary fields are rounded
// to two decimal places when the entry is built.
type Entry struct {
	Period      int
	Principal   decimal.Decimal
	Interest    decimal.Decimal
	Installment decimal.Decimal
	DueDate     time.Time
}

// Plan is the complete output of one computation. Totals are accumulated from
// the unrounded per-period values and rounded once at the end.
type Plan struct {
	Entries            []Entry
	TotalPrincipal     decimal.Decimal
	TotalInterest      decimal.Decimal
	TotalAmountToRepay decimal.Decimal
}

// EntryResponse is the wire representation of a plan entry. Amounts carry
// exactly two fractional digits, dates are ISO calendar dates.
type EntryResponse struct {
	Period      int    `json:"period"`
	Principal   string `json:"principal"`
	Interest    string `json:"interest"`
	Installment string `json:"installment"`
	DueDate     string `json:"due_date"`
}

// PlanResponse is the wire representation of a Plan.
type PlanResponse struct {
	Schedule           []EntryResponse `json:"schedule"`
	TotalPrincipal     string          `json:"total_principal"`
	TotalInterest      string          `json:"total_interest"`
	TotalAmountToRepay string          `json:"total_amount_to_repay"`
}

// ToResponse converts a Plan to its wire representation.
func (p *Plan) ToResponse() PlanResponse {
	entries := make([]EntryResponse, 0, len(p.Entries))
	for _, e := range p.Entries {
		entries = append(entries, EntryResponse{
			Period:      e.Period,
			Principal:   e.Principal.StringFixed(2),
			Interest:    e.Interest.StringFixed(2),
			Installment: e.Installment.StringFixed(2),
			DueDate:     e.DueDate.Format("2006-01-02"),
		})
	}
	return PlanResponse{
		Schedule:           entries,
		TotalPrincipal:     p.TotalPrincipal.StringFixed(2),
		TotalInterest:      p.TotalInterest.StringFixed(2),
		TotalAmountToRepay: p.TotalAmountToRepay.StringFixed(2),
	}
}

// Config carries the numeric settings of the engine. Precision is the number
// of fractional digits kept by intermediate divisions; EntryScale is the
// scale monetary figures are rounded to. Both are explicit parameters rather
// than process-wide state.
type Config struct {
	Precision  int32
	EntryScale int32
}

// DefaultConfig returns the standard engine configuration: 10-digit
// intermediate precision, 2-decimal monetary rounding.
func DefaultConfig() Config {
	return Config{Precision: 10, EntryScale: 2}
}

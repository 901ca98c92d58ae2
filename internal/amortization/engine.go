// Package amortization computes loan repayment schedules. It is a pure
// computation package: no persistence, no logging, no shared state. Given the
// same terms and configuration it always produces the same plan, so it can be
// called concurrently without coordination.
package amortization

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	one           = decimal.NewFromInt(1)
	hundred       = decimal.NewFromInt(100)
	daysPerYear   = decimal.NewFromInt(365)
	monthsPerYear = decimal.NewFromInt(12)
	balloonFactor = decimal.RequireFromString("0.5")
	graduatedStep = decimal.RequireFromString("1.05")
)

// Engine runs schedule computations with an explicit numeric configuration.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine. Zero-valued config fields fall back to the
// defaults (precision 10, entry scale 2).
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.Precision <= 0 {
		cfg.Precision = def.Precision
	}
	if cfg.EntryScale <= 0 {
		cfg.EntryScale = def.EntryScale
	}
	return &Engine{cfg: cfg}
}

// Calculate produces the complete repayment plan for the given terms. All
// validation happens before the first entry is emitted; a returned error
// means no partial schedule exists.
func (e *Engine) Calculate(terms Terms) (*Plan, error) {
	if err := e.validate(terms); err != nil {
		return nil, err
	}

	res, err := Resolve(terms.TenureValue, terms.TenureUnit, terms.Frequency)
	if err != nil {
		return nil, err
	}

	if terms.Method == MethodBalloonPayment && res.Periods == 1 {
		return nil, fmt.Errorf("%w: balloon repayment needs at least two periods", ErrInvalidTenure)
	}

	// Annual percentage apportioned across the periods on a 365-day year.
	// Basis "other" computes identically to "365".
	rate := terms.AnnualRatePercent.
		Mul(decimal.NewFromInt(int64(res.Periods))).
		DivRound(hundred.Mul(daysPerYear), e.cfg.Precision)

	b := &planBuilder{
		cfg:       e.cfg,
		start:     terms.StartDate,
		interval:  res.IntervalDays,
		periods:   res.Periods,
		rate:      rate,
		annualPct: terms.AnnualRatePercent.DivRound(hundred, e.cfg.Precision),
		principal: terms.Principal,
		remaining: terms.Principal,
	}

	switch terms.Method {
	case MethodReducingBalance:
		b.reducingBalance()
	case MethodFlatRate:
		b.flatRate()
	case MethodConstantRepayment:
		b.constantRepayment()
	case MethodSimpleInterest:
		b.simpleInterest()
	case MethodCompoundInterest:
		b.compoundInterest()
	case MethodGraduatedRepayment:
		b.graduatedRepayment()
	case MethodBalloonPayment:
		b.balloonPayment()
	case MethodBulletRepayment:
		b.bulletRepayment()
	case MethodInterestFirst:
		b.interestFirst()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, terms.Method)
	}

	return b.plan(), nil
}

func (e *Engine) validate(terms Terms) error {
	if terms.StartDate.IsZero() {
		return fmt.Errorf("%w: start date", ErrMissingRequiredField)
	}
	if !terms.Principal.IsPositive() {
		return fmt.Errorf("%w: principal", ErrMissingRequiredField)
	}
	if terms.AnnualRatePercent.IsNegative() {
		return fmt.Errorf("%w: annual rate", ErrMissingRequiredField)
	}
	if !terms.Method.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedMethod, terms.Method)
	}
	if !terms.Frequency.Valid() {
		return fmt.Errorf("%w: frequency %q", ErrInvalidTenureUnit, terms.Frequency)
	}
	return nil
}

// planBuilder accumulates entries for one computation. Entries are rounded
// when built; totals carry the unrounded values and are rounded once at the
// end, so per-entry and aggregate figures reconcile the same way the persisted
// schedule does.
type planBuilder struct {
	cfg       Config
	start     time.Time
	interval  int
	periods   int
	rate      decimal.Decimal
	annualPct decimal.Decimal
	principal decimal.Decimal
	remaining decimal.Decimal

	entries        []Entry
	totalPrincipal decimal.Decimal
	totalInterest  decimal.Decimal
}

func (b *planBuilder) dueDate(period int) time.Time {
	if b.interval == 0 {
		return b.start
	}
	return b.start.AddDate(0, 0, b.interval*(period-1))
}

func (b *planBuilder) add(period int, principal, interest decimal.Decimal) {
	b.entries = append(b.entries, Entry{
		Period:      period,
		Principal:   principal.Round(b.cfg.EntryScale),
		Interest:    interest.Round(b.cfg.EntryScale),
		Installment: principal.Add(interest).Round(b.cfg.EntryScale),
		DueDate:     b.dueDate(period),
	})
	b.totalPrincipal = b.totalPrincipal.Add(principal)
	b.totalInterest = b.totalInterest.Add(interest)
}

func (b *planBuilder) plan() *Plan {
	return &Plan{
		Entries:            b.entries,
		TotalPrincipal:     b.totalPrincipal.Round(b.cfg.EntryScale),
		TotalInterest:      b.totalInterest.Round(b.cfg.EntryScale),
		TotalAmountToRepay: b.totalPrincipal.Add(b.totalInterest).Round(b.cfg.EntryScale),
	}
}

func (b *planBuilder) n() decimal.Decimal {
	return decimal.NewFromInt(int64(b.periods))
}

// powInt raises base to a non-negative integer power, rounding after each
// multiplication so intermediates stay at the configured precision.
func (b *planBuilder) powInt(base decimal.Decimal, exp int) decimal.Decimal {
	result := one
	acc := base
	for e := exp; e > 0; e >>= 1 {
		if e&1 == 1 {
			result = result.Mul(acc).Round(b.cfg.Precision)
		}
		acc = acc.Mul(acc).Round(b.cfg.Precision)
	}
	return result
}

// reducingBalance: even principal split, interest on the declining balance.
func (b *planBuilder) reducingBalance() {
	principalPmt := b.principal.DivRound(b.n(), b.cfg.Precision)
	for p := 1; p <= b.periods; p++ {
		interest := b.remaining.Mul(b.rate)
		b.remaining = b.remaining.Sub(principalPmt)
		b.add(p, principalPmt, interest)
	}
}

// flatRate: interest precomputed once on the full principal for the whole
// term and spread evenly.
func (b *planBuilder) flatRate() {
	fixedInterest := b.principal.
		Mul(b.annualPct).
		Mul(b.n()).
		DivRound(monthsPerYear, b.cfg.Precision)
	interestPmt := fixedInterest.DivRound(b.n(), b.cfg.Precision)
	principalPmt := b.principal.DivRound(b.n(), b.cfg.Precision)
	for p := 1; p <= b.periods; p++ {
		b.add(p, principalPmt, interestPmt)
	}
}

// constantRepayment: level annuity installment, interest on the declining
// balance, principal as the remainder. A zero period rate degenerates to an
// even split since the annuity formula is undefined there.
func (b *planBuilder) constantRepayment() {
	if b.rate.IsZero() {
		principalPmt := b.principal.DivRound(b.n(), b.cfg.Precision)
		for p := 1; p <= b.periods; p++ {
			b.add(p, principalPmt, decimal.Zero)
		}
		return
	}

	growth := b.powInt(one.Add(b.rate), b.periods)
	discount := one.DivRound(growth, b.cfg.Precision)
	installment := b.principal.Mul(b.rate).DivRound(one.Sub(discount), b.cfg.Precision)
	for p := 1; p <= b.periods; p++ {
		interest := b.remaining.Mul(b.rate)
		principalPmt := installment.Sub(interest)
		b.remaining = b.remaining.Sub(principalPmt)
		b.add(p, principalPmt, interest)
	}
}

// simpleInterest: total interest precomputed once, spread evenly alongside an
// even principal split.
func (b *planBuilder) simpleInterest() {
	totalInterest := b.principal.
		Mul(b.annualPct).
		Mul(b.n()).
		DivRound(monthsPerYear, b.cfg.Precision)
	interestPmt := totalInterest.DivRound(b.n(), b.cfg.Precision)
	principalPmt := b.principal.DivRound(b.n(), b.cfg.Precision)
	for p := 1; p <= b.periods; p++ {
		b.add(p, principalPmt, interestPmt)
	}
}

// compoundInterest: the compounded total is split evenly per period; interest
// accrues on the declining balance and principal takes the remainder.
func (b *planBuilder) compoundInterest() {
	total := b.principal.Mul(b.powInt(one.Add(b.rate), b.periods))
	perPeriod := total.DivRound(b.n(), b.cfg.Precision)
	for p := 1; p <= b.periods; p++ {
		interest := b.remaining.Mul(b.rate)
		principalPmt := perPeriod.Sub(interest)
		b.remaining = b.remaining.Sub(principalPmt)
		b.add(p, principalPmt, interest)
	}
}

// graduatedRepayment: principal payments grow 5% per period from an even
// base; interest accrues on the declining balance.
func (b *planBuilder) graduatedRepayment() {
	base := b.principal.DivRound(b.n(), b.cfg.Precision)
	factor := one
	for p := 1; p <= b.periods; p++ {
		interest := b.remaining.Mul(b.rate)
		principalPmt := base.Mul(factor)
		b.remaining = b.remaining.Sub(principalPmt)
		b.add(p, principalPmt, interest)
		factor = factor.Mul(graduatedStep).Round(b.cfg.Precision)
	}
}

// balloonPayment: half of the principal is deferred to the final period; the
// first N-1 periods amortize the other half annuity-style against a level
// payment.
func (b *planBuilder) balloonPayment() {
	balloon := b.principal.Mul(balloonFactor)
	level := b.principal.Sub(balloon).
		DivRound(decimal.NewFromInt(int64(b.periods-1)), b.cfg.Precision)
	for p := 1; p < b.periods; p++ {
		interest := b.remaining.Mul(b.rate)
		principalPmt := level.Sub(interest)
		b.remaining = b.remaining.Sub(principalPmt)
		b.add(p, principalPmt, interest)
	}
	b.add(b.periods, balloon, b.remaining.Mul(b.rate))
}

// bulletRepayment: interest-only periods with the balance never declining,
// full principal plus a final interest charge in the last period.
func (b *planBuilder) bulletRepayment() {
	for p := 1; p < b.periods; p++ {
		b.add(p, decimal.Zero, b.remaining.Mul(b.rate))
	}
	b.add(b.periods, b.principal, b.remaining.Mul(b.rate))
}

// interestFirst: interest-only periods, then the full principal with no
// interest in the last period.
func (b *planBuilder) interestFirst() {
	for p := 1; p < b.periods; p++ {
		b.add(p, decimal.Zero, b.remaining.Mul(b.rate))
	}
	b.add(b.periods, b.principal, decimal.Zero)
}

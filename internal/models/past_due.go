package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PenaltyConfig is the penalty policy applied to overdue installments. A
// single active row drives the past-due scan: after GraceDays past the due
// date, either a flat amount or a percentage of the outstanding installment
// accrues per scan day.
type PenaltyConfig struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Basis      string          `gorm:"default:percent;not null" json:"basis"`
	FlatAmount decimal.Decimal `gorm:"type:decimal(16,2);default:0" json:"flat_amount"`
	Percent    decimal.Decimal `gorm:"type:decimal(7,4);default:0" json:"percent"`
	GraceDays  int             `gorm:"default:0" json:"grace_days"`
	Active     bool            `gorm:"default:true;index" json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// TableName specifies the table name for PenaltyConfig
func (PenaltyConfig) TableName() string {
	return "penalty_configs"
}

// Penalty basis constants
const (
	PenaltyBasisFlat    = "flat"
	PenaltyBasisPercent = "percent"
)

// PenaltyFor computes the penalty one scan accrues on an overdue outstanding
// amount.
func (c *PenaltyConfig) PenaltyFor(outstanding decimal.Decimal) decimal.Decimal {
	if c.Basis == PenaltyBasisFlat {
		return c.FlatAmount
	}
	return outstanding.Mul(c.Percent).Div(decimal.NewFromInt(100)).Round(2)
}

// PastDueRecord marks a schedule row detected overdue by the scan. One open
// record exists per overdue installment; it resolves when the installment is
// settled.
type PastDueRecord struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	LoanAccountID uint            `gorm:"not null;index" json:"loan_account_id"`
	ScheduleID    uint            `gorm:"not null;uniqueIndex" json:"schedule_id"`
	DaysOverdue   int             `json:"days_overdue"`
	AmountOverdue decimal.Decimal `gorm:"type:decimal(16,2)" json:"amount_overdue"`
	DetectedAt    time.Time       `gorm:"index" json:"detected_at"`
	ResolvedAt    *time.Time      `json:"resolved_at"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Associations
	LoanAccount LoanAccount       `gorm:"foreignKey:LoanAccountID" json:"-"`
	Schedule    RepaymentSchedule `gorm:"foreignKey:ScheduleID" json:"-"`
}

// TableName specifies the table name for PastDueRecord
func (PastDueRecord) TableName() string {
	return "past_due_records"
}

// IsResolved returns true once the overdue installment was settled
func (r *PastDueRecord) IsResolved() bool {
	return r.ResolvedAt != nil
}

// PenaltyAccrual records one penalty charge against a schedule row, so the
// accrued penalty on the account can always be reconciled.
type PenaltyAccrual struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	LoanAccountID uint            `gorm:"not null;index" json:"loan_account_id"`
	ScheduleID    uint            `gorm:"not null;index" json:"schedule_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"amount"`
	Basis         string          `json:"basis"`
	AccruedOn     time.Time       `gorm:"type:date;index" json:"accrued_on"`
	CreatedAt     time.Time       `json:"created_at"`

	// Associations
	LoanAccount LoanAccount       `gorm:"foreignKey:LoanAccountID" json:"-"`
	Schedule    RepaymentSchedule `gorm:"foreignKey:ScheduleID" json:"-"`
}

// TableName specifies the table name for PenaltyAccrual
func (PenaltyAccrual) TableName() string {
	return "penalty_accruals"
}

// PastDueResponse is the JSON response format for past-due records
type PastDueResponse struct {
	ID            uint       `json:"id"`
	LoanAccountID uint       `json:"loan_account_id"`
	ScheduleID    uint       `json:"schedule_id"`
	DaysOverdue   int        `json:"days_overdue"`
	AmountOverdue string     `json:"amount_overdue"`
	DetectedAt    time.Time  `json:"detected_at"`
	ResolvedAt    *time.Time `json:"resolved_at"`
}

// ToResponse converts PastDueRecord to PastDueResponse
func (r *PastDueRecord) ToResponse() PastDueResponse {
	return PastDueResponse{
		ID:            r.ID,
		LoanAccountID: r.LoanAccountID,
		ScheduleID:    r.ScheduleID,
		DaysOverdue:   r.DaysOverdue,
		AmountOverdue: r.AmountOverdue.StringFixed(2),
		DetectedAt:    r.DetectedAt,
		ResolvedAt:    r.ResolvedAt,
	}
}

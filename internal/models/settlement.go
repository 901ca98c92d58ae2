package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settlement is an early-payoff offer against an open loan account: the full
// outstanding balance minus a negotiated discount. Its status is driven by a
// state machine; completing one closes the account.
type Settlement struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	LoanAccountID  uint            `gorm:"not null;index" json:"loan_account_id"`
	OutstandingDue decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"outstanding_due"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(16,2);default:0" json:"discount_amount"`
	OfferedAmount  decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"offered_amount"`
	Reason         *string         `gorm:"type:text" json:"reason"`
	Status         string          `gorm:"default:proposed;not null;index" json:"status"`
	ProposedBy     *uint           `json:"proposed_by"`
	DecidedBy      *uint           `json:"decided_by"`
	DecidedAt      *time.Time      `json:"decided_at"`
	CompletedAt    *time.Time      `json:"completed_at"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Associations
	LoanAccount LoanAccount `gorm:"foreignKey:LoanAccountID" json:"-"`
}

// TableName specifies the table name for Settlement
func (Settlement) TableName() string {
	return "settlements"
}

// Settlement status constants
const (
	SettlementStatusProposed  = "proposed"
	SettlementStatusAccepted  = "accepted"
	SettlementStatusCompleted = "completed"
	SettlementStatusRejected  = "rejected"
)

// MayAccept returns true if the offer can be accepted
func (s *Settlement) MayAccept() bool {
	return s.Status == SettlementStatusProposed
}

// MayReject returns true if the offer can be rejected
func (s *Settlement) MayReject() bool {
	return s.Status == SettlementStatusProposed
}

// MayComplete returns true once the offer was accepted and awaits payment
func (s *Settlement) MayComplete() bool {
	return s.Status == SettlementStatusAccepted
}

// SettlementResponse is the JSON response format for settlements
type SettlementResponse struct {
	ID             uint       `json:"id"`
	LoanAccountID  uint       `json:"loan_account_id"`
	OutstandingDue string     `json:"outstanding_due"`
	DiscountAmount string     `json:"discount_amount"`
	OfferedAmount  string     `json:"offered_amount"`
	Reason         *string    `json:"reason"`
	Status         string     `json:"status"`
	DecidedAt      *time.Time `json:"decided_at"`
	CompletedAt    *time.Time `json:"completed_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ToResponse converts Settlement to SettlementResponse
func (s *Settlement) ToResponse() SettlementResponse {
	return SettlementResponse{
		ID:             s.ID,
		LoanAccountID:  s.LoanAccountID,
		OutstandingDue: s.OutstandingDue.StringFixed(2),
		DiscountAmount: s.DiscountAmount.StringFixed(2),
		OfferedAmount:  s.OfferedAmount.StringFixed(2),
		Reason:         s.Reason,
		Status:         s.Status,
		DecidedAt:      s.DecidedAt,
		CompletedAt:    s.CompletedAt,
		CreatedAt:      s.CreatedAt,
	}
}

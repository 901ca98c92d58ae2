package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanAccount is the bookkeeping side of an approved application: the
// disbursed principal, what is still outstanding, and the penalty and
// advance-payment balances that repayment application draws on.
type LoanAccount struct {
	ID                    uint            `gorm:"primaryKey" json:"id"`
	ApplicationID         uint            `gorm:"not null;uniqueIndex" json:"application_id"`
	CustomerID            uint            `gorm:"not null;index" json:"customer_id"`
	AccountNumber         string          `gorm:"uniqueIndex;not null" json:"account_number"`
	PrincipalDisbursed    decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"principal_disbursed"`
	OutstandingPrincipal  decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"outstanding_principal"`
	AccruedInterest       decimal.Decimal `gorm:"type:decimal(16,2);default:0" json:"accrued_interest"`
	AccruedPenalty        decimal.Decimal `gorm:"type:decimal(16,2);default:0" json:"accrued_penalty"`
	AdvancePaymentBalance decimal.Decimal `gorm:"type:decimal(16,2);default:0" json:"advance_payment_balance"`
	Status                string          `gorm:"default:active;not null;index" json:"status"`
	DisbursedAt           *time.Time      `json:"disbursed_at"`
	ClosedAt              *time.Time      `json:"closed_at"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`

	// Associations
	Application  LoanApplication `gorm:"foreignKey:ApplicationID" json:"application,omitempty"`
	Customer     Customer        `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Transactions []Transaction   `gorm:"foreignKey:LoanAccountID" json:"transactions,omitempty"`
}

// TableName specifies the table name for LoanAccount
func (LoanAccount) TableName() string {
	return "loan_accounts"
}

// Account status constants
const (
	AccountStatusActive  = "active"
	AccountStatusPastDue = "past_due"
	AccountStatusSettled = "settled"
	AccountStatusClosed  = "closed"
)

// IsOpen returns true while the account can still receive repayments
func (a *LoanAccount) IsOpen() bool {
	return a.Status == AccountStatusActive || a.Status == AccountStatusPastDue
}

// MaySettle returns true if an early settlement can be proposed
func (a *LoanAccount) MaySettle() bool {
	return a.IsOpen()
}

// AccountResponse is the JSON response format for loan accounts
type AccountResponse struct {
	ID                    uint       `json:"id"`
	ApplicationID         uint       `json:"application_id"`
	CustomerID            uint       `json:"customer_id"`
	CustomerName          string     `json:"customer_name,omitempty"`
	AccountNumber         string     `json:"account_number"`
	PrincipalDisbursed    string     `json:"principal_disbursed"`
	OutstandingPrincipal  string     `json:"outstanding_principal"`
	AccruedInterest       string     `json:"accrued_interest"`
	AccruedPenalty        string     `json:"accrued_penalty"`
	AdvancePaymentBalance string     `json:"advance_payment_balance"`
	Status                string     `json:"status"`
	DisbursedAt           *time.Time `json:"disbursed_at"`
	ClosedAt              *time.Time `json:"closed_at"`
	CreatedAt             time.Time  `json:"created_at"`
}

// ToResponse converts LoanAccount to AccountResponse
func (a *LoanAccount) ToResponse() AccountResponse {
	resp := AccountResponse{
		ID:                    a.ID,
		ApplicationID:         a.ApplicationID,
		CustomerID:            a.CustomerID,
		AccountNumber:         a.AccountNumber,
		PrincipalDisbursed:    a.PrincipalDisbursed.StringFixed(2),
		OutstandingPrincipal:  a.OutstandingPrincipal.StringFixed(2),
		AccruedInterest:       a.AccruedInterest.StringFixed(2),
		AccruedPenalty:        a.AccruedPenalty.StringFixed(2),
		AdvancePaymentBalance: a.AdvancePaymentBalance.StringFixed(2),
		Status:                a.Status,
		DisbursedAt:           a.DisbursedAt,
		ClosedAt:              a.ClosedAt,
		CreatedAt:             a.CreatedAt,
	}
	if a.Customer.ID != 0 {
		resp.CustomerName = a.Customer.FullName
	}
	return resp
}

// Transaction records every monetary movement against a loan account.
type Transaction struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	LoanAccountID uint            `gorm:"not null;index" json:"loan_account_id"`
	ScheduleID    *uint           `gorm:"index" json:"schedule_id"`
	Type          string          `gorm:"size:50;not null;index" json:"type"`
	Amount        decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"amount"`
	Reference     string          `gorm:"uniqueIndex;not null" json:"reference"`
	Notes         *string         `gorm:"type:text" json:"notes"`
	RecordedBy    *uint           `json:"recorded_by"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`

	// Associations
	LoanAccount LoanAccount `gorm:"foreignKey:LoanAccountID" json:"-"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}

// Transaction type constants
const (
	TransactionDisbursement   = "disbursement"
	TransactionRepayment      = "repayment"
	TransactionPenaltyPayment = "penalty_payment"
	TransactionAdvanceDeposit = "advance_deposit"
	TransactionAdvanceApplied = "advance_applied"
	TransactionPenaltyAccrual = "penalty_accrual"
	TransactionSettlement     = "settlement"
)

// TransactionResponse is the JSON response format for transactions
type TransactionResponse struct {
	ID            uint      `json:"id"`
	LoanAccountID uint      `json:"loan_account_id"`
	ScheduleID    *uint     `json:"schedule_id"`
	Type          string    `json:"type"`
	Amount        string    `json:"amount"`
	Reference     string    `json:"reference"`
	Notes         *string   `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToResponse converts Transaction to TransactionResponse
func (t *Transaction) ToResponse() TransactionResponse {
	return TransactionResponse{
		ID:            t.ID,
		LoanAccountID: t.LoanAccountID,
		ScheduleID:    t.ScheduleID,
		Type:          t.Type,
		Amount:        t.Amount.StringFixed(2),
		Reference:     t.Reference,
		Notes:         t.Notes,
		CreatedAt:     t.CreatedAt,
	}
}

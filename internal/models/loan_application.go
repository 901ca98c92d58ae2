package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/PGohila/LMS/internal/amortization"
)

// LoanApplication is a request for credit. Its status is driven by a state
// machine; approval computes the repayment start date, generates the
// schedule, and opens the loan account.
type LoanApplication struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	CustomerID         uint            `gorm:"not null;index" json:"customer_id"`
	OfficerID          *uint           `gorm:"index" json:"officer_id"`
	ProductName        string          `json:"product_name"`
	Amount             decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"amount"`
	InterestRate       decimal.Decimal `gorm:"type:decimal(7,4);not null" json:"interest_rate"`
	TermCount          decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"term_count"`
	TermUnit           string          `gorm:"not null" json:"term_unit"`
	Frequency          string          `gorm:"not null" json:"frequency"`
	RepaymentMode      string          `gorm:"default:principal_and_interest" json:"repayment_mode"`
	InterestBasis      string          `gorm:"default:365" json:"interest_basis"`
	CalculationMethod  string          `gorm:"not null" json:"calculation_method"`
	ExpiryDate         *time.Time      `gorm:"type:date" json:"expiry_date"`
	GracePeriodCount   *int            `json:"grace_period_count"`
	GracePeriodUnit    string          `json:"grace_period_unit"`
	Status             string          `gorm:"default:draft;not null;index" json:"status"`
	RepaymentStartDate *time.Time      `gorm:"type:date" json:"repayment_start_date"`
	RejectionReason    *string         `gorm:"type:text" json:"rejection_reason,omitempty"`
	SubmittedAt        *time.Time      `json:"submitted_at"`
	ApprovedAt         *time.Time      `json:"approved_at"`
	ApprovedByUserID   *uint           `json:"approved_by_user_id"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`

	// Associations
	Customer  Customer             `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Officer   *User                `gorm:"foreignKey:OfficerID" json:"officer,omitempty"`
	Schedules []RepaymentSchedule  `gorm:"foreignKey:ApplicationID" json:"schedules,omitempty"`
	History   []ApplicationHistory `gorm:"foreignKey:ApplicationID" json:"history,omitempty"`
}

// TableName specifies the table name for LoanApplication
func (LoanApplication) TableName() string {
	return "loan_applications"
}

// Application status constants
const (
	ApplicationStatusDraft       = "draft"
	ApplicationStatusSubmitted   = "submitted"
	ApplicationStatusUnderReview = "under_review"
	ApplicationStatusApproved    = "approved"
	ApplicationStatusRejected    = "rejected"
	ApplicationStatusModified    = "modified"
	ApplicationStatusClosed      = "closed"
)

// MaySubmit returns true if the application can be submitted for review
func (a *LoanApplication) MaySubmit() bool {
	return a.Status == ApplicationStatusDraft
}

// MayReview returns true if the application can move under review
func (a *LoanApplication) MayReview() bool {
	return a.Status == ApplicationStatusSubmitted
}

// MayApprove returns true if the application can be approved
func (a *LoanApplication) MayApprove() bool {
	return a.Status == ApplicationStatusSubmitted || a.Status == ApplicationStatusUnderReview
}

// MayReject returns true if the application can be rejected
func (a *LoanApplication) MayReject() bool {
	return a.Status == ApplicationStatusSubmitted || a.Status == ApplicationStatusUnderReview
}

// MayModify returns true if an approved application can be modified
func (a *LoanApplication) MayModify() bool {
	return a.Status == ApplicationStatusApproved || a.Status == ApplicationStatusModified
}

// IsApproved returns true once the application carries a repayment schedule
func (a *LoanApplication) IsApproved() bool {
	return a.Status == ApplicationStatusApproved || a.Status == ApplicationStatusModified
}

// Terms builds the engine input for this application. The caller supplies the
// principal and start date so modifications can recalculate with the
// remaining balance from today.
func (a *LoanApplication) Terms(principal decimal.Decimal, start time.Time) amortization.Terms {
	return amortization.Terms{
		Principal:         principal,
		AnnualRatePercent: a.InterestRate,
		TenureValue:       a.TermCount,
		TenureUnit:        amortization.TenureUnit(a.TermUnit),
		Frequency:         amortization.Frequency(a.Frequency),
		RepaymentMode:     amortization.RepaymentMode(a.RepaymentMode),
		InterestBasis:     amortization.InterestBasis(a.InterestBasis),
		Method:            amortization.Method(a.CalculationMethod),
		StartDate:         start,
	}
}

// ApplicationHistory records every material action taken on an application,
// with a snapshot of the terms at that moment.
type ApplicationHistory struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ApplicationID uint            `gorm:"not null;index" json:"application_id"`
	UserID        *uint           `json:"user_id"`
	Action        string          `gorm:"size:50;not null" json:"action"`
	Notes         *string         `gorm:"type:text" json:"notes"`
	Amount        decimal.Decimal `gorm:"type:decimal(16,2)" json:"amount"`
	InterestRate  decimal.Decimal `gorm:"type:decimal(7,4)" json:"interest_rate"`
	TermCount     decimal.Decimal `gorm:"type:decimal(8,2)" json:"term_count"`
	TermUnit      string          `json:"term_unit"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`

	// Associations
	Application LoanApplication `gorm:"foreignKey:ApplicationID" json:"-"`
	User        *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for ApplicationHistory
func (ApplicationHistory) TableName() string {
	return "loan_application_histories"
}

// History action constants
const (
	HistoryActionCreated   = "created"
	HistoryActionSubmitted = "submitted"
	HistoryActionReviewed  = "reviewed"
	HistoryActionApproved  = "approved"
	HistoryActionRejected  = "rejected"
	HistoryActionModified  = "modified"
	HistoryActionClosed    = "closed"
)

// Snapshot builds a history row from the application's current terms.
func (a *LoanApplication) Snapshot(action string, userID *uint, notes *string) ApplicationHistory {
	return ApplicationHistory{
		ApplicationID: a.ID,
		UserID:        userID,
		Action:        action,
		Notes:         notes,
		Amount:        a.Amount,
		InterestRate:  a.InterestRate,
		TermCount:     a.TermCount,
		TermUnit:      a.TermUnit,
	}
}

// ApplicationResponse is the JSON response format for loan applications
type ApplicationResponse struct {
	ID                 uint       `json:"id"`
	CustomerID         uint       `json:"customer_id"`
	CustomerName       string     `json:"customer_name,omitempty"`
	ProductName        string     `json:"product_name"`
	Amount             string     `json:"amount"`
	InterestRate       string     `json:"interest_rate"`
	TermCount          string     `json:"term_count"`
	TermUnit           string     `json:"term_unit"`
	Frequency          string     `json:"frequency"`
	RepaymentMode      string     `json:"repayment_mode"`
	InterestBasis      string     `json:"interest_basis"`
	CalculationMethod  string     `json:"calculation_method"`
	ExpiryDate         *time.Time `json:"expiry_date"`
	GracePeriodCount   *int       `json:"grace_period_count"`
	GracePeriodUnit    string     `json:"grace_period_unit"`
	Status             string     `json:"status"`
	RepaymentStartDate *time.Time `json:"repayment_start_date"`
	RejectionReason    *string    `json:"rejection_reason,omitempty"`
	SubmittedAt        *time.Time `json:"submitted_at"`
	ApprovedAt         *time.Time `json:"approved_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ToResponse converts LoanApplication to ApplicationResponse
func (a *LoanApplication) ToResponse() ApplicationResponse {
	resp := ApplicationResponse{
		ID:                 a.ID,
		CustomerID:         a.CustomerID,
		ProductName:        a.ProductName,
		Amount:             a.Amount.StringFixed(2),
		InterestRate:       a.InterestRate.StringFixed(2),
		TermCount:          a.TermCount.String(),
		TermUnit:           a.TermUnit,
		Frequency:          a.Frequency,
		RepaymentMode:      a.RepaymentMode,
		InterestBasis:      a.InterestBasis,
		CalculationMethod:  a.CalculationMethod,
		ExpiryDate:         a.ExpiryDate,
		GracePeriodCount:   a.GracePeriodCount,
		GracePeriodUnit:    a.GracePeriodUnit,
		Status:             a.Status,
		RepaymentStartDate: a.RepaymentStartDate,
		RejectionReason:    a.RejectionReason,
		SubmittedAt:        a.SubmittedAt,
		ApprovedAt:         a.ApprovedAt,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
	if a.Customer.ID != 0 {
		resp.CustomerName = a.Customer.FullName
	}
	return resp
}

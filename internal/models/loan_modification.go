package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanModification restructures an approved loan: a rate or term change plus
// an optional principal increase or decrease. Applying one deletes the
// pending future schedule rows and recalculates them from today against the
// remaining principal.
type LoanModification struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	ApplicationID      uint            `gorm:"not null;index" json:"application_id"`
	OldInterestRate    decimal.Decimal `gorm:"type:decimal(7,4)" json:"old_interest_rate"`
	NewInterestRate    decimal.Decimal `gorm:"type:decimal(7,4)" json:"new_interest_rate"`
	OldTermCount       decimal.Decimal `gorm:"type:decimal(8,2)" json:"old_term_count"`
	NewTermCount       decimal.Decimal `gorm:"type:decimal(8,2)" json:"new_term_count"`
	PrincipalDelta     decimal.Decimal `gorm:"type:decimal(16,2);default:0" json:"principal_delta"`
	RemainingPrincipal decimal.Decimal `gorm:"type:decimal(16,2)" json:"remaining_principal"`
	Reason             *string         `gorm:"type:text" json:"reason"`
	Status             string          `gorm:"default:requested;not null;index" json:"status"`
	RequestedBy        *uint           `json:"requested_by"`
	DecidedBy          *uint           `json:"decided_by"`
	DecidedAt          *time.Time      `json:"decided_at"`
	AppliedAt          *time.Time      `json:"applied_at"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`

	// Associations
	Application LoanApplication `gorm:"foreignKey:ApplicationID" json:"-"`
}

// TableName specifies the table name for LoanModification
func (LoanModification) TableName() string {
	return "loan_modifications"
}

// Modification status constants
const (
	ModificationStatusRequested = "requested"
	ModificationStatusApproved  = "approved"
	ModificationStatusApplied   = "applied"
	ModificationStatusRejected  = "rejected"
)

// MayApprove returns true if the modification can be approved
func (m *LoanModification) MayApprove() bool {
	return m.Status == ModificationStatusRequested
}

// MayReject returns true if the modification can be rejected
func (m *LoanModification) MayReject() bool {
	return m.Status == ModificationStatusRequested
}

// MayApply returns true once the modification is approved but not yet applied
func (m *LoanModification) MayApply() bool {
	return m.Status == ModificationStatusApproved
}

// ModificationResponse is the JSON response format for modifications
type ModificationResponse struct {
	ID                 uint       `json:"id"`
	ApplicationID      uint       `json:"application_id"`
	OldInterestRate    string     `json:"old_interest_rate"`
	NewInterestRate    string     `json:"new_interest_rate"`
	OldTermCount       string     `json:"old_term_count"`
	NewTermCount       string     `json:"new_term_count"`
	PrincipalDelta     string     `json:"principal_delta"`
	RemainingPrincipal string     `json:"remaining_principal"`
	Reason             *string    `json:"reason"`
	Status             string     `json:"status"`
	DecidedAt          *time.Time `json:"decided_at"`
	AppliedAt          *time.Time `json:"applied_at"`
	CreatedAt          time.Time  `json:"created_at"`
}

// ToResponse converts LoanModification to ModificationResponse
func (m *LoanModification) ToResponse() ModificationResponse {
	return ModificationResponse{
		ID:                 m.ID,
		ApplicationID:      m.ApplicationID,
		OldInterestRate:    m.OldInterestRate.StringFixed(2),
		NewInterestRate:    m.NewInterestRate.StringFixed(2),
		OldTermCount:       m.OldTermCount.String(),
		NewTermCount:       m.NewTermCount.String(),
		PrincipalDelta:     m.PrincipalDelta.StringFixed(2),
		RemainingPrincipal: m.RemainingPrincipal.StringFixed(2),
		Reason:             m.Reason,
		Status:             m.Status,
		DecidedAt:          m.DecidedAt,
		AppliedAt:          m.AppliedAt,
		CreatedAt:          m.CreatedAt,
	}
}

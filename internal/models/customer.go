package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a borrower. Customers do not authenticate; loan officers manage
// their records and applications on their behalf.
type Customer struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	FullName         string          `gorm:"not null" json:"full_name"`
	NationalID       string          `gorm:"column:national_id;uniqueIndex;not null" json:"national_id"`
	Email            string          `gorm:"index" json:"email"`
	Phone            string          `json:"phone"`
	Address          *string         `json:"address"`
	DateOfBirth      *time.Time      `gorm:"type:date" json:"date_of_birth"`
	EmploymentStatus string          `json:"employment_status"`
	Employer         *string         `json:"employer"`
	MonthlyIncome    decimal.Decimal `gorm:"type:decimal(16,2);default:0" json:"monthly_income"`
	CreditScore      int             `gorm:"default:0" json:"credit_score"`
	OfficerID        *uint           `gorm:"index" json:"officer_id"`
	DiscardedAt      *time.Time      `gorm:"index" json:"-"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	// Associations
	Officer      *User             `gorm:"foreignKey:OfficerID" json:"officer,omitempty"`
	Applications []LoanApplication `gorm:"foreignKey:CustomerID" json:"applications,omitempty"`
	Documents    []Document        `gorm:"foreignKey:CustomerID" json:"documents,omitempty"`
}

// TableName specifies the table name for Customer
func (Customer) TableName() string {
	return "customers"
}

// IsDiscarded returns true if the customer is soft-deleted
func (c *Customer) IsDiscarded() bool {
	return c.DiscardedAt != nil
}

// Employment status constants
const (
	EmploymentEmployed     = "employed"
	EmploymentSelfEmployed = "self_employed"
	EmploymentUnemployed   = "unemployed"
	EmploymentRetired      = "retired"
)

// CustomerResponse is the JSON response format for customers
type CustomerResponse struct {
	ID               uint       `json:"id"`
	FullName         string     `json:"full_name"`
	NationalID       string     `json:"national_id"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	Address          *string    `json:"address"`
	DateOfBirth      *time.Time `json:"date_of_birth"`
	EmploymentStatus string     `json:"employment_status"`
	Employer         *string    `json:"employer"`
	MonthlyIncome    string     `json:"monthly_income"`
	CreditScore      int        `json:"credit_score"`
	OfficerID        *uint      `json:"officer_id"`
	OfficerName      string     `json:"officer_name,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ToResponse converts Customer to CustomerResponse
func (c *Customer) ToResponse() CustomerResponse {
	resp := CustomerResponse{
		ID:               c.ID,
		FullName:         c.FullName,
		NationalID:       c.NationalID,
		Email:            c.Email,
		Phone:            c.Phone,
		Address:          c.Address,
		DateOfBirth:      c.DateOfBirth,
		EmploymentStatus: c.EmploymentStatus,
		Employer:         c.Employer,
		MonthlyIncome:    c.MonthlyIncome.StringFixed(2),
		CreditScore:      c.CreditScore,
		OfficerID:        c.OfficerID,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
	if c.Officer != nil && c.Officer.ID != 0 {
		resp.OfficerName = c.Officer.FullName
	}
	return resp
}

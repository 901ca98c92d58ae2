package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RepaymentSchedule is one persisted installment produced by the engine.
// TotalAmount stays fixed; PaidAmount tracks base installment money and
// PenaltyPaid tracks penalty money, so the two never have to be inferred
// from each other.
type RepaymentSchedule struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	ApplicationID  uint            `gorm:"not null;index" json:"application_id"`
	Period         int             `gorm:"not null" json:"period"`
	Principal      decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"principal"`
	Interest       decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"interest"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"total_amount"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(16,2);default:0" json:"paid_amount"`
	PenaltyAmount  decimal.Decimal `gorm:"type:decimal(16,2);default:0" json:"penalty_amount"`
	PenaltyPaid    decimal.Decimal `gorm:"type:decimal(16,2);default:0" json:"penalty_paid"`
	DueDate        time.Time       `gorm:"type:date;not null;index" json:"due_date"`
	Status         string          `gorm:"default:pending;not null;index" json:"status"`
	PaidAt         *time.Time      `json:"paid_at"`
	ReminderSentAt *time.Time      `gorm:"column:reminder_sent_at" json:"-"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Associations
	Application LoanApplication `gorm:"foreignKey:ApplicationID" json:"-"`
}

// TableName specifies the table name for RepaymentSchedule
func (RepaymentSchedule) TableName() string {
	return "repayment_schedules"
}

// Schedule status constants
const (
	ScheduleStatusPending   = "pending"
	ScheduleStatusPartial   = "partial"
	ScheduleStatusPaid      = "paid"
	ScheduleStatusCancelled = "cancelled"
)

// Outstanding returns how much of this installment is still owed, base and
// penalty combined.
func (s *RepaymentSchedule) Outstanding() decimal.Decimal {
	return s.TotalAmount.Sub(s.PaidAmount).Add(s.PenaltyOutstanding())
}

// PenaltyOutstanding returns the accrued penalty not yet collected.
func (s *RepaymentSchedule) PenaltyOutstanding() decimal.Decimal {
	return decimal.Max(decimal.Zero, s.PenaltyAmount.Sub(s.PenaltyPaid))
}

// UnpaidPrincipal returns the principal portion still owed on this
// installment. Base payments cover interest before principal.
func (s *RepaymentSchedule) UnpaidPrincipal() decimal.Decimal {
	paidToPrincipal := decimal.Max(decimal.Zero, s.PaidAmount.Sub(s.Interest))
	return decimal.Max(decimal.Zero, s.Principal.Sub(paidToPrincipal))
}

// IsSettled returns true when nothing is owed on this installment
func (s *RepaymentSchedule) IsSettled() bool {
	return s.Status == ScheduleStatusPaid
}

// IsOverdue returns true if the installment is unpaid past its due date
func (s *RepaymentSchedule) IsOverdue() bool {
	return (s.Status == ScheduleStatusPending || s.Status == ScheduleStatusPartial) &&
		time.Now().After(s.DueDate)
}

// OverdueDays returns the number of days the installment is overdue
func (s *RepaymentSchedule) OverdueDays() int {
	if !s.IsOverdue() {
		return 0
	}
	return int(time.Since(s.DueDate).Hours() / 24)
}

// ScheduleResponse is the JSON response format for schedule rows
type ScheduleResponse struct {
	ID            uint       `json:"id"`
	ApplicationID uint       `json:"application_id"`
	Period        int        `json:"period"`
	Principal     string     `json:"principal"`
	Interest      string     `json:"interest"`
	TotalAmount   string     `json:"total_amount"`
	PaidAmount    string     `json:"paid_amount"`
	PenaltyAmount string     `json:"penalty_amount"`
	PenaltyPaid   string     `json:"penalty_paid"`
	DueDate       string     `json:"due_date"`
	Status        string     `json:"status"`
	OverdueDays   int        `json:"overdue_days"`
	PaidAt        *time.Time `json:"paid_at"`
}

// ToResponse converts RepaymentSchedule to ScheduleResponse
func (s *RepaymentSchedule) ToResponse() ScheduleResponse {
	return ScheduleResponse{
		ID:            s.ID,
		ApplicationID: s.ApplicationID,
		Period:        s.Period,
		Principal:     s.Principal.StringFixed(2),
		Interest:      s.Interest.StringFixed(2),
		TotalAmount:   s.TotalAmount.StringFixed(2),
		PaidAmount:    s.PaidAmount.StringFixed(2),
		PenaltyAmount: s.PenaltyAmount.StringFixed(2),
		PenaltyPaid:   s.PenaltyPaid.StringFixed(2),
		DueDate:       s.DueDate.Format("2006-01-02"),
		Status:        s.Status,
		OverdueDays:   s.OverdueDays(),
		PaidAt:        s.PaidAt,
	}
}

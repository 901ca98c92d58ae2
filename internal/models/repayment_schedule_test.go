package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestScheduleOutstanding(t *testing.T) {
	sched := &RepaymentSchedule{
		TotalAmount:   decimal.NewFromInt(1000),
		PenaltyAmount: decimal.NewFromInt(50),
		PaidAmount:    decimal.NewFromInt(200),
	}
	assert.True(t, decimal.NewFromInt(850).Equal(sched.Outstanding()))

	sched.PenaltyPaid = decimal.NewFromInt(50)
	assert.True(t, decimal.NewFromInt(800).Equal(sched.Outstanding()))

	sched.PaidAmount = decimal.NewFromInt(1000)
	assert.True(t, sched.Outstanding().IsZero())
}

func TestSchedulePenaltyOutstanding(t *testing.T) {
	sched := &RepaymentSchedule{
		PenaltyAmount: decimal.NewFromInt(50),
		PenaltyPaid:   decimal.NewFromInt(30),
	}
	assert.True(t, decimal.NewFromInt(20).Equal(sched.PenaltyOutstanding()))

	sched.PenaltyPaid = decimal.NewFromInt(50)
	assert.True(t, sched.PenaltyOutstanding().IsZero())
}

func TestScheduleUnpaidPrincipal(t *testing.T) {
	tests := []struct {
		name     string
		paid     string
		expected string
	}{
		{"nothing paid", "0", "100"},
		{"interest covered", "10", "100"},
		{"into principal", "60", "50"},
		{"fully paid", "110", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := &RepaymentSchedule{
				Principal:   decimal.NewFromInt(100),
				Interest:    decimal.NewFromInt(10),
				TotalAmount: decimal.NewFromInt(110),
				PaidAmount:  decimal.RequireFromString(tt.paid),
			}
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(sched.UnpaidPrincipal()))
		})
	}
}

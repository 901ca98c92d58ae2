package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PGohila/LMS/internal/models"
)

func TestApplyRepaymentRejectsNonPositiveAmount(t *testing.T) {
	svc := NewRepaymentService(nil, nil, nil, nil, nil)

	_, err := svc.ApplyRepayment(context.Background(), 1, decimal.Zero, nil, 1)
	require.Error(t, err)

	_, err = svc.ApplyRepayment(context.Background(), 1, decimal.NewFromInt(-50), nil, 1)
	require.Error(t, err)
}

func dueRow(id uint, dueDaysAgo int, principal, interest, penalty int64) models.RepaymentSchedule {
	p := decimal.NewFromInt(principal)
	i := decimal.NewFromInt(interest)
	return models.RepaymentSchedule{
		ID:            id,
		ApplicationID: 1,
		Principal:     p,
		Interest:      i,
		TotalAmount:   p.Add(i),
		PenaltyAmount: decimal.NewFromInt(penalty),
		DueDate:       time.Now().AddDate(0, 0, -dueDaysAgo),
		Status:        models.ScheduleStatusPending,
	}
}

func TestAllocateRepaymentPaysPenaltiesOldestFirst(t *testing.T) {
	schedules := []models.RepaymentSchedule{
		dueRow(1, 60, 900, 100, 40),
		dueRow(2, 30, 900, 100, 10),
	}

	allocs, surplus := allocateRepayment(schedules, decimal.NewFromInt(45), time.Now())
	require.Len(t, allocs, 2)

	assert.Equal(t, models.TransactionPenaltyPayment, allocs[0].Type)
	assert.True(t, decimal.NewFromInt(40).Equal(allocs[0].Amount))
	assert.Equal(t, uint(1), allocs[0].Schedule.ID)

	assert.Equal(t, models.TransactionPenaltyPayment, allocs[1].Type)
	assert.True(t, decimal.NewFromInt(5).Equal(allocs[1].Amount))
	assert.Equal(t, uint(2), allocs[1].Schedule.ID)

	assert.True(t, surplus.IsZero())
	assert.Equal(t, models.ScheduleStatusPartial, schedules[0].Status)
}

func TestAllocateRepaymentNeverCollectsPenaltyTwice(t *testing.T) {
	schedules := []models.RepaymentSchedule{
		dueRow(1, 30, 900, 100, 50),
	}

	// Two small payments against a 50 penalty. The first takes 30, the
	// second must only take the remaining 20, not re-read the penalty as
	// fully owed.
	allocs, surplus := allocateRepayment(schedules, decimal.NewFromInt(30), time.Now())
	require.Len(t, allocs, 1)
	assert.True(t, decimal.NewFromInt(30).Equal(allocs[0].Amount))
	assert.True(t, surplus.IsZero())
	assert.True(t, decimal.NewFromInt(30).Equal(schedules[0].PenaltyPaid))

	allocs, surplus = allocateRepayment(schedules, decimal.NewFromInt(30), time.Now())
	require.Len(t, allocs, 1)
	assert.Equal(t, models.TransactionPenaltyPayment, allocs[0].Type)
	assert.True(t, decimal.NewFromInt(20).Equal(allocs[0].Amount))
	assert.True(t, decimal.NewFromInt(50).Equal(schedules[0].PenaltyPaid))
	assert.True(t, schedules[0].PenaltyOutstanding().IsZero())

	// The 10 left over is not enough to settle the installment in full.
	assert.True(t, decimal.NewFromInt(10).Equal(surplus))
	assert.True(t, decimal.Zero.Equal(schedules[0].PaidAmount))
}

func TestAllocateRepaymentSettlesOldestFullCoverOnly(t *testing.T) {
	schedules := []models.RepaymentSchedule{
		dueRow(1, 60, 400, 100, 0),
		dueRow(2, 30, 400, 100, 0),
	}

	allocs, surplus := allocateRepayment(schedules, decimal.NewFromInt(700), time.Now())
	require.Len(t, allocs, 1)

	assert.Equal(t, models.TransactionRepayment, allocs[0].Type)
	assert.Equal(t, uint(1), allocs[0].Schedule.ID)
	assert.True(t, decimal.NewFromInt(500).Equal(allocs[0].Amount))
	assert.Equal(t, models.ScheduleStatusPaid, schedules[0].Status)
	require.NotNil(t, schedules[0].PaidAt)

	// 200 does not cover the second installment, so it is untouched and the
	// remainder is parked on the advance balance.
	assert.Equal(t, models.ScheduleStatusPending, schedules[1].Status)
	assert.True(t, decimal.Zero.Equal(schedules[1].PaidAmount))
	assert.True(t, decimal.NewFromInt(200).Equal(surplus))
}

func TestAllocateRepaymentSettlementCoversPenalty(t *testing.T) {
	schedules := []models.RepaymentSchedule{
		dueRow(1, 30, 900, 100, 50),
	}

	allocs, surplus := allocateRepayment(schedules, decimal.NewFromInt(1050), time.Now())
	require.Len(t, allocs, 2)

	assert.Equal(t, models.TransactionPenaltyPayment, allocs[0].Type)
	assert.True(t, decimal.NewFromInt(50).Equal(allocs[0].Amount))
	assert.Equal(t, models.TransactionRepayment, allocs[1].Type)
	assert.True(t, decimal.NewFromInt(1000).Equal(allocs[1].Amount))

	assert.True(t, surplus.IsZero())
	assert.True(t, schedules[0].Outstanding().IsZero())
	assert.True(t, decimal.NewFromInt(1000).Equal(schedules[0].PaidAmount))
	assert.True(t, decimal.NewFromInt(50).Equal(schedules[0].PenaltyPaid))
}

func TestAllocateAdvanceAppliesPartially(t *testing.T) {
	schedules := []models.RepaymentSchedule{
		dueRow(1, 30, 400, 100, 0),
	}

	allocs, left := allocateAdvance(schedules, decimal.NewFromInt(300), time.Now())
	require.Len(t, allocs, 1)

	assert.Equal(t, models.TransactionAdvanceApplied, allocs[0].Type)
	assert.True(t, decimal.NewFromInt(300).Equal(allocs[0].Amount))
	assert.Equal(t, models.ScheduleStatusPartial, schedules[0].Status)
	assert.True(t, decimal.NewFromInt(300).Equal(schedules[0].PaidAmount))
	assert.True(t, decimal.NewFromInt(200).Equal(schedules[0].Outstanding()))
	assert.True(t, left.IsZero())
}

func TestAllocateAdvanceDrainsAcrossRows(t *testing.T) {
	schedules := []models.RepaymentSchedule{
		dueRow(1, 60, 400, 100, 20),
		dueRow(2, 30, 400, 100, 0),
	}

	allocs, left := allocateAdvance(schedules, decimal.NewFromInt(620), time.Now())
	require.Len(t, allocs, 2)

	// First row settles in full, penalty included.
	assert.True(t, decimal.NewFromInt(520).Equal(allocs[0].Amount))
	assert.True(t, decimal.NewFromInt(20).Equal(allocs[0].Penalty))
	assert.Equal(t, models.ScheduleStatusPaid, schedules[0].Status)

	// The remaining 100 lands on the second row as a partial payment.
	assert.True(t, decimal.NewFromInt(100).Equal(allocs[1].Amount))
	assert.Equal(t, models.ScheduleStatusPartial, schedules[1].Status)
	assert.True(t, left.IsZero())
}

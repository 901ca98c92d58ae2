package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmountToWords(t *testing.T) {
	tests := []struct {
		amount   string
		expected string
	}{
		{"0", "ZERO AND 00/100"},
		{"15", "FIFTEEN AND 00/100"},
		{"21", "TWENTY-ONE AND 00/100"},
		{"100", "ONE HUNDRED AND 00/100"},
		{"1500.50", "ONE THOUSAND FIVE HUNDRED AND 50/100"},
		{"120000", "ONE HUNDRED TWENTY THOUSAND AND 00/100"},
		{"1000000", "ONE MILLION AND 00/100"},
		{"2034567.89", "TWO MILLION THIRTY-FOUR THOUSAND FIVE HUNDRED SIXTY-SEVEN AND 89/100"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.expected, AmountToWords(decimal.RequireFromString(tt.amount)))
		})
	}
}

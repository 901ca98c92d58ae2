package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountToWords converts a monetary amount to uppercase English words,
// the form used on printed loan agreements.
// Example: 1500.50 -> "ONE THOUSAND FIVE HUNDRED AND 50/100"
func AmountToWords(amount decimal.Decimal) string {
	integerPart := amount.IntPart()
	cents := amount.Sub(decimal.NewFromInt(integerPart)).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if cents < 0 {
		cents = -cents
	}

	words := convertNumberToWords(integerPart)
	return fmt.Sprintf("%s AND %02d/100", strings.ToUpper(words), cents)
}

func convertNumberToWords(n int64) string {
	if n == 0 {
		return "ZERO"
	}

	if n < 0 {
		return "MINUS " + convertNumberToWords(-n)
	}

	if n < 20 {
		return smalls[n]
	}

	if n < 100 {
		u := n % 10
		t := n / 10
		if u == 0 {
			return tens[t]
		}
		return fmt.Sprintf("%s-%s", tens[t], smalls[u])
	}

	if n < 1000 {
		hundredsPart := n / 100
		remainder := n % 100
		if remainder == 0 {
			return smalls[hundredsPart] + " HUNDRED"
		}
		return fmt.Sprintf("%s HUNDRED %s", smalls[hundredsPart], convertNumberToWords(remainder))
	}

	if n < 1000000 {
		thousands := n / 1000
		remainder := n % 1000
		text := convertNumberToWords(thousands) + " THOUSAND"
		if remainder == 0 {
			return text
		}
		return fmt.Sprintf("%s %s", text, convertNumberToWords(remainder))
	}

	if n < 1000000000 {
		millions := n / 1000000
		remainder := n % 1000000
		text := convertNumberToWords(millions) + " MILLION"
		if remainder == 0 {
			return text
		}
		return fmt.Sprintf("%s %s", text, convertNumberToWords(remainder))
	}

	if n < 1000000000000 {
		billions := n / 1000000000
		remainder := n % 1000000000
		text := convertNumberToWords(billions) + " BILLION"
		if remainder == 0 {
			return text
		}
		return fmt.Sprintf("%s %s", text, convertNumberToWords(remainder))
	}

	return "NUMBER TOO LARGE"
}

var smalls = []string{
	"", "ONE", "TWO", "THREE", "FOUR", "FIVE", "SIX", "SEVEN", "EIGHT", "NINE",
	"TEN", "ELEVEN", "TWELVE", "THIRTEEN", "FOURTEEN", "FIFTEEN", "SIXTEEN",
	"SEVENTEEN", "EIGHTEEN", "NINETEEN",
}

var tens = []string{
	"", "", "TWENTY", "THIRTY", "FORTY", "FIFTY", "SIXTY", "SEVENTY", "EIGHTY", "NINETY",
}

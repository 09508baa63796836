package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// BRL renders a decimal amount in Brazilian currency format with thousands
// separators (e.g., "R$ 1.234,56"; negatives as "-R$ 1.234,56").
func BRL(amount decimal.Decimal) string {
	neg := amount.IsNegative()
	formatted := formatPositive(amount.Abs())
	if neg {
		return "-R$ " + formatted
	}
	return "R$ " + formatted
}

func formatPositive(value decimal.Decimal) string {
	fixed := value.StringFixed(2)
	parts := strings.SplitN(fixed, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte('.')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "," + decPart
}

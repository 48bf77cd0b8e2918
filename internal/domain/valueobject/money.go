package valueobject

import "github.com/shopspring/decimal"

// MoneyScale is the number of decimal places every stored amount keeps.
const MoneyScale int32 = 2

// IsWholeCents reports whether d has no digits beyond the cent.
// Trailing zeros do not count, so 1.100 is accepted and 0.333 is not.
func IsWholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyScale))
}

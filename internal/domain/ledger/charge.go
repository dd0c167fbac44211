package ledger

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Charge is percentage% of rate, rounded half-up to cents.
// Each participant is rounded on its own, so the charges of one firing
// may differ from the rate by a few cents.
func Charge(percentage, rate decimal.Decimal) decimal.Decimal {
	return percentage.Mul(rate).Div(hundred).Round(2)
}

// Debit returns the balance after subtracting amount.
func Debit(balance, amount decimal.Decimal) decimal.Decimal {
	return balance.Sub(amount)
}

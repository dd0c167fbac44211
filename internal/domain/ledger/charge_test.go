//go:build unit

package ledger_test

import (
	"testing"

	"kilnbook/internal/domain/ledger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCharge(t *testing.T) {
	tests := []struct {
		name       string
		percentage string
		rate       string
		want       string
	}{
		{name: "sixty percent of ten", percentage: "60", rate: "10.00", want: "6.00"},
		{name: "forty percent of ten", percentage: "40", rate: "10.00", want: "4.00"},
		{name: "override rate", percentage: "40", rate: "7.50", want: "3.00"},
		{name: "full share", percentage: "100", rate: "12.34", want: "12.34"},
		{name: "third rounds down", percentage: "33.33", rate: "10.00", want: "3.33"},
		{name: "half cent rounds up", percentage: "50", rate: "0.05", want: "0.03"},
		{name: "zero rate", percentage: "100", rate: "0", want: "0.00"},
		{name: "zero share", percentage: "0", rate: "25.00", want: "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ledger.Charge(d(tt.percentage), d(tt.rate))
			assert.True(t, d(tt.want).Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestDebit(t *testing.T) {
	assert.True(t, d("-6.00").Equal(ledger.Debit(decimal.Zero, d("6.00"))))
	assert.True(t, d("4.50").Equal(ledger.Debit(d("10.50"), d("6.00"))))
}

// Package money provides integer-won arithmetic for settlement calculations.
// All amounts are whole currency units (KRW has no minor unit); rounding of
// rate multiplications goes through decimal.Decimal to avoid float drift.
package money

import (
	"github.com/shopspring/decimal"
)

// Amount is a monetary value in whole won.
type Amount = int64

// VATRate is the flat VAT multiplier applied to truncated subtotals.
var VATRate = decimal.NewFromFloat(1.1)

// RoundRate returns round(amount × rate), half away from zero.
func RoundRate(amount Amount, rate float64) Amount {
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromFloat(rate)).
		Round(0).
		IntPart()
}

// DiscountedUnit returns round(listPrice × (1 − discountRate)).
func DiscountedUnit(listPrice Amount, discountRate float64) Amount {
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(discountRate))
	return decimal.NewFromInt(listPrice).Mul(factor).Round(0).IntPart()
}

// TruncateToThousand floors a sum to the nearest lower multiple of 1,000.
// Settlement sums are non-negative in practice; a negative input truncates
// toward zero.
func TruncateToThousand(a Amount) Amount {
	return a / 1000 * 1000
}

// AddVAT returns round(a × 1.1), the VAT-inclusive total for a truncated
// subtotal.
func AddVAT(a Amount) Amount {
	return decimal.NewFromInt(a).Mul(VATRate).Round(0).IntPart()
}

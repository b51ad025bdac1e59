// Package money provides the fixed-point monetary helpers shared by the
// allocation and reconciliation code. Stored amounts stay float64 like
// the rest of the models, but every accumulation and conversion runs
// through shopspring/decimal so rounding error does not compound across
// many allocations.
package money

import (
	"math"

	"github.com/shopspring/decimal"
)

// Epsilon is the tolerance, in the payment's own currency, used for
// monetary equality checks. Validation never compares against zero.
const Epsilon = 0.01

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(x float64) float64 {
	f, _ := decimal.NewFromFloat(x).Round(2).Float64()
	return f
}

// ToUSD converts an amount to USD using its rate-to-USD, rounded for
// storage.
func ToUSD(amount, rateToUSD float64) float64 {
	f, _ := decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(rateToUSD)).
		Round(2).Float64()
	return f
}

// FromUSD converts a USD amount into a currency using that currency's
// rate-to-USD. A non-positive rate yields zero rather than a division
// fault; callers treat that as "conversion unavailable".
func FromUSD(usdAmount, rateToUSD float64) float64 {
	if rateToUSD <= 0 {
		return 0
	}
	f, _ := decimal.NewFromFloat(usdAmount).
		Div(decimal.NewFromFloat(rateToUSD)).
		Round(2).Float64()
	return f
}

// Sum adds amounts without intermediate rounding.
func Sum(amounts []float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	f, _ := total.Float64()
	return f
}

// EqualWithin reports whether two amounts match within eps.
func EqualWithin(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// NonNegative clamps a derived balance at zero; overpaid pledges report
// a zero balance, never a negative one.
func NonNegative(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}

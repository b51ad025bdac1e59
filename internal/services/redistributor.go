package services

import (
	"github.com/shopspring/decimal"

	"github.com/givenly/donor-api/pkg/money"
)

// Redistribution strategy constants
const (
	StrategyProportional = "proportional"
	StrategyEqual        = "equal"
	StrategyCustom       = "custom"
)

// Redistribute recomputes allocation amounts for a new payment total.
//
// proportional keeps each allocation's share of the old total; equal
// divides the target evenly; custom is a pass-through guard that leaves
// the amounts for the caller to edit by hand. After rounding, the whole
// residual is added to the first allocation: deterministic and
// auditable, at the cost of concentrating rounding noise there.
func Redistribute(allocations []AllocationInput, newTotal float64, strategy string) []AllocationInput {
	out := make([]AllocationInput, len(allocations))
	copy(out, allocations)

	if len(out) == 0 || strategy == StrategyCustom {
		return out
	}

	target := decimal.NewFromFloat(newTotal)

	switch strategy {
	case StrategyProportional:
		current := decimal.Zero
		for _, a := range out {
			current = current.Add(decimal.NewFromFloat(a.Amount))
		}
		// Without a positive current total there are no ratios to
		// preserve; leave the amounts alone.
		if !current.IsPositive() {
			return out
		}
		for i := range out {
			share := decimal.NewFromFloat(out[i].Amount).Div(current)
			out[i].Amount, _ = target.Mul(share).Round(2).Float64()
		}

	case StrategyEqual:
		each, _ := target.Div(decimal.NewFromInt(int64(len(out)))).Round(2).Float64()
		for i := range out {
			out[i].Amount = each
		}

	default:
		return out
	}

	// Assign the rounding residual to the first allocation so the set
	// sums exactly to the target.
	sum := decimal.Zero
	for _, a := range out {
		sum = sum.Add(decimal.NewFromFloat(a.Amount))
	}
	residual := target.Sub(sum)
	if !residual.IsZero() {
		out[0].Amount, _ = decimal.NewFromFloat(out[0].Amount).Add(residual).Round(2).Float64()
	}

	return out
}

// AutoRedistribute applies Redistribute only when auto-adjust is enabled
// and the current total diverges from the target by more than the
// epsilon. Otherwise the caller sees the mismatch and redistributes
// manually. The returned bool reports whether amounts changed.
func AutoRedistribute(allocations []AllocationInput, newTotal float64, strategy string, autoAdjust bool) ([]AllocationInput, bool) {
	if !autoAdjust {
		return allocations, false
	}

	amounts := make([]float64, len(allocations))
	for i, a := range allocations {
		amounts[i] = a.Amount
	}
	if money.EqualWithin(money.Sum(amounts), newTotal, money.Epsilon) {
		return allocations, false
	}

	return Redistribute(allocations, newTotal, strategy), true
}

// PreviewRedistribution computes the allocation set a caller would get
// for a new total. Without auto-adjust it always redistributes; with
// auto-adjust it defers to AutoRedistribute, which skips sets already
// summing to the target. The returned bool reports whether amounts
// changed.
func PreviewRedistribution(allocations []AllocationInput, newTotal float64, strategy string, autoAdjust bool) ([]AllocationInput, bool) {
	if autoAdjust {
		return AutoRedistribute(allocations, newTotal, strategy, true)
	}
	return Redistribute(allocations, newTotal, strategy), true
}

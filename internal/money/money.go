// Package money provides cent-precision helpers for monetary amounts.
//
// Amounts cross package boundaries as float64 fixed to two decimals.
// Arithmetic that could introduce sub-cent noise goes through
// shopspring/decimal so rounding happens at the step that produced the
// value, not only at aggregation time.
package money

import "github.com/shopspring/decimal"

// Epsilon is the threshold below which a balance or transfer is treated as
// zero. It matches the smallest representable amount, one cent.
const Epsilon = 0.01

var hundred = decimal.NewFromInt(100)

// Round2 rounds v to two decimal places, half away from zero.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Sum adds the given amounts, rounding after each addition.
func Sum(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a)).Round(2)
	}
	f, _ := total.Float64()
	return f
}

// SplitEqually divides total into n cent-exact shares that sum to
// Round2(total). Leftover cents are assigned to the earliest shares, so the
// first share may be one cent larger (for a positive total) than the rest.
// Returns nil when n <= 0.
func SplitEqually(total float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	cents := decimal.NewFromFloat(total).Round(2).Mul(hundred).IntPart()
	base := cents / int64(n)
	rem := cents - base*int64(n)

	shares := make([]float64, n)
	for i := range shares {
		c := base
		switch {
		case rem > 0:
			c++
			rem--
		case rem < 0:
			c--
			rem++
		}
		shares[i] = float64(c) / 100
	}
	return shares
}

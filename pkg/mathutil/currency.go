// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/catalog-quota/pkg/constants"
	"github.com/shopspring/decimal"
)

// RoundUnit rounds a value half-up to the nearest whole currency unit.
// Negative values round half away from zero.
func RoundUnit(val float64) float64 {
	f, _ := decimal.NewFromFloat(val).Round(0).Float64()
	return f
}

// Round2 rounds a value to two decimals for display purposes.
func Round2(val float64) float64 {
	f, _ := decimal.NewFromFloat(val).Round(2).Float64()
	return f
}

// Equal reports whether two values are equal within constants.ValueTolerance.
func Equal(a, b float64) bool {
	return WithinTolerance(a, b, constants.ValueTolerance)
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// InRange reports whether min <= val <= max. An inverted range contains nothing.
func InRange(val, min, max float64) bool {
	if min > max {
		return false
	}
	return val >= min && val <= max
}

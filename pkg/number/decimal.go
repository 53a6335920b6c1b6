package number

import (
	"github.com/shopspring/decimal"
)

// ValuePrecision is the number of decimal places kept for base currency
// values and share balances.
const ValuePrecision = 8

var (
	One = decimal.New(1, 0)
	// Smallest representable balance unit.
	Unit = decimal.New(1, -ValuePrecision)
	// MaxHealth stands in for an unbounded health factor when a user has
	// no debt.
	MaxHealth = decimal.New(1, 18)
)

func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

// Ceil rounds d up at the given precision.
func Ceil(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Shift(precision).Ceil().Shift(-precision)
}

// Floor rounds d down at the given precision.
func Floor(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Shift(precision).Floor().Shift(-precision)
}

// CeilValue rounds a balance or value up. Liabilities round against the
// protocol, so debt conversions go through here.
func CeilValue(d decimal.Decimal) decimal.Decimal {
	return Ceil(d, ValuePrecision)
}

// FloorValue rounds a balance or value down. Collateral conversions go
// through here.
func FloorValue(d decimal.Decimal) decimal.Decimal {
	return Floor(d, ValuePrecision)
}

// DivCeil divides a by b rounding the quotient up, or returns zero when b
// is not positive.
func DivCeil(a, b decimal.Decimal) decimal.Decimal {
	if !b.IsPositive() {
		return decimal.Zero
	}
	return Ceil(a.DivRound(b, ValuePrecision+4), ValuePrecision)
}

// DivFloor divides a by b rounding the quotient down, or returns zero when
// b is not positive.
func DivFloor(a, b decimal.Decimal) decimal.Decimal {
	if !b.IsPositive() {
		return decimal.Zero
	}
	return Floor(a.DivRound(b, ValuePrecision+4), ValuePrecision)
}

// Clamp limits d into [min, max].
func Clamp(d, min, max decimal.Decimal) decimal.Decimal {
	if d.LessThan(min) {
		return min
	}
	if d.GreaterThan(max) {
		return max
	}
	return d
}

// Package money centraliza el redondeo monetario. Todos los montos
// persistidos o comparados pasan por Round antes de tocar la base.
package money

import "github.com/shopspring/decimal"

// Round quantizes d to 2 decimal places, rounding half away from zero
// (10.005 -> 10.01). Never uses binary floating point.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FromPtr returns the rounded value of p, or zero when p is nil.
func FromPtr(p *decimal.Decimal) decimal.Decimal {
	if p == nil {
		return decimal.Zero.Round(2)
	}
	return p.Round(2)
}

// Max returns the greater of a and b.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThanOrEqual(b) {
		return a
	}
	return b
}

// Package money provides a decimal currency value that renders as a plain
// JSON number with a fixed two-decimal scale (9.99, not "9.99" or 9.9900).
package money

import "github.com/shopspring/decimal"

// Money wraps a decimal and owns its JSON representation. Arithmetic and
// database encoding come from the embedded decimal.
type Money struct {
	decimal.Decimal
}

// New wraps a decimal as Money.
func New(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// RequireFromString parses a decimal string, panicking on invalid input.
// Intended for constants and tests.
func RequireFromString(s string) Money {
	return Money{Decimal: decimal.RequireFromString(s)}
}

// MarshalJSON renders the value as an unquoted number with two decimal places.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.StringFixed(2)), nil
}

// UnmarshalJSON accepts both quoted and unquoted decimal numbers.
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.Decimal.UnmarshalJSON(data)
}

// Package core holds the domain model for the reselling ledger:
// entities, fixed-point money, and the computed-view logic for
// inventory valuation and monthly cash flow.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a fixed-point currency amount carried as integer cents.
// The API boundary speaks 2-decimal strings ("5.00"); arithmetic that
// needs sub-cent precision goes through shopspring/decimal.
type Money struct {
	Cents int64
}

// suggestedMarkup is the resale markup applied to purchase unit prices.
var suggestedMarkup = decimal.New(13, -1) // 1.30

// ParseMoney converts a decimal string to Money with half-up rounding
// on the third decimal place. Accepts both dot and comma separators.
// Negative amounts are rejected; zero is allowed and validated by the
// entity that carries the amount.
func ParseMoney(s string) (Money, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if d.Sign() < 0 {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Round(2).Shift(2)
	return Money{Cents: cents.IntPart()}, nil
}

// Decimal returns the amount as a 2-decimal decimal value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String formats the amount with exactly two decimals, e.g. "50.00".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MulQuantity returns the line total for a quantity of units.
func (m Money) MulQuantity(qty int64) Money {
	return Money{Cents: m.Cents * qty}
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Sub returns the difference of two amounts.
func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.Cents == 0
}

// SuggestedResalePrice derives the suggested price from a purchase unit
// price: unit × 1.30, rounded half-up to two decimals. Stored
// redundantly on purchases and recomputed whenever the unit price
// changes; client-supplied values are ignored.
func SuggestedResalePrice(unit Money) Money {
	cents := unit.Decimal().Mul(suggestedMarkup).Round(2).Shift(2)
	return Money{Cents: cents.IntPart()}
}

// MarshalJSON encodes the amount as a quoted 2-decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON decodes a quoted decimal string. Unlike ParseMoney it
// accepts negative amounts, since cash-flow outputs carry signed
// balances.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if err != nil {
		return ErrInvalidAmount
	}
	m.Cents = d.Round(2).Shift(2).IntPart()
	return nil
}

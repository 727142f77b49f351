// Package money provides fixed-point currency arithmetic in minor units.
//
// All balances and prices in the system are carried as int64 minor units in
// the owning account's native currency. Conversion between currencies happens
// only at display time, never inside business logic.
package money

import (
	"errors"
	"fmt"
)

// Currency enumerates the currencies the workshop trades in.
type Currency string

const (
	VND Currency = "VND"
	RUB Currency = "RUB"
)

// ErrUnknownCurrency indicates an unsupported currency code.
var ErrUnknownCurrency = errors.New("money: unknown currency")

// ParseCurrency validates a currency code.
func ParseCurrency(code string) (Currency, error) {
	switch Currency(code) {
	case VND:
		return VND, nil
	case RUB:
		return RUB, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
}

// Exponent returns the number of minor-unit decimal places for the currency.
func (c Currency) Exponent() int {
	if c == RUB {
		return 2
	}
	return 0
}

// Amount is a monetary value in minor units of some currency. The currency is
// tracked alongside the amount by the owning record, not inside the value.
type Amount int64

// MulQty multiplies a unit price by an integer quantity.
func (a Amount) MulQty(qty int64) Amount {
	return Amount(int64(a) * qty)
}

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool {
	return a < 0
}

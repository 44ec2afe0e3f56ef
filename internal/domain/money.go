package domain

import (
	"errors" // Error values

	"github.com/shopspring/decimal" // Arbitrary precision decimals
)

// minorUnits is the number of decimal places an Amount carries
const minorUnits = 2

// ErrTooPrecise is returned when a value has more decimal places than a cent
var ErrTooPrecise = errors.New("amount has more than 2 decimal places")

// Amount is a monetary value held as integer minor units (cents)
type Amount int64

// AmountFromDecimal converts a decimal to an Amount, rejecting sub-cent precision
func AmountFromDecimal(d decimal.Decimal) (Amount, error) {
	shifted := d.Shift(minorUnits) // Move the decimal point to cents
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, ErrTooPrecise
	}
	return Amount(shifted.IntPart()), nil
}

// MustAmount parses a decimal literal such as "42.50" and panics on bad input
func MustAmount(s string) Amount {
	a, err := AmountFromDecimal(decimal.RequireFromString(s))
	if err != nil {
		panic(err)
	}
	return a
}

// Decimal returns the amount in major units
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -minorUnits)
}

// String formats the amount with exactly two decimal places
func (a Amount) String() string {
	return a.Decimal().StringFixed(minorUnits)
}

// MarshalJSON renders the amount as a JSON number in major units
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal().String()), nil // Trailing zeros trimmed, e.g. 42.5
}

// UnmarshalJSON accepts a JSON number or numeric string in major units
func (a *Amount) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	v, err := AmountFromDecimal(d)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

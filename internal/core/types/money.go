// Package types provides money and quantity types and their text representations.
package types

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// Quantity is a decimal amount of units on an invoice line.
type Quantity = decimal.Decimal

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// One returns a decimal one, the default line quantity.
func One() Quantity {
	return decimal.NewFromInt(1)
}

const (
	// MaxIntegerDigits bounds the integer part of amounts and quantities taken from input.
	MaxIntegerDigits = 12
	// MaxScale is the number of fractional digits kept from form input.
	MaxScale = 6

	// maxNumberLength bounds the numeric text accepted from input.
	maxNumberLength = 40
	// maxParseExponent bounds the exponent rounded before the range check.
	maxParseExponent = 64
)

// leadingNumber matches the numeric prefix a form field may carry ("12.5kg" -> "12.5").
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// WithinBounds reports whether d has at most MaxIntegerDigits integer digits
// and 2×MaxScale fractional digits. Only the exponent and coefficient are
// inspected, so "1e100000000" is refused without being expanded.
func WithinBounds(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp > MaxIntegerDigits || exp < -2*MaxScale {
		return false
	}
	digits := len(strings.TrimPrefix(d.Coefficient().String(), "-"))
	return digits+int(exp) <= MaxIntegerDigits
}

// ParseAmount parses an exact decimal from an API payload. Values outside
// WithinBounds are rejected; excess fractional digits are rounded away.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	if len(s) > maxNumberLength {
		return decimal.Zero, fmt.Errorf("number %.12s... is too long", s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	d, ok := bounded(d, 2*MaxScale)
	if !ok {
		return decimal.Zero, fmt.Errorf("number %s is out of range", s)
	}
	return d, nil
}

// ParseDecimalLenient parses user input the way the entry form always has:
// surrounding blanks are ignored, the leading numeric part is used and anything
// unparseable or out of range becomes zero. It never fails.
func ParseDecimalLenient(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	m := leadingNumber.FindString(s)
	if m == "" || len(m) > maxNumberLength {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(m)
	if err != nil {
		return decimal.Zero
	}
	d, ok := bounded(d, MaxScale)
	if !ok {
		return decimal.Zero
	}
	return d
}

func bounded(d decimal.Decimal, scale int32) (decimal.Decimal, bool) {
	exp := d.Exponent()
	if exp < -maxParseExponent {
		return decimal.Zero, false
	}
	if exp < -scale {
		d = d.Round(scale)
	}
	return d, WithinBounds(d)
}

// RoundMoney rounds half away from zero to the given number of decimal places.
func RoundMoney(m Money, places int32) Money {
	return m.Round(places)
}

// Sum adds up amounts.
func Sum(values ...Money) Money {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

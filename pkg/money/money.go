// Package money handles amounts stored as integer cents.
package money

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	ErrInvalidAmount = errors.New("invalid_amount")
	ErrNonPositive   = errors.New("non_positive_amount")
)

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(math.MaxInt64)
)

// Cents is an amount in minor units (US cents).
type Cents int64

// FromMajor converts a dollar amount to cents, rounding half away from zero.
// Amounts that round to zero cents are rejected, as are amounts whose cents
// do not fit in an int64.
func FromMajor(amount decimal.Decimal) (Cents, error) {
	if !amount.IsPositive() {
		return 0, ErrNonPositive
	}
	rounded := amount.Mul(hundred).Round(0)
	if rounded.GreaterThan(maxCents) {
		return 0, ErrInvalidAmount
	}
	cents := rounded.IntPart()
	if cents <= 0 {
		return 0, ErrNonPositive
	}
	return Cents(cents), nil
}

// ParseMajor coerces a dollar string such as "50" or "157.95" into cents.
func ParseMajor(raw string) (Cents, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return FromMajor(amount)
}

// Major returns the amount in dollars.
func (c Cents) Major() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String renders the amount as "$1,500.00".
func (c Cents) String() string {
	return Format(c)
}

// Format renders cents as a US dollar string with en-US digit grouping.
func Format(c Cents) string {
	v := int64(c)
	sign := ""
	if v < 0 {
		sign = "-"
	}
	// math.MinInt64 has no positive counterpart; split before negating.
	dollars, frac := v/100, v%100
	if dollars < 0 {
		dollars = -dollars
	}
	if frac < 0 {
		frac = -frac
	}

	p := message.NewPrinter(language.AmericanEnglish)
	return p.Sprintf("%s$%d.%02d", sign, dollars, frac)
}

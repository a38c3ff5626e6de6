package money

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		in   Cents
		want string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{99, "$0.99"},
		{100, "$1.00"},
		{15795, "$157.95"},
		{150000, "$1,500.00"},
		{123456789, "$1,234,567.89"},
		{100000000, "$1,000,000.00"},
	}
	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, Format(tc.in))
			assert.Equal(t, tc.want, tc.in.String())
		})
	}
}

func TestFormatNegative(t *testing.T) {
	assert.Equal(t, "-$12.30", Format(-1230))
	assert.Equal(t, "-$1,234,567.89", Format(-123456789))
}

func TestFormatExtremes(t *testing.T) {
	assert.Equal(t, "$92,233,720,368,547,758.07", Format(math.MaxInt64))
	assert.Equal(t, "-$92,233,720,368,547,758.08", Format(math.MinInt64))
}

func TestParseMajor(t *testing.T) {
	got, err := ParseMajor("50.00")
	require.NoError(t, err)
	assert.Equal(t, Cents(5000), got)

	got, err = ParseMajor(" 157.955 ")
	require.NoError(t, err)
	assert.Equal(t, Cents(15796), got)

	_, err = ParseMajor("0.004")
	assert.ErrorIs(t, err, ErrNonPositive)
}

func TestParseMajorRejects(t *testing.T) {
	_, err := ParseMajor("")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParseMajor("abc")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParseMajor("0")
	assert.ErrorIs(t, err, ErrNonPositive)

	_, err = ParseMajor("-4.20")
	assert.ErrorIs(t, err, ErrNonPositive)
}

func TestParseMajorOutOfRange(t *testing.T) {
	for _, raw := range []string{
		"184467440737095516.17",
		"1e20",
		"92233720368547758.08",
	} {
		got, err := ParseMajor(raw)
		if !assert.ErrorIs(t, err, ErrInvalidAmount, raw) {
			t.Fatalf("ParseMajor(%q) = %d, want error", raw, got)
		}
	}

	got, err := ParseMajor("92233720368547758.07")
	require.NoError(t, err)
	assert.Equal(t, Cents(math.MaxInt64), got)
}

func TestMajor(t *testing.T) {
	assert.True(t, decimal.NewFromInt(50).Equal(Cents(5000).Major()))
	assert.Equal(t, "157.95", Cents(15795).Major().StringFixed(2))
}

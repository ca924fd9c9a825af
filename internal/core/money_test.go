package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1.00", true},
		{"1.0", "1.00", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{"1.005", "1.01", true}, // half away from zero
		{" 2.50 ", "2.50", true},
		{"10000", "10000.00", true},
		{"-1", "", false},
		{"+1", "", false},
		{"0", "", false},
		{"0.001", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if assert.NoError(t, err, "input %q", tc.in) {
				assert.Equal(t, tc.out, got.StringFixed(2), "input %q", tc.in)
			}
		} else {
			assert.ErrorIs(t, err, ErrValidation, "input %q", tc.in)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$0.00", FormatMoney(decimal.Zero))
	assert.Equal(t, "$1234.50", FormatMoney(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "-$12.00", FormatMoney(decimal.NewFromInt(-12)))
}

func TestCentsFromFloat(t *testing.T) {
	assert.Equal(t, "192.31", CentsFromFloat(10000.0/52).StringFixed(2))
	assert.Equal(t, "0.00", CentsFromFloat(0).StringFixed(2))
}

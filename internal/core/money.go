// Package core provides the domain types of the finance tracker together with
// money handling and the loan payment calculator.
//
// This file contains helpers for parsing and rounding monetary amounts. Amounts
// are carried as decimal.Decimal so that sums over many transactions do not
// accumulate binary floating point error.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user supplied amount to a decimal rounded to cents.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and rounds
// half away from zero on the third decimal place. Negative and zero values are
// rejected.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,345") -> 12.35, nil
//	ParseAmount("-1")     -> 0, ErrValidation
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, validationf("amount is required")
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, validationf("amount must be a positive number")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, validationf("invalid amount %q", s)
	}
	d = RoundCents(d)
	if !d.IsPositive() {
		return decimal.Zero, validationf("amount must be greater than zero")
	}
	return d, nil
}

// RoundCents rounds an amount to two decimal places.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// CentsFromFloat rounds a float computation to a cent-precision decimal.
func CentsFromFloat(f float64) decimal.Decimal {
	return RoundCents(decimal.NewFromFloat(f))
}

// FormatMoney renders an amount the way the dashboard shows it, e.g. "$1234.50"
// or "-$12.00".
func FormatMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return fmt.Sprintf("-$%s", d.Neg().StringFixed(2))
	}
	return "$" + d.StringFixed(2)
}

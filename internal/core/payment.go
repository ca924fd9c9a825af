package core

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// WeeksPerYear converts an annual interest rate into a weekly one.
const WeeksPerYear = 52

// WeeklyRate converts an annual percentage (36 means 36% a year) into the
// per-week fractional rate.
func WeeklyRate(annualRatePercent float64) float64 {
	return annualRatePercent / 100 / WeeksPerYear
}

// ComputeWeeklyPayment returns the fixed weekly installment that amortizes
// principal over termWeeks at the given annual rate.
//
// With a zero rate the loan is repaid in equal straight-line installments;
// otherwise the standard annuity formula P*r / (1 - (1+r)^-n) is used. The
// result keeps full float precision; use CentsFromFloat for storage or display.
func ComputeWeeklyPayment(principal, annualRatePercent float64, termWeeks int) (float64, error) {
	if termWeeks < 1 {
		return 0, fmt.Errorf("%w: term must be at least 1 week, got %d", ErrInvalidTerm, termWeeks)
	}
	if principal < 0 || math.IsNaN(principal) || math.IsInf(principal, 0) {
		return 0, validationf("principal must be a non-negative number")
	}
	if annualRatePercent < 0 || math.IsNaN(annualRatePercent) || math.IsInf(annualRatePercent, 0) {
		return 0, validationf("interest rate must be a non-negative number")
	}

	r := WeeklyRate(annualRatePercent)
	n := float64(termWeeks)
	if r == 0 {
		return principal / n, nil
	}
	return (principal * r) / (1 - math.Pow(1+r, -n)), nil
}

// Installment is one row of an amortization schedule.
type Installment struct {
	Number    int             `json:"number"`
	DueDate   Date            `json:"due_date"`
	Payment   decimal.Decimal `json:"payment"`
	Interest  decimal.Decimal `json:"interest"`
	Principal decimal.Decimal `json:"principal"`
	Balance   decimal.Decimal `json:"balance"`
}

// AmortizationSchedule splits a loan into its weekly installments. Installment
// n falls due n weeks after start. Interest and principal are computed at full
// precision and rounded per row; the last row absorbs the rounding remainder so
// the balance ends at exactly zero.
func AmortizationSchedule(principal, annualRatePercent float64, termWeeks int, start Date) ([]Installment, error) {
	payment, err := ComputeWeeklyPayment(principal, annualRatePercent, termWeeks)
	if err != nil {
		return nil, err
	}

	r := WeeklyRate(annualRatePercent)
	remaining := CentsFromFloat(principal)
	rows := make([]Installment, 0, termWeeks)
	for n := 1; n <= termWeeks; n++ {
		interest := CentsFromFloat(remaining.InexactFloat64() * r)
		pay := CentsFromFloat(payment)
		amortized := pay.Sub(interest)
		if n == termWeeks || amortized.GreaterThan(remaining) {
			amortized = remaining
			pay = amortized.Add(interest)
		}
		remaining = remaining.Sub(amortized)
		rows = append(rows, Installment{
			Number:    n,
			DueDate:   start.AddDays(7 * n),
			Payment:   pay,
			Interest:  interest,
			Principal: amortized,
			Balance:   remaining,
		})
	}
	return rows, nil
}

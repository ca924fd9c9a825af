package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// recentLimit is how many transactions the weekly dashboard lists.
const recentLimit = 5

// WeekSummary is the dashboard view of a single budgeting week.
type WeekSummary struct {
	Week       Week            `json:"week"`
	EndDate    Date            `json:"end_date"`
	Income     decimal.Decimal `json:"income"`
	Expenses   decimal.Decimal `json:"expenses"`
	Balance    decimal.Decimal `json:"balance"`
	BudgetLeft decimal.Decimal `json:"budget_left"`
	Recent     []Transaction   `json:"recent"`
}

// SummarizeWeek totals the transactions recorded against w. Transactions
// belonging to other weeks are ignored.
func SummarizeWeek(w Week, txs []Transaction) WeekSummary {
	s := WeekSummary{
		Week:     w,
		EndDate:  w.EndDate(),
		Income:   decimal.Zero,
		Expenses: decimal.Zero,
	}

	own := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if t.WeekID != w.ID {
			continue
		}
		own = append(own, t)
		switch t.Type {
		case Income:
			s.Income = s.Income.Add(t.Amount)
		case Expense:
			s.Expenses = s.Expenses.Add(t.Amount)
		}
	}
	s.Balance = s.Income.Sub(s.Expenses)
	s.BudgetLeft = w.Budget.Sub(s.Expenses)

	// newest first
	sort.SliceStable(own, func(i, j int) bool {
		if own[i].Date.Equal(own[j].Date.Time) {
			return own[i].ID > own[j].ID
		}
		return own[i].Date.After(own[j].Date.Time)
	})
	if len(own) > recentLimit {
		own = own[:recentLimit]
	}
	s.Recent = own
	return s
}

// CurrentWeek picks the week containing today. When none does it falls back to
// the earliest started week, the last entry of the newest-first week list.
// The boolean is false only when weeks is empty.
func CurrentWeek(weeks []Week, today Date) (Week, bool) {
	if len(weeks) == 0 {
		return Week{}, false
	}
	earliest := weeks[0]
	for _, w := range weeks {
		if w.Contains(today) {
			return w, true
		}
		if w.StartDate.Before(earliest.StartDate.Time) {
			earliest = w
		}
	}
	return earliest, true
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"finanzas/internal/core"
	"finanzas/internal/metrics"
)

// WeekRoller makes sure a budget week exists for the current date, so the
// dashboard always has a week to record against.
type WeekRoller struct {
	weeks  WeekRepository
	budget decimal.Decimal
}

func NewWeekRoller(weeks WeekRepository, defaultBudget decimal.Decimal) *WeekRoller {
	return &WeekRoller{weeks: weeks, budget: defaultBudget}
}

// EnsureCurrentWeek creates the week starting on the Monday of now when no
// stored week covers today. It reports whether a week was created.
func (r *WeekRoller) EnsureCurrentWeek(ctx context.Context, now time.Time) (core.Week, bool, error) {
	if r.weeks == nil {
		return core.Week{}, false, fmt.Errorf("week roller not properly initialized")
	}

	today := core.DateOf(now.UTC())
	existing, err := r.weeks.FindContaining(ctx, today)
	if err == nil {
		slog.DebugContext(ctx, "Budget week already present",
			"week_id", existing.ID,
			"start_date", existing.StartDate.String())
		return existing, false, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return core.Week{}, false, fmt.Errorf("find current week: %w", err)
	}

	w := core.Week{StartDate: today.StartOfWeek(), Budget: core.RoundCents(r.budget)}
	id, err := r.weeks.Create(ctx, w)
	if err != nil {
		return core.Week{}, false, fmt.Errorf("create week: %w", err)
	}
	w.ID = id
	metrics.WeeksRolled.Inc()

	slog.InfoContext(ctx, "Budget week created",
		"week_id", id,
		"start_date", w.StartDate.String(),
		"budget", w.Budget.StringFixed(2))
	return w, true, nil
}

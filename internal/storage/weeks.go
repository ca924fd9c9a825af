package storage

import (
	"context"
	"fmt"
	"log/slog"

	"finanzas/internal/core"
)

type WeekStore struct{ db *DB }

const weekColumns = `id, start_date, budget, created_at`

func scanWeek(row scanner) (core.Week, error) {
	var w core.Week
	err := row.Scan(&w.ID, &w.StartDate, &w.Budget, timestamp{&w.CreatedAt})
	return w, err
}

// List returns weeks with the most recent start first.
func (s *WeekStore) List(ctx context.Context) ([]core.Week, error) {
	rows, err := s.db.sql.QueryContext(ctx,
		`SELECT `+weekColumns+` FROM weeks ORDER BY start_date DESC, id DESC`)
	if err != nil {
		return nil, classify(fmt.Errorf("list weeks: %w", err))
	}
	defer rows.Close()

	out := []core.Week{}
	for rows.Next() {
		w, err := scanWeek(rows)
		if err != nil {
			return nil, fmt.Errorf("scan week: %w", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("iterate weeks: %w", err))
	}
	return out, nil
}

func (s *WeekStore) Get(ctx context.Context, id int64) (core.Week, error) {
	row := s.db.sql.QueryRowContext(ctx,
		s.db.dialect.rebind(`SELECT `+weekColumns+` FROM weeks WHERE id = ?`), id)
	w, err := scanWeek(row)
	if err != nil {
		return core.Week{}, classify(fmt.Errorf("get week %d: %w", id, err))
	}
	return w, nil
}

// FindContaining returns the latest week whose seven days include day.
func (s *WeekStore) FindContaining(ctx context.Context, day core.Date) (core.Week, error) {
	row := s.db.sql.QueryRowContext(ctx, s.db.dialect.rebind(`SELECT `+weekColumns+` FROM weeks
		WHERE start_date <= ? AND start_date > ?
		ORDER BY start_date DESC, id DESC LIMIT 1`), day, day.AddDays(-7))
	w, err := scanWeek(row)
	if err != nil {
		return core.Week{}, classify(fmt.Errorf("find week containing %s: %w", day, err))
	}
	return w, nil
}

func (s *WeekStore) Create(ctx context.Context, w core.Week) (int64, error) {
	var id int64
	err := s.db.sql.QueryRowContext(ctx,
		s.db.dialect.rebind(`INSERT INTO weeks (start_date, budget) VALUES (?, ?) RETURNING id`),
		w.StartDate, w.Budget,
	).Scan(&id)
	if err != nil {
		return 0, classify(fmt.Errorf("create week: %w", err))
	}
	slog.InfoContext(ctx, "Week created", "week_id", id, "start_date", w.StartDate.String())
	return id, nil
}

// Delete removes a week. Weeks still referenced by transactions are rejected
// with core.ErrValidation.
func (s *WeekStore) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.db, "weeks", id)
}

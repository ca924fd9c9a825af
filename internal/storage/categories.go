package storage

import (
	"context"
	"fmt"

	"finanzas/internal/core"
)

// CategoryStore reads the seeded category catalogue.
type CategoryStore struct{ db *DB }

// List returns categories ordered by type then name. An empty typ returns all.
func (s *CategoryStore) List(ctx context.Context, typ core.TransactionType) ([]core.Category, error) {
	query := `SELECT id, name, type FROM categories`
	var args []any
	if typ != "" {
		query += ` WHERE type = ?`
		args = append(args, string(typ))
	}
	query += ` ORDER BY type, name`

	rows, err := s.db.sql.QueryContext(ctx, s.db.dialect.rebind(query), args...)
	if err != nil {
		return nil, classify(fmt.Errorf("list categories: %w", err))
	}
	defer rows.Close()

	out := []core.Category{}
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Type); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("iterate categories: %w", err))
	}
	return out, nil
}

func (s *CategoryStore) Get(ctx context.Context, id int64) (core.Category, error) {
	var c core.Category
	err := s.db.sql.QueryRowContext(ctx,
		s.db.dialect.rebind(`SELECT id, name, type FROM categories WHERE id = ?`), id,
	).Scan(&c.ID, &c.Name, &c.Type)
	if err != nil {
		return core.Category{}, classify(fmt.Errorf("get category %d: %w", id, err))
	}
	return c, nil
}

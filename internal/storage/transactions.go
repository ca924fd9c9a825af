package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"finanzas/internal/core"
)

// TransactionFilter narrows List. Zero values match everything.
type TransactionFilter struct {
	Type       core.TransactionType
	CategoryID int64
	WeekID     int64
	From       core.Date
	To         core.Date
	Search     string
}

type TransactionStore struct{ db *DB }

const transactionColumns = `id, date, description, type, category_id, amount, week_id, created_at`

func scanTransaction(row scanner) (core.Transaction, error) {
	var t core.Transaction
	var typ string
	err := row.Scan(&t.ID, &t.Date, &t.Description, &typ, &t.CategoryID, &t.Amount, &t.WeekID,
		timestamp{&t.CreatedAt})
	t.Type = core.TransactionType(typ)
	return t, err
}

// List returns transactions newest first.
func (s *TransactionStore) List(ctx context.Context, f TransactionFilter) ([]core.Transaction, error) {
	var (
		where []string
		args  []any
	)
	if f.Type != "" {
		where = append(where, `type = ?`)
		args = append(args, string(f.Type))
	}
	if f.CategoryID > 0 {
		where = append(where, `category_id = ?`)
		args = append(args, f.CategoryID)
	}
	if f.WeekID > 0 {
		where = append(where, `week_id = ?`)
		args = append(args, f.WeekID)
	}
	if !f.From.IsZero() {
		where = append(where, `date >= ?`)
		args = append(args, f.From)
	}
	if !f.To.IsZero() {
		where = append(where, `date <= ?`)
		args = append(args, f.To)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		where = append(where, s.db.dialect.matchAny("description"))
		args = append(args, likePattern(search))
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY date DESC, id DESC`

	rows, err := s.db.sql.QueryContext(ctx, s.db.dialect.rebind(query), args...)
	if err != nil {
		return nil, classify(fmt.Errorf("list transactions: %w", err))
	}
	defer rows.Close()

	out := []core.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("iterate transactions: %w", err))
	}
	return out, nil
}

func (s *TransactionStore) Get(ctx context.Context, id int64) (core.Transaction, error) {
	row := s.db.sql.QueryRowContext(ctx,
		s.db.dialect.rebind(`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`), id)
	t, err := scanTransaction(row)
	if err != nil {
		return core.Transaction{}, classify(fmt.Errorf("get transaction %d: %w", id, err))
	}
	return t, nil
}

// Create stores t and returns its id. Unknown category or week ids surface as
// core.ErrValidation through the foreign keys.
func (s *TransactionStore) Create(ctx context.Context, t core.Transaction) (int64, error) {
	var id int64
	err := s.db.sql.QueryRowContext(ctx, s.db.dialect.rebind(`INSERT INTO transactions
		(date, description, type, category_id, amount, week_id)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
		t.Date, strings.TrimSpace(t.Description), string(t.Type), t.CategoryID, t.Amount, t.WeekID,
	).Scan(&id)
	if err != nil {
		return 0, classify(fmt.Errorf("create transaction: %w", err))
	}

	slog.InfoContext(ctx, "Transaction created",
		"transaction_id", id,
		"type", string(t.Type),
		"amount", t.Amount.StringFixed(2),
		"week_id", t.WeekID)
	return id, nil
}

func (s *TransactionStore) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.db, "transactions", id)
}

// deleteByID removes a single row, reporting core.ErrNotFound when nothing matched.
func deleteByID(ctx context.Context, db *DB, table string, id int64) error {
	res, err := db.sql.ExecContext(ctx, db.dialect.rebind(`DELETE FROM `+table+` WHERE id = ?`), id)
	if err != nil {
		return classify(fmt.Errorf("delete %s %d: %w", table, id, err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify(fmt.Errorf("delete %s %d: %w", table, id, err))
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", table, id, core.ErrNotFound)
	}
	slog.InfoContext(ctx, "Row deleted", "table", table, "id", id)
	return nil
}

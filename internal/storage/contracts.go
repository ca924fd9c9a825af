package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"finanzas/internal/core"
)

// ContractRef identifies the rows written by a contract create.
type ContractRef struct {
	ID       int64  `json:"id"`
	Folio    string `json:"folio"`
	ClientID int64  `json:"client_id"`
	AvalID   int64  `json:"aval_id"`
}

// DeleteResult reports which parties were removed together with a contract.
type DeleteResult struct {
	ContractID    int64  `json:"contract_id"`
	Folio         string `json:"folio"`
	ClientID      int64  `json:"client_id"`
	AvalID        int64  `json:"aval_id"`
	ClientDeleted bool   `json:"client_deleted"`
	AvalDeleted   bool   `json:"aval_deleted"`
}

// ContractFilter narrows List. Zero values match everything.
type ContractFilter struct {
	Status core.ContractStatus
	Search string
}

type ContractStore struct{ db *DB }

const contractSelect = `SELECT c.id, c.folio, c.client_id, c.aval_id, c.amount, c.interest_rate,
	c.term_weeks, c.weekly_payment, c.start_date, c.status, c.created_at, cl.name, cl.cellphone
	FROM contracts c
	INNER JOIN clients cl ON c.client_id = cl.id`

func scanContract(row scanner) (core.Contract, error) {
	var c core.Contract
	var status string
	err := row.Scan(&c.ID, &c.Folio, &c.ClientID, &c.AvalID, &c.Amount, &c.InterestRate,
		&c.TermWeeks, &c.WeeklyPayment, &c.StartDate, &status, timestamp{&c.CreatedAt},
		&c.ClientName, &c.ClientCellphone)
	c.Status = core.ContractStatus(status)
	return c, err
}

// List returns contracts newest first, joined with the client's name and cellphone.
func (s *ContractStore) List(ctx context.Context, f ContractFilter) ([]core.Contract, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		where = append(where, `c.status = ?`)
		args = append(args, string(f.Status))
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		where = append(where, s.db.dialect.matchAny("c.folio", "cl.name", "c.status"))
		p := likePattern(search)
		args = append(args, p, p, p)
	}

	query := contractSelect
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY c.created_at DESC, c.id DESC`

	rows, err := s.db.sql.QueryContext(ctx, s.db.dialect.rebind(query), args...)
	if err != nil {
		return nil, classify(fmt.Errorf("list contracts: %w", err))
	}
	defer rows.Close()

	out := []core.Contract{}
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("iterate contracts: %w", err))
	}
	return out, nil
}

func (s *ContractStore) Get(ctx context.Context, id int64) (core.Contract, error) {
	row := s.db.sql.QueryRowContext(ctx, s.db.dialect.rebind(contractSelect+` WHERE c.id = ?`), id)
	c, err := scanContract(row)
	if err != nil {
		return core.Contract{}, classify(fmt.Errorf("get contract %d: %w", id, err))
	}
	return c, nil
}

// Create inserts the client, the aval and the contract as one unit. Either all
// three rows exist afterwards or none do.
func (s *ContractStore) Create(ctx context.Context, client core.Client, aval core.Aval, terms core.ContractTerms, folio string) (ContractRef, error) {
	ref := ContractRef{Folio: folio}
	d := s.db.dialect

	err := s.db.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		if ref.ClientID, err = insertClient(ctx, d, tx, client); err != nil {
			return fmt.Errorf("insert client: %w", err)
		}
		if ref.AvalID, err = insertAval(ctx, d, tx, aval); err != nil {
			return fmt.Errorf("insert aval: %w", err)
		}
		status := terms.Status
		if status == "" {
			status = core.StatusActive
		}
		err = tx.QueryRowContext(ctx, d.rebind(`INSERT INTO contracts
			(folio, client_id, aval_id, amount, interest_rate, term_weeks, weekly_payment, start_date, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
			folio, ref.ClientID, ref.AvalID, terms.Amount, terms.InterestRate,
			terms.TermWeeks, terms.WeeklyPayment, terms.StartDate, string(status),
		).Scan(&ref.ID)
		if err != nil {
			return fmt.Errorf("insert contract: %w", err)
		}
		return nil
	})
	if err != nil {
		return ContractRef{}, fmt.Errorf("create contract %s: %w", folio, err)
	}
	return ref, nil
}

// Delete removes a contract and, in the same unit, its client and aval when no
// other contract references them. A missing id yields core.ErrNotFound and
// leaves the store untouched.
func (s *ContractStore) Delete(ctx context.Context, id int64) (DeleteResult, error) {
	res := DeleteResult{ContractID: id}
	d := s.db.dialect

	err := s.db.inTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			d.rebind(d.lock(`SELECT folio, client_id, aval_id FROM contracts WHERE id = ?`)), id,
		).Scan(&res.Folio, &res.ClientID, &res.AvalID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("contract %d: %w", id, core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("lookup contract: %w", err)
		}

		// Lock the parties in a fixed order so concurrent deletes of sibling
		// contracts count references one after the other.
		if err := lockRow(ctx, d, tx, "clients", res.ClientID); err != nil {
			return err
		}
		if err := lockRow(ctx, d, tx, "avales", res.AvalID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, d.rebind(`DELETE FROM contracts WHERE id = ?`), id); err != nil {
			return fmt.Errorf("delete contract: %w", err)
		}

		if res.ClientDeleted, err = deleteIfUnreferenced(ctx, d, tx, "clients", "client_id", res.ClientID); err != nil {
			return err
		}
		if res.AvalDeleted, err = deleteIfUnreferenced(ctx, d, tx, "avales", "aval_id", res.AvalID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return DeleteResult{}, fmt.Errorf("delete contract %d: %w", id, err)
	}
	return res, nil
}

func lockRow(ctx context.Context, d dialect, tx *sql.Tx, table string, id int64) error {
	if d.forUpdate == "" {
		return nil
	}
	var got int64
	if err := tx.QueryRowContext(ctx, d.rebind(d.lock(`SELECT id FROM `+table+` WHERE id = ?`)), id).Scan(&got); err != nil {
		return fmt.Errorf("lock %s %d: %w", table, id, err)
	}
	return nil
}

// deleteIfUnreferenced removes table row id when no contract points at it
// through column.
func deleteIfUnreferenced(ctx context.Context, d dialect, tx *sql.Tx, table, column string, id int64) (bool, error) {
	var n int64
	if err := tx.QueryRowContext(ctx,
		d.rebind(`SELECT COUNT(*) FROM contracts WHERE `+column+` = ?`), id,
	).Scan(&n); err != nil {
		return false, fmt.Errorf("count %s references: %w", table, err)
	}
	if n > 0 {
		return false, nil
	}
	if _, err := tx.ExecContext(ctx, d.rebind(`DELETE FROM `+table+` WHERE id = ?`), id); err != nil {
		return false, fmt.Errorf("delete %s %d: %w", table, id, err)
	}
	return true, nil
}

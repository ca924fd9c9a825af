package storage

import (
	"context"
	"fmt"
	"strings"

	"finanzas/internal/core"
)

const personColumns = `name, birthdate, voter_id, address, neighborhood, zip,
	municipality, state, phone, cellphone, message_phone, email`

const clientColumns = `id, ` + personColumns + `, assignment, promoter, supervisor, executive, created_at`

const avalColumns = `id, ` + personColumns + `, group_name, created_at`

func personArgs(p core.Person) []any {
	return []any{
		strings.TrimSpace(p.Name), p.Birthdate, p.VoterID, p.Address, p.Neighborhood, p.Zip,
		p.Municipality, p.State, p.Phone, p.Cellphone, p.MessagePhone, p.Email,
	}
}

func personDest(p *core.Person) []any {
	return []any{
		&p.Name, &p.Birthdate, &p.VoterID, &p.Address, &p.Neighborhood, &p.Zip,
		&p.Municipality, &p.State, &p.Phone, &p.Cellphone, &p.MessagePhone, &p.Email,
	}
}

func scanClient(row scanner) (core.Client, error) {
	var c core.Client
	dest := append([]any{&c.ID}, personDest(&c.Person)...)
	dest = append(dest, &c.Assignment, &c.Promoter, &c.Supervisor, &c.Executive, timestamp{&c.CreatedAt})
	err := row.Scan(dest...)
	return c, err
}

func scanAval(row scanner) (core.Aval, error) {
	var a core.Aval
	dest := append([]any{&a.ID}, personDest(&a.Person)...)
	dest = append(dest, &a.Group, timestamp{&a.CreatedAt})
	err := row.Scan(dest...)
	return a, err
}

// ClientStore reads clients. Clients are only written by the contract units.
type ClientStore struct{ db *DB }

// List returns clients ordered by name. A search term matches name, voter id,
// cellphone or email.
func (s *ClientStore) List(ctx context.Context, search string) ([]core.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients`
	var args []any
	if search = strings.TrimSpace(search); search != "" {
		query += ` WHERE ` + s.db.dialect.matchAny("name", "voter_id", "cellphone", "email")
		p := likePattern(search)
		args = append(args, p, p, p, p)
	}
	query += ` ORDER BY name, id`

	rows, err := s.db.sql.QueryContext(ctx, s.db.dialect.rebind(query), args...)
	if err != nil {
		return nil, classify(fmt.Errorf("list clients: %w", err))
	}
	defer rows.Close()

	out := []core.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("iterate clients: %w", err))
	}
	return out, nil
}

func (s *ClientStore) Get(ctx context.Context, id int64) (core.Client, error) {
	row := s.db.sql.QueryRowContext(ctx,
		s.db.dialect.rebind(`SELECT `+clientColumns+` FROM clients WHERE id = ?`), id)
	c, err := scanClient(row)
	if err != nil {
		return core.Client{}, classify(fmt.Errorf("get client %d: %w", id, err))
	}
	return c, nil
}

// AvalStore reads guarantors.
type AvalStore struct{ db *DB }

func (s *AvalStore) Get(ctx context.Context, id int64) (core.Aval, error) {
	row := s.db.sql.QueryRowContext(ctx,
		s.db.dialect.rebind(`SELECT `+avalColumns+` FROM avales WHERE id = ?`), id)
	a, err := scanAval(row)
	if err != nil {
		return core.Aval{}, classify(fmt.Errorf("get aval %d: %w", id, err))
	}
	return a, nil
}

func insertClient(ctx context.Context, d dialect, q querier, c core.Client) (int64, error) {
	args := append(personArgs(c.Person), c.Assignment, c.Promoter, c.Supervisor, c.Executive)
	var id int64
	err := q.QueryRowContext(ctx, d.rebind(`INSERT INTO clients (`+personColumns+`,
		assignment, promoter, supervisor, executive)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`), args...).Scan(&id)
	return id, err
}

func insertAval(ctx context.Context, d dialect, q querier, a core.Aval) (int64, error) {
	args := append(personArgs(a.Person), a.Group)
	var id int64
	err := q.QueryRowContext(ctx, d.rebind(`INSERT INTO avales (`+personColumns+`, group_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`), args...).Scan(&id)
	return id, err
}

package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"finanzas/internal/core"
)

func TestDialectRebind(t *testing.T) {
	pg := dialectFor(Postgres)
	assert.Equal(t,
		`SELECT * FROM t WHERE a = $1 AND b LIKE $2 ESCAPE '\' AND c = '?'`,
		pg.rebind(`SELECT * FROM t WHERE a = ? AND b LIKE ? ESCAPE '\' AND c = '?'`))
	assert.Equal(t, `SELECT id FROM t WHERE id = $1 FOR UPDATE`, pg.rebind(pg.lock(`SELECT id FROM t WHERE id = ?`)))

	lite := dialectFor(SQLite)
	assert.Equal(t, `SELECT id FROM t WHERE id = ?`, lite.rebind(lite.lock(`SELECT id FROM t WHERE id = ?`)))
}

func TestMatchAny(t *testing.T) {
	assert.Equal(t,
		`(fold(name) LIKE ? ESCAPE '\' OR fold(email) LIKE ? ESCAPE '\')`,
		dialectFor(SQLite).matchAny("name", "email"))

	pg := dialectFor(Postgres)
	assert.Equal(t,
		`(LOWER(c.status) LIKE $1 ESCAPE '\')`,
		pg.rebind(pg.matchAny("c.status")))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, `%ana%`, likePattern("ANA"))
	assert.Equal(t, `%100\%%`, likePattern("100%"))
	assert.Equal(t, `%a\_b%`, likePattern("a_b"))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t,
		"file:/tmp/x.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate",
		sqliteDSN("/tmp/x.db"))
}

func TestClassifyUnit(t *testing.T) {
	assert.ErrorIs(t, classifyUnit(errors.New("boom")), core.ErrTransactionFailed)
	assert.ErrorIs(t, classifyUnit(fmt.Errorf("x: %w", core.ErrNotFound)), core.ErrNotFound)
	assert.False(t, errors.Is(classifyUnit(fmt.Errorf("x: %w", core.ErrNotFound)), core.ErrTransactionFailed))
	assert.ErrorIs(t, classifyUnit(errors.New("dial tcp: connection refused")), core.ErrStoreUnavailable)
	assert.NoError(t, classifyUnit(nil))
}

func TestOptionsValidation(t *testing.T) {
	_, _, err := DSN(Options{Backend: Postgres})
	assert.Error(t, err)
	_, _, err = DSN(Options{Backend: "mysql"})
	assert.Error(t, err)
	_, _, err = DSN(Options{Backend: SQLite})
	assert.Error(t, err)
}

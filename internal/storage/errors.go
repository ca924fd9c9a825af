package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"finanzas/internal/core"
)

// classify maps driver errors from single statement operations onto the core
// error taxonomy.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%w: %w", core.ErrNotFound, err)
	case errors.Is(err, core.ErrNotFound), errors.Is(err, core.ErrValidation),
		errors.Is(err, core.ErrStoreUnavailable):
		return err
	case isConstraintError(err):
		return fmt.Errorf("%w: %w", core.ErrValidation, err)
	case isConnectionError(err):
		return fmt.Errorf("%w: %w", core.ErrStoreUnavailable, err)
	default:
		return err
	}
}

// classifyUnit maps failures inside a multi-statement unit. Anything other
// than a missing row or a lost connection means the unit was rolled back.
func classifyUnit(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, core.ErrNotFound), errors.Is(err, core.ErrStoreUnavailable),
		errors.Is(err, core.ErrTransactionFailed):
		return err
	case isConnectionError(err):
		return fmt.Errorf("%w: %w", core.ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("%w: %w", core.ErrTransactionFailed, err)
	}
}

func isConstraintError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Class() == "23"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// 08: connection exception, 57P: operator intervention (shutdown)
		return pqErr.Code.Class() == "08" || strings.HasPrefix(string(pqErr.Code), "57P")
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() & 0xff {
		case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_IOERR, sqlite3.SQLITE_NOTADB:
			return true
		}
		return false
	}
	msg := err.Error()
	for _, s := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"no such host",
		"use of closed network connection",
		"database is closed",
		"unable to open database",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

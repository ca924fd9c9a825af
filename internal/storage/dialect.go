package storage

import (
	"database/sql/driver"
	"strconv"
	"strings"

	"modernc.org/sqlite"
)

// SQLite's built-in LOWER only folds ASCII, so searches go through fold,
// which lowercases the full Unicode range.
func init() {
	sqlite.MustRegisterDeterministicScalarFunction("fold", 1, func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		switch v := args[0].(type) {
		case string:
			return strings.ToLower(v), nil
		case []byte:
			return strings.ToLower(string(v)), nil
		default:
			return v, nil
		}
	})
}

// dialect captures the few places where SQLite and PostgreSQL disagree.
// Queries are written with ? placeholders and rebound per engine.
type dialect struct {
	numbered  bool
	forUpdate string
	fold      string
}

func dialectFor(b Backend) dialect {
	if b == Postgres {
		return dialect{numbered: true, forUpdate: " FOR UPDATE", fold: "LOWER"}
	}
	// SQLite transactions already hold the database write lock.
	return dialect{fold: "fold"}
}

// rebind rewrites ? placeholders to $1..$n when the engine needs it.
// Question marks inside single-quoted literals are left alone.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	quoted := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			quoted = !quoted
			b.WriteByte(c)
		case c == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// lock appends the row lock clause, if any, to a SELECT.
func (d dialect) lock(query string) string {
	return query + d.forUpdate
}

// matchAny is a case-insensitive containment test over cols. Each column
// takes one likePattern argument.
func (d dialect) matchAny(cols ...string) string {
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = d.fold + "(" + col + `) LIKE ? ESCAPE '\'`
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// likePattern builds a case-insensitive containment pattern for matchAny.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

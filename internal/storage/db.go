package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Backend names a supported SQL engine.
type Backend string

const (
	SQLite   Backend = "sqlite"
	Postgres Backend = "postgres"
)

// Options selects and locates the database.
type Options struct {
	Backend     Backend
	SQLitePath  string
	DatabaseURL string
}

// DB wraps the connection pool together with the dialect used to render
// queries for it.
type DB struct {
	sql     *sql.DB
	dialect dialect
	backend Backend
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open connects to the configured backend and applies pending migrations.
func Open(ctx context.Context, opts Options) (*DB, error) {
	driver, dsn, err := opts.dsn()
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", opts.Backend, err)
	}
	if opts.Backend == SQLite {
		// One writer at a time; readers share the pool.
		conn.SetMaxOpenConns(4)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, classify(fmt.Errorf("ping database: %w", err))
	}

	if err := RunMigrations(opts.Backend, driver, dsn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	slog.InfoContext(ctx, "Database ready", "backend", string(opts.Backend))

	return &DB{sql: conn, dialect: dialectFor(opts.Backend), backend: opts.Backend}, nil
}

func (o Options) dsn() (driver, dsn string, err error) {
	switch o.Backend {
	case SQLite, "":
		if o.SQLitePath == "" {
			return "", "", fmt.Errorf("sqlite path is required")
		}
		if o.SQLitePath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(o.SQLitePath), 0o755); err != nil {
				return "", "", fmt.Errorf("create db directory: %w", err)
			}
		}
		return "sqlite", sqliteDSN(o.SQLitePath), nil
	case Postgres:
		if o.DatabaseURL == "" {
			return "", "", fmt.Errorf("database url is required for postgres")
		}
		return "postgres", o.DatabaseURL, nil
	default:
		return "", "", fmt.Errorf("unsupported backend %q", o.Backend)
	}
}

// sqliteDSN enables foreign keys, waits on locks instead of failing, and makes
// every transaction take the write lock up front.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return "file:" + path + sep +
		"_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
}

func (d *DB) Backend() Backend { return d.backend }

// Ping reports whether the store is reachable.
func (d *DB) Ping(ctx context.Context) error {
	if err := d.sql.PingContext(ctx); err != nil {
		return classify(err)
	}
	return nil
}

func (d *DB) Close() error {
	if d.sql != nil {
		return d.sql.Close()
	}
	return nil
}

// inTx runs fn inside a transaction. The transaction is rolled back on every
// path that does not reach Commit, including panics.
func (d *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return classifyUnit(fmt.Errorf("begin: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return classifyUnit(err)
	}
	if err := tx.Commit(); err != nil {
		return classifyUnit(fmt.Errorf("commit: %w", err))
	}
	return nil
}

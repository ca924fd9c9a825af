package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// RunMigrations applies all pending migrations for the backend.
func RunMigrations(backend Backend, driverName, dsn string) error {
	m, closeDB, err := newMigrator(backend, driverName, dsn)
	if err != nil {
		return err
	}
	defer closeDB()
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// MigrateDown rolls back the given number of migrations.
func MigrateDown(backend Backend, driverName, dsn string, steps int) error {
	m, closeDB, err := newMigrator(backend, driverName, dsn)
	if err != nil {
		return err
	}
	defer closeDB()
	defer m.Close()

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("roll back migrations: %w", err)
	}
	return nil
}

// MigrationVersion reports the applied schema version.
func MigrationVersion(backend Backend, driverName, dsn string) (uint, bool, error) {
	m, closeDB, err := newMigrator(backend, driverName, dsn)
	if err != nil {
		return 0, false, err
	}
	defer closeDB()
	defer m.Close()

	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

func newMigrator(backend Backend, driverName, dsn string) (*migrate.Migrate, func(), error) {
	// Separate connection so migrations never hold the main pool.
	migrateDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open migration database: %w", err)
	}
	closeDB := func() { migrateDB.Close() }

	var (
		driver database.Driver
		dir    string
	)
	switch backend {
	case Postgres:
		driver, err = postgres.WithInstance(migrateDB, &postgres.Config{})
		dir = "migrations/postgres"
	default:
		driver, err = sqlite.WithInstance(migrateDB, &sqlite.Config{})
		dir = "migrations/sqlite"
	}
	if err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("create %s driver: %w", backend, err)
	}

	src, err := iofs.New(migrationsFS, dir)
	if err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(backend), driver)
	if err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, closeDB, nil
}

// DSN exposes the driver name and connection string derived from opts, for
// tooling that runs migrations without opening a pool.
func DSN(opts Options) (driver, dsn string, err error) {
	return opts.dsn()
}

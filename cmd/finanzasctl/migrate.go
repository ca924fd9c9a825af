package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"finanzas/internal/config"
	"finanzas/internal/storage"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, driver, dsn, err := migrationTarget()
			if err != nil {
				return err
			}
			if err := storage.RunMigrations(backend, driver, dsn); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1")
			}
			backend, driver, dsn, err := migrationTarget()
			if err != nil {
				return err
			}
			if err := storage.MigrateDown(backend, driver, dsn, steps); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", steps)
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, driver, dsn, err := migrationTarget()
			if err != nil {
				return err
			}
			v, dirty, err := storage.MigrationVersion(backend, driver, dsn)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
			return nil
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}

// migrationTarget resolves the database from the same environment the
// service binaries read.
func migrationTarget() (storage.Backend, string, string, error) {
	opts := config.Load().StorageOptions()
	driver, dsn, err := storage.DSN(opts)
	if err != nil {
		return "", "", "", err
	}
	backend := opts.Backend
	if backend == "" {
		backend = storage.SQLite
	}
	return backend, driver, dsn, nil
}

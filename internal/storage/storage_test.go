package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"finanzas/internal/core"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(context.Background(), Options{
		Backend:    SQLite,
		SQLitePath: filepath.Join(t.TempDir(), "finanzas.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func countRows(t *testing.T, r *Repository, table string) int {
	t.Helper()
	var n int
	require.NoError(t, r.db.sql.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func sampleClient(name string) core.Client {
	return core.Client{
		Person: core.Person{
			Name:      name,
			Birthdate: core.NewDate(1985, 4, 12),
			Cellphone: "5512345678",
			Email:     "cliente@example.com",
		},
		Promoter: "Laura",
	}
}

func sampleAval(name string) core.Aval {
	return core.Aval{Person: core.Person{Name: name, Phone: "5587654321"}, Group: "Grupo Norte"}
}

func sampleTerms() core.ContractTerms {
	return core.ContractTerms{
		Amount:        decimal.NewFromInt(10000),
		InterestRate:  decimal.NewFromInt(36),
		TermWeeks:     52,
		WeeklyPayment: decimal.RequireFromString("229.65"),
		StartDate:     core.NewDate(2026, 1, 5),
		Status:        core.StatusActive,
	}
}

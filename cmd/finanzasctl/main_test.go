package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestPaymentCommand(t *testing.T) {
	out, err := run(t, "payment", "--amount", "10000", "--interest", "36", "--term", "52")
	require.NoError(t, err)
	assert.Contains(t, out, "weekly payment: 229.65")
	assert.Contains(t, out, "total: 11941.80")
}

func TestPaymentSchedule(t *testing.T) {
	nowFunc = func() time.Time { return time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { nowFunc = time.Now })

	out, err := run(t, "payment", "--amount", "1000", "--interest", "0", "--term", "4", "--schedule")
	require.NoError(t, err)
	assert.Contains(t, out, "weekly payment: 250.00")
	assert.Contains(t, out, "2026-10-26")
	assert.Contains(t, out, "2026-11-16")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 2+1+4)
}

func TestPaymentRejectsBadInput(t *testing.T) {
	_, err := run(t, "payment", "--amount", "10000", "--interest", "36", "--term", "0")
	assert.Error(t, err)

	_, err = run(t, "payment", "--amount", "-5", "--term", "10")
	assert.Error(t, err)

	_, err = run(t, "payment", "--term", "10")
	assert.Error(t, err)
}

func TestFolioCommand(t *testing.T) {
	out, err := run(t, "folio", "-n", "3")
	require.NoError(t, err)
	folios := strings.Fields(out)
	require.Len(t, folios, 3)
	seen := map[string]bool{}
	for _, f := range folios {
		assert.True(t, strings.HasPrefix(f, "CTR-"), f)
		assert.False(t, seen[f], "duplicate folio %s", f)
		seen[f] = true
	}
}

func TestMigrateCommands(t *testing.T) {
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", filepath.Join(t.TempDir(), "ctl.db"))

	out, err := run(t, "migrate", "up")
	require.NoError(t, err)
	assert.Contains(t, out, "migrations applied")

	out, err = run(t, "migrate", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "version 2 (dirty: false)")

	out, err = run(t, "migrate", "down", "--steps", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "rolled back 1 migration(s)")

	out, err = run(t, "migrate", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "version 1 (dirty: false)")
}

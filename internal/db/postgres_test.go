package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_orders.sql", "001_init.sql", "003_bans.sql", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "old"), 0o755))

	pending, err := pendingMigrations(dir, []string{"002_orders.sql"})
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init.sql", "003_bans.sql"}, pending)
}

func TestPendingMigrations_MissingDir(t *testing.T) {
	_, err := pendingMigrations(filepath.Join(t.TempDir(), "nope"), nil)
	assert.Error(t, err)
}

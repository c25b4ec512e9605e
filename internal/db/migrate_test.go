package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDBMigratesToLatest(t *testing.T) {
	db := setupTestDB(t)

	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// Running again is a no-op.
	require.NoError(t, db.MigrateUp())
}

func TestMigrateDownDropsTables(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.MigrateDown())

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='labelled_speeds'`).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)

	version, _, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.Zero(t, version)
}

func TestOpenDBLeavesSchemaAlone(t *testing.T) {
	quietLogs(t)

	db, err := OpenDB(filepath.Join(t.TempDir(), "raw.db"))
	require.NoError(t, err)
	defer db.Close()

	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, dirty)
}

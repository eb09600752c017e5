package database

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRunsMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")

	db, err := Open(path)
	require.NoError(t, err)
	applied, err := getAppliedMigrations(db)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	assert.Equal(t, []string{"001_documents", "002_audit_timestamp_index"}, applied)

	// Reopening must not re-apply anything.
	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	again, err := getAppliedMigrations(db)
	require.NoError(t, err)
	assert.Equal(t, applied, again)

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM documents").Scan(&n))
	assert.Zero(t, n)
}

func TestLoadMigrationsOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/010_later.sql":  {Data: []byte("SELECT 2;")},
		"migrations/002_second.sql": {Data: []byte("SELECT 1;")},
		"migrations/README.md":      {Data: []byte("ignored")},
	}

	migrations, err := loadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, "002_second", migrations[0].Version)
	assert.Equal(t, "010_later.sql", migrations[1].Filename)

	_, err = loadMigrations(fstest.MapFS{})
	assert.Error(t, err)
}

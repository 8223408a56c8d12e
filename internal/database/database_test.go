package database

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAppliesMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeline.db")

	conn, err := Open(path)
	require.NoError(t, err)

	for _, table := range []string{
		"location_points", "known_locations", "trips", "activity_definitions",
		"threshold_profiles", "analysis_runs", "timeline_entries",
	} {
		var name string
		err := conn.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, table)
	}
	require.NoError(t, conn.Close())

	// Reopening skips what is already applied
	conn, err = Open(path)
	require.NoError(t, err)
	defer conn.Close()

	var count int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count))
	migrations, err := NewMigrationManager(conn).LoadMigrations()
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)
}

func TestTransactionRollsBack(t *testing.T) {
	conn, err := Open(filepath.Join(t.TempDir(), "timeline.db"))
	require.NoError(t, err)
	defer conn.Close()

	err = Transaction(conn, func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO location_points (timestamp, latitude, longitude) VALUES (1, 2, 3)"); err != nil {
			return err
		}
		return sql.ErrTxDone
	})
	assert.ErrorIs(t, err, sql.ErrTxDone)

	var count int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM location_points").Scan(&count))
	assert.Zero(t, count)
}

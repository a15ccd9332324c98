package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	// A second run over an already-migrated database must succeed.
	err := Migrate(db)
	require.NoError(t, err)

	// Third time for good measure.
	err = Migrate(db)
	require.NoError(t, err)
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"projects", "tables", "table_work_states", "work_records", "work_record_tables", "sync_queue", "settings"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_projects_status",
		"idx_projects_created",
		"idx_tables_project",
		"idx_tables_position",
		"idx_work_states_status",
		"idx_work_records_project",
		"idx_work_records_started",
		"idx_work_records_status",
		"idx_work_record_tables_table",
		"idx_sync_queue_attempts",
		"idx_sync_queue_entity",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_RecordsSchemaVersion(t *testing.T) {
	db := openTestDB(t)

	v, err := SchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, schemaVersion, v)
}

func TestMigrate_UniquePositionConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, name, status, grid_rows, grid_cols, created_at, updated_at)
		VALUES ('p1', 'P', 'active', 2, 2, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	insert := `INSERT INTO tables (id, project_id, row, col, size, created_at, updated_at)
		VALUES (?, 'p1', 0, 0, 'small', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`
	_, err = db.Exec(insert, "t1")
	require.NoError(t, err)

	_, err = db.Exec(insert, "t2")
	require.Error(t, err, "same grid position must be rejected")
	assert.Contains(t, err.Error(), "UNIQUE")
}

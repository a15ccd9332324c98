package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// schemaVersion gates migrations. Adding a column appends an ALTER TABLE
// statement without a bump; changing an index requires a bump plus a
// targeted rebuild.
const schemaVersion = 1

// Migrate runs all schema migrations. Statements are idempotent and re-run
// on every open; indexes are declared here and nowhere else.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}
	return nil
}

// SchemaVersion reads the stored schema version.
func SchemaVersion(db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		location    TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'draft'
		            CHECK(status IN ('draft','active','completed','archived')),
		grid_rows   INTEGER NOT NULL CHECK(grid_rows > 0),
		grid_cols   INTEGER NOT NULL CHECK(grid_cols > 0),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_created ON projects(created_at)`,

	`CREATE TABLE IF NOT EXISTS tables (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		row        INTEGER NOT NULL CHECK(row >= 0),
		col        INTEGER NOT NULL CHECK(col >= 0),
		size       TEXT NOT NULL
		           CHECK(size IN ('small','medium','large')),
		label      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tables_project ON tables(project_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_tables_position ON tables(project_id, row, col)`,

	`CREATE TABLE IF NOT EXISTS table_work_states (
		table_id            TEXT PRIMARY KEY REFERENCES tables(id) ON DELETE CASCADE,
		status              TEXT NOT NULL DEFAULT 'pending'
		                    CHECK(status IN ('pending','in_progress','completed','skipped')),
		last_work_record_id TEXT,
		completed_at        TEXT,
		updated_at          TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_work_states_status ON table_work_states(status)`,

	`CREATE TABLE IF NOT EXISTS work_records (
		id           TEXT PRIMARY KEY,
		project_id   TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		work_type    TEXT NOT NULL
		             CHECK(work_type IN ('installation','inspection','maintenance','repair')),
		status       TEXT NOT NULL
		             CHECK(status IN ('pending','in_progress','completed','skipped')),
		notes        TEXT NOT NULL DEFAULT '',
		worker_name  TEXT NOT NULL DEFAULT '',
		started_at   TEXT NOT NULL,
		completed_at TEXT,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_work_records_project ON work_records(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_work_records_started ON work_records(started_at)`,
	`CREATE INDEX IF NOT EXISTS idx_work_records_status ON work_records(status)`,

	// Link rows reference tables by bare id: no FK to tables, so deleting a
	// table never rewrites historical records.
	`CREATE TABLE IF NOT EXISTS work_record_tables (
		work_record_id TEXT NOT NULL REFERENCES work_records(id) ON DELETE CASCADE,
		table_id       TEXT NOT NULL,
		PRIMARY KEY (work_record_id, table_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_work_record_tables_table ON work_record_tables(table_id)`,

	`CREATE TABLE IF NOT EXISTS sync_queue (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		entity_type     TEXT NOT NULL,
		entity_id       TEXT NOT NULL,
		operation       TEXT NOT NULL
		                CHECK(operation IN ('create','update','delete')),
		payload         BLOB,
		created_at      TEXT NOT NULL,
		attempts        INTEGER NOT NULL DEFAULT 0 CHECK(attempts >= 0),
		last_attempt_at TEXT,
		last_error      TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sync_queue_attempts ON sync_queue(attempts)`,
	`CREATE INDEX IF NOT EXISTS idx_sync_queue_entity ON sync_queue(entity_type, entity_id)`,

	`CREATE TABLE IF NOT EXISTS settings (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}

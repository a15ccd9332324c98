package domain

import "time"

// Table is a single physical unit positioned in a project's grid.
// (ProjectID, Row, Col) is unique within the store.
type Table struct {
	ID        string
	ProjectID string
	Row       int
	Col       int
	Size      TableSize
	Label     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableWithState pairs a table with its work state. The state is never nil:
// joins substitute DefaultWorkState for tables without an explicit row.
type TableWithState struct {
	Table *Table
	State *TableWorkState
}

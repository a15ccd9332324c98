package domain

import "time"

// TableWorkState tracks installation progress for one table. It is stored
// separately from the table itself so frequent status flips don't rewrite
// table rows. A missing row means the table is pending.
type TableWorkState struct {
	TableID          string
	Status           WorkStatus
	LastWorkRecordID *string
	CompletedAt      *time.Time
	UpdatedAt        time.Time
}

// DefaultWorkState returns the implicit state for a table that has no
// stored work-state row. All join code substitutes through this single
// function so the default cannot diverge across call sites.
func DefaultWorkState(tableID string) *TableWorkState {
	return &TableWorkState{
		TableID: tableID,
		Status:  WorkPending,
	}
}

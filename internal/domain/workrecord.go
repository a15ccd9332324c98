package domain

import "time"

// WorkRecord is an immutable log entry for a confirmed batch of work on one
// or more tables. It is the only writer of TableWorkState: creating a record
// updates every covered table's state in the same transaction.
//
// TableIDs reference tables without owning them; deleting a table later does
// not rewrite historical records.
type WorkRecord struct {
	ID          string
	ProjectID   string
	TableIDs    []string
	WorkType    WorkType
	Status      WorkStatus
	Notes       string
	WorkerName  string
	StartedAt   time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Covers reports whether the record includes the given table.
func (r *WorkRecord) Covers(tableID string) bool {
	for _, id := range r.TableIDs {
		if id == tableID {
			return true
		}
	}
	return false
}

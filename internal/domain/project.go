package domain

import "time"

// Project owns a fixed grid of tables. Grid dimensions are set at creation
// and never change; status transitions are advisory (draft -> active ->
// completed, archived from anywhere) and not enforced by the store.
type Project struct {
	ID          string
	Name        string
	Description string
	Location    string
	Status      ProjectStatus
	GridRows    int
	GridCols    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GridCapacity returns the number of positions in the project grid.
func (p *Project) GridCapacity() int {
	return p.GridRows * p.GridCols
}

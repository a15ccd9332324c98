// Package calc derives electrical values and project statistics from raw
// entity data. Everything here is pure: no I/O, no store access.
package calc

import (
	"math"

	"github.com/janmyrvold/fieldmap/internal/domain"
)

// Fixed electrical multipliers. Size determines string count; strings
// determine panels; panels determine DC power.
const (
	PanelsPerString = 12
	PowerPerPanelW  = 550
)

var stringsBySize = map[domain.TableSize]int{
	domain.SizeSmall:  4,
	domain.SizeMedium: 6,
	domain.SizeLarge:  8,
}

// Values holds the derived electrical totals for one or more tables.
type Values struct {
	Strings int
	Panels  int
	PowerW  int
}

// Add returns the element-wise sum of two value sets.
func (v Values) Add(o Values) Values {
	return Values{
		Strings: v.Strings + o.Strings,
		Panels:  v.Panels + o.Panels,
		PowerW:  v.PowerW + o.PowerW,
	}
}

// StringsForSize returns the string count for a table size.
// Unknown sizes yield 0.
func StringsForSize(size domain.TableSize) int {
	return stringsBySize[size]
}

// PanelsFromStrings returns the panel count for a string count.
func PanelsFromStrings(strings int) int {
	return strings * PanelsPerString
}

// PowerFromPanels returns DC power in watts for a panel count.
func PowerFromPanels(panels int) int {
	return panels * PowerPerPanelW
}

// TableValues derives the electrical values of a single table.
func TableValues(t *domain.Table) Values {
	s := StringsForSize(t.Size)
	p := PanelsFromStrings(s)
	return Values{Strings: s, Panels: p, PowerW: PowerFromPanels(p)}
}

// SumValues reduces tables to their combined electrical values. The
// reduction is order-independent: any permutation yields the same sums.
func SumValues(tables []*domain.Table) Values {
	var total Values
	for _, t := range tables {
		total = total.Add(TableValues(t))
	}
	return total
}

// Statistics is the denormalized per-project aggregate.
type Statistics struct {
	TotalTables          int
	CompletedTables      int
	PendingTables        int
	InProgressTables     int
	SkippedTables        int
	TotalStrings         int
	TotalPanels          int
	TotalPowerW          int
	CompletionPercentage int
}

// ProjectStatistics aggregates a project's joined table/work-state rows.
// Status counts always sum to TotalTables; CompletionPercentage is 0 for
// an empty project rather than a division fault.
func ProjectStatistics(rows []domain.TableWithState) Statistics {
	var stats Statistics
	stats.TotalTables = len(rows)

	for _, row := range rows {
		v := TableValues(row.Table)
		stats.TotalStrings += v.Strings
		stats.TotalPanels += v.Panels
		stats.TotalPowerW += v.PowerW

		switch row.State.Status {
		case domain.WorkCompleted:
			stats.CompletedTables++
		case domain.WorkInProgress:
			stats.InProgressTables++
		case domain.WorkSkipped:
			stats.SkippedTables++
		default:
			stats.PendingTables++
		}
	}

	if stats.TotalTables > 0 {
		stats.CompletionPercentage = int(math.Round(100 * float64(stats.CompletedTables) / float64(stats.TotalTables)))
	}
	return stats
}

package calc

import (
	"math/rand"
	"testing"

	"github.com/janmyrvold/fieldmap/internal/domain"
	"github.com/stretchr/testify/assert"
)

func table(size domain.TableSize) *domain.Table {
	return &domain.Table{ID: string(size), Size: size}
}

func TestStringsForSize(t *testing.T) {
	assert.Equal(t, 4, StringsForSize(domain.SizeSmall))
	assert.Equal(t, 6, StringsForSize(domain.SizeMedium))
	assert.Equal(t, 8, StringsForSize(domain.SizeLarge))
	assert.Equal(t, 0, StringsForSize(domain.TableSize("bogus")))
}

func TestTableValues_ComposesLookups(t *testing.T) {
	v := TableValues(table(domain.SizeLarge))
	assert.Equal(t, 8, v.Strings)
	assert.Equal(t, 8*PanelsPerString, v.Panels)
	assert.Equal(t, 8*PanelsPerString*PowerPerPanelW, v.PowerW)
}

func TestSumValues_EqualsPerTableSum(t *testing.T) {
	tables := []*domain.Table{
		table(domain.SizeSmall),
		table(domain.SizeMedium),
		table(domain.SizeLarge),
		table(domain.SizeLarge),
	}

	var want Values
	for _, tb := range tables {
		want = want.Add(TableValues(tb))
	}
	assert.Equal(t, want, SumValues(tables))
}

// Any permutation of the input must produce identical sums.
func TestSumValues_Commutative(t *testing.T) {
	sizes := []domain.TableSize{domain.SizeSmall, domain.SizeMedium, domain.SizeLarge}
	var tables []*domain.Table
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		tables = append(tables, table(sizes[rng.Intn(len(sizes))]))
	}

	want := SumValues(tables)
	for trial := 0; trial < 10; trial++ {
		shuffled := make([]*domain.Table, len(tables))
		copy(shuffled, tables)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		assert.Equal(t, want, SumValues(shuffled))
	}
}

func TestProjectStatistics_EmptyProject(t *testing.T) {
	stats := ProjectStatistics(nil)
	assert.Equal(t, 0, stats.TotalTables)
	assert.Equal(t, 0, stats.CompletionPercentage, "empty project must not divide by zero")
}

func TestProjectStatistics_StatusCountsCoverEveryTable(t *testing.T) {
	statuses := []domain.WorkStatus{
		domain.WorkPending, domain.WorkInProgress, domain.WorkCompleted,
		domain.WorkSkipped, domain.WorkCompleted, domain.WorkPending,
		domain.WorkInProgress,
	}
	var rows []domain.TableWithState
	for _, s := range statuses {
		tb := table(domain.SizeMedium)
		st := domain.DefaultWorkState(tb.ID)
		st.Status = s
		rows = append(rows, domain.TableWithState{Table: tb, State: st})
	}

	stats := ProjectStatistics(rows)
	sum := stats.CompletedTables + stats.PendingTables + stats.InProgressTables + stats.SkippedTables
	assert.Equal(t, stats.TotalTables, sum, "status counts must sum to total")
	assert.Equal(t, 2, stats.CompletedTables)
	assert.Equal(t, 2, stats.PendingTables)
	assert.Equal(t, 2, stats.InProgressTables)
	assert.Equal(t, 1, stats.SkippedTables)
}

func TestProjectStatistics_CompletionPercentageRounds(t *testing.T) {
	mk := func(completed, total int) Statistics {
		var rows []domain.TableWithState
		for i := 0; i < total; i++ {
			tb := table(domain.SizeSmall)
			st := domain.DefaultWorkState(tb.ID)
			if i < completed {
				st.Status = domain.WorkCompleted
			}
			rows = append(rows, domain.TableWithState{Table: tb, State: st})
		}
		return ProjectStatistics(rows)
	}

	assert.Equal(t, 0, mk(0, 4).CompletionPercentage)
	assert.Equal(t, 50, mk(2, 4).CompletionPercentage)
	assert.Equal(t, 33, mk(1, 3).CompletionPercentage)
	assert.Equal(t, 67, mk(2, 3).CompletionPercentage)
	assert.Equal(t, 100, mk(4, 4).CompletionPercentage)
}

// Scenario: fresh 2x2 project, all large, nothing worked yet.
func TestProjectStatistics_FreshGrid(t *testing.T) {
	var rows []domain.TableWithState
	for i := 0; i < 4; i++ {
		tb := table(domain.SizeLarge)
		rows = append(rows, domain.TableWithState{Table: tb, State: domain.DefaultWorkState(tb.ID)})
	}
	stats := ProjectStatistics(rows)
	assert.Equal(t, 4, stats.TotalTables)
	assert.Equal(t, 0, stats.CompletedTables)
	assert.Equal(t, 4, stats.PendingTables)
	assert.Equal(t, 0, stats.CompletionPercentage)
	assert.Equal(t, 4*8, stats.TotalStrings)
	assert.Equal(t, 4*8*PanelsPerString, stats.TotalPanels)
}

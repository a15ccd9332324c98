package formatter

import (
	"fmt"
	"strings"

	"github.com/janmyrvold/fieldmap/internal/calc"
	"github.com/janmyrvold/fieldmap/internal/domain"
)

// FormatProjectList renders projects as an aligned table.
func FormatProjectList(projects []*domain.Project) string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			ShortID(p.ID),
			p.Name,
			ProjectStatusPill(p.Status),
			fmt.Sprintf("%dx%d", p.GridRows, p.GridCols),
			p.Location,
		})
	}
	return RenderTable([]string{"ID", "Name", "Status", "Grid", "Location"}, rows)
}

// FormatStatistics renders the per-project aggregate block.
func FormatStatistics(p *domain.Project, stats *calc.Statistics) string {
	var b strings.Builder
	b.WriteString(Header(p.Name) + "\n\n")

	b.WriteString(fmt.Sprintf("  Tables      %d of %d positions  (%s %d  %s %d  %s %d  %s %d)\n",
		stats.TotalTables, p.GridCapacity(),
		StyleGreen.Render("completed"), stats.CompletedTables,
		StyleYellow.Render("in progress"), stats.InProgressTables,
		StyleDim.Render("pending"), stats.PendingTables,
		StyleBlue.Render("skipped"), stats.SkippedTables,
	))
	b.WriteString(fmt.Sprintf("  Strings     %d\n", stats.TotalStrings))
	b.WriteString(fmt.Sprintf("  Panels      %d\n", stats.TotalPanels))
	b.WriteString(fmt.Sprintf("  DC power    %s\n", FormatPower(stats.TotalPowerW)))
	b.WriteString("\n  " + RenderProgress(stats.CompletionPercentage, 24) + "\n")
	return b.String()
}

// FormatPower renders watts with a kW conversion past 1000 W.
func FormatPower(watts int) string {
	if watts >= 1000 {
		return fmt.Sprintf("%.1f kW", float64(watts)/1000)
	}
	return fmt.Sprintf("%d W", watts)
}

// ShortID returns the first segment of a UUID for compact display.
func ShortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

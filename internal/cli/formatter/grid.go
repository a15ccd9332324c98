package formatter

import (
	"strings"

	"github.com/janmyrvold/fieldmap/internal/domain"
)

// Cell glyphs for the grid view. Empty positions render as dots so the
// project's full grid shape stays visible.
const (
	glyphEmpty      = "·"
	glyphPending    = "□"
	glyphInProgress = "◩"
	glyphCompleted  = "■"
	glyphSkipped    = "▢"
)

// GridCell is one renderable position of the project grid.
type GridCell struct {
	Table    *domain.Table
	Status   domain.WorkStatus
	Selected bool
	Cursor   bool
}

// RenderGrid draws the project grid row by row. Selected cells are wrapped
// in brackets, the cursor cell is highlighted, and each occupied cell is
// colored by its work status.
func RenderGrid(rows, cols int, cellAt func(row, col int) GridCell) string {
	var b strings.Builder
	for r := 0; r < rows; r++ {
		b.WriteString("  ")
		for c := 0; c < cols; c++ {
			cell := cellAt(r, c)
			b.WriteString(renderCell(cell))
			if c < cols-1 {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderCell(cell GridCell) string {
	if cell.Table == nil {
		glyph := glyphEmpty
		if cell.Cursor {
			return StyleHeader.Render("[" + glyph + "]")
		}
		return " " + StyleDim.Render(glyph) + " "
	}

	glyph := glyphPending
	switch cell.Status {
	case domain.WorkCompleted:
		glyph = glyphCompleted
	case domain.WorkInProgress:
		glyph = glyphInProgress
	case domain.WorkSkipped:
		glyph = glyphSkipped
	}
	styled := WorkStatusStyle(cell.Status).Render(glyph)

	switch {
	case cell.Cursor && cell.Selected:
		return StyleHeader.Render("[") + StyleGreen.Render(glyph) + StyleHeader.Render("]")
	case cell.Cursor:
		return StyleHeader.Render("[") + styled + StyleHeader.Render("]")
	case cell.Selected:
		return StyleGreen.Render("[") + styled + StyleGreen.Render("]")
	default:
		return " " + styled + " "
	}
}

// GridLegend returns the one-line glyph legend shown under the grid.
func GridLegend() string {
	parts := []string{
		StyleDim.Render(glyphPending) + " pending",
		StyleYellow.Render(glyphInProgress) + " in progress",
		StyleGreen.Render(glyphCompleted) + " completed",
		StyleBlue.Render(glyphSkipped) + " skipped",
	}
	return Dim(strings.Join(parts, "   "))
}

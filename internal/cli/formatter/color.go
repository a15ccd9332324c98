// Package formatter renders CLI and TUI output: colors, tables, grids and
// progress bars.
package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/janmyrvold/fieldmap/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// WorkStatusStyle returns the style for a table work status.
func WorkStatusStyle(s domain.WorkStatus) lipgloss.Style {
	switch s {
	case domain.WorkCompleted:
		return StyleGreen
	case domain.WorkInProgress:
		return StyleYellow
	case domain.WorkSkipped:
		return StyleBlue
	default:
		return StyleDim
	}
}

// WorkStatusPill renders a colored status label such as "● completed".
func WorkStatusPill(s domain.WorkStatus) string {
	return WorkStatusStyle(s).Render("● " + string(s))
}

// ProjectStatusPill renders a colored project status label.
func ProjectStatusPill(s domain.ProjectStatus) string {
	switch s {
	case domain.ProjectActive:
		return StyleGreen.Render(string(s))
	case domain.ProjectCompleted:
		return StyleBlue.Render(string(s))
	case domain.ProjectArchived:
		return StyleDim.Render(string(s))
	default:
		return StyleYellow.Render(string(s))
	}
}

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

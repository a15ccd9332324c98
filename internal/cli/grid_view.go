package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/janmyrvold/fieldmap/internal/calc"
	"github.com/janmyrvold/fieldmap/internal/cli/formatter"
	"github.com/janmyrvold/fieldmap/internal/domain"
	"github.com/janmyrvold/fieldmap/internal/fieldmap"
)

// gridLoadedMsg carries a fresh snapshot of the project grid.
type gridLoadedMsg struct {
	project *domain.Project
	rows    []domain.TableWithState
	stats   *calc.Statistics
	err     error
}

// submitResolvedMsg signals that an in-flight work submission finished.
type submitResolvedMsg struct {
	record *domain.WorkRecord
	err    error
}

// gridModel is the interactive grid view: move the cursor, toggle tables
// into a selection, then confirm a work record over the selection. The grid
// is re-read from the repositories after every successful submit so the
// view always shows persisted state.
type gridModel struct {
	app       *App
	projectID string

	project *domain.Project
	cells   map[[2]int]domain.TableWithState
	stats   *calc.Statistics

	controller *fieldmap.Controller
	cursorRow  int
	cursorCol  int

	form       *huh.Form
	formValues *submitFormValues
	loading    bool
	status     string
	err        error
}

// gridKeyMap declares the grid view's key bindings.
type gridKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Toggle  key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

var gridKeys = gridKeyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
	Confirm: key.NewBinding(key.WithKeys("c", "enter"), key.WithHelp("c", "confirm")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k gridKeyMap) helpLine() string {
	bindings := []key.Binding{k.Toggle, k.Confirm, k.Quit}
	parts := make([]string, 0, len(bindings)+1)
	parts = append(parts, "move: ←↓↑→")
	for _, b := range bindings {
		parts = append(parts, b.Help().Key+": "+b.Help().Desc)
	}
	return strings.Join(parts, "  ")
}

type submitFormValues struct {
	workType  string
	newStatus string
	worker    string
	confirmed bool
}

func newGridModel(app *App, projectID string) *gridModel {
	return &gridModel{
		app:        app,
		projectID:  projectID,
		controller: fieldmap.NewController(projectID),
		cells:      make(map[[2]int]domain.TableWithState),
		loading:    true,
	}
}

func (m *gridModel) Init() tea.Cmd {
	return m.loadGrid()
}

func (m *gridModel) loadGrid() tea.Cmd {
	app := m.app
	projectID := m.projectID
	return func() tea.Msg {
		ctx := context.Background()
		project, err := app.Projects.GetByID(ctx, projectID)
		if err != nil {
			return gridLoadedMsg{err: err}
		}
		rows, err := app.Tables.ListWithState(ctx, projectID)
		if err != nil {
			return gridLoadedMsg{err: err}
		}
		stats, err := app.Projects.Statistics(ctx, projectID)
		if err != nil {
			return gridLoadedMsg{err: err}
		}
		return gridLoadedMsg{project: project, rows: rows, stats: stats}
	}
}

func (m *gridModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case gridLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.project = msg.project
		m.stats = msg.stats
		m.cells = make(map[[2]int]domain.TableWithState, len(msg.rows))
		for _, row := range msg.rows {
			m.cells[[2]int{row.Table.Row, row.Table.Col}] = row
		}
		return m, nil

	case submitResolvedMsg:
		if msg.err != nil {
			m.status = formatter.StyleRed.Render("Submit failed: " + msg.err.Error())
			return m, m.openConfirmForm()
		}
		m.status = formatter.StyleGreen.Render(fmt.Sprintf(
			"Recorded work over %d table(s).", len(msg.record.TableIDs)))
		m.form = nil
		return m, m.loadGrid()

	case tea.KeyMsg:
		if m.form != nil {
			return m.updateForm(msg)
		}
		return m.updateGrid(msg)
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m *gridModel) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.project == nil {
		if key.Matches(msg, gridKeys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, gridKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, gridKeys.Up):
		if m.cursorRow > 0 {
			m.cursorRow--
		}
	case key.Matches(msg, gridKeys.Down):
		if m.cursorRow < m.project.GridRows-1 {
			m.cursorRow++
		}
	case key.Matches(msg, gridKeys.Left):
		if m.cursorCol > 0 {
			m.cursorCol--
		}
	case key.Matches(msg, gridKeys.Right):
		if m.cursorCol < m.project.GridCols-1 {
			m.cursorCol++
		}
	case key.Matches(msg, gridKeys.Toggle):
		cell, ok := m.cells[[2]int{m.cursorRow, m.cursorCol}]
		if !ok {
			m.status = formatter.Dim("No table at this position.")
			return m, nil
		}
		if err := m.controller.Toggle(cell.Table); err != nil {
			m.status = formatter.StyleRed.Render(err.Error())
			return m, nil
		}
		m.status = ""
	case key.Matches(msg, gridKeys.Confirm):
		if err := m.controller.OpenConfirm(); err != nil {
			m.status = formatter.StyleRed.Render(err.Error())
			return m, nil
		}
		return m, m.openConfirmForm()
	}
	return m, nil
}

// openConfirmForm builds the huh confirmation sheet over the current
// selection. Worker name is prefilled from local settings.
func (m *gridModel) openConfirmForm() tea.Cmd {
	values := &submitFormValues{
		workType:  string(domain.WorkInstallation),
		newStatus: string(domain.WorkCompleted),
		confirmed: true,
	}
	if m.formValues != nil {
		*values = *m.formValues
		values.confirmed = true
	} else if worker, err := m.app.Settings.Get(context.Background(), domain.SettingWorkerName); err == nil {
		values.worker = worker
	}
	m.formValues = values

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Work type").
				Options(
					huh.NewOption("Installation", string(domain.WorkInstallation)),
					huh.NewOption("Inspection", string(domain.WorkInspection)),
					huh.NewOption("Maintenance", string(domain.WorkMaintenance)),
					huh.NewOption("Repair", string(domain.WorkRepair)),
				).
				Value(&values.workType),
			huh.NewSelect[string]().
				Title("Resulting status").
				Options(
					huh.NewOption("Completed", string(domain.WorkCompleted)),
					huh.NewOption("In progress", string(domain.WorkInProgress)),
					huh.NewOption("Skipped", string(domain.WorkSkipped)),
				).
				Value(&values.newStatus),
			huh.NewInput().
				Title("Worker").
				Placeholder("name").
				Value(&values.worker),
			huh.NewConfirm().
				Title(m.previewLine()).
				Affirmative("Submit").
				Negative("Cancel").
				Value(&values.confirmed),
		),
	).WithTheme(fieldmapHuhTheme()).WithShowHelp(false)

	return m.form.Init()
}

func (m *gridModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.Type == tea.KeyEsc {
		m.form = nil
		_ = m.controller.CancelConfirm()
		m.status = ""
		return m, nil
	}

	updated, cmd := m.form.Update(msg)
	if f, ok := updated.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		values := m.formValues
		if !values.confirmed {
			m.form = nil
			_ = m.controller.CancelConfirm()
			return m, nil
		}
		return m, m.submit(values)
	}
	if m.form.State == huh.StateAborted {
		m.form = nil
		_ = m.controller.CancelConfirm()
		return m, nil
	}
	return m, cmd
}

// submit performs the flow's single repository write off the UI goroutine.
func (m *gridModel) submit(values *submitFormValues) tea.Cmd {
	app := m.app
	controller := m.controller
	in := fieldmap.SubmitInput{
		WorkType:   values.workType,
		Status:     values.newStatus,
		WorkerName: values.worker,
	}
	return func() tea.Msg {
		rec, err := controller.Submit(context.Background(), app.Records, in)
		return submitResolvedMsg{record: rec, err: err}
	}
}

func (m *gridModel) previewLine() string {
	v := m.controller.Preview()
	return fmt.Sprintf("Confirm %d table(s): %d strings, %d panels, %s",
		m.controller.SelectedCount(), v.Strings, v.Panels, formatter.FormatPower(v.PowerW))
}

func (m *gridModel) View() string {
	if m.loading {
		return "\n  " + formatter.Dim("Loading project grid...")
	}
	if m.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n"
	}

	var b strings.Builder
	b.WriteString("\n" + formatter.Header(m.project.Name) + "\n\n")

	b.WriteString(formatter.RenderGrid(m.project.GridRows, m.project.GridCols, func(row, col int) formatter.GridCell {
		cell := formatter.GridCell{
			Cursor: row == m.cursorRow && col == m.cursorCol,
		}
		if tws, ok := m.cells[[2]int{row, col}]; ok {
			cell.Table = tws.Table
			cell.Status = tws.State.Status
			cell.Selected = m.controller.IsSelected(tws.Table.ID)
		}
		return cell
	}))
	b.WriteString("\n  " + formatter.GridLegend() + "\n")

	if m.stats != nil {
		b.WriteString("\n  " + formatter.RenderProgress(m.stats.CompletionPercentage, 24) + "\n")
	}
	if n := m.controller.SelectedCount(); n > 0 {
		b.WriteString("\n  " + formatter.Bold(m.previewLine()) + "\n")
	}
	if m.status != "" {
		b.WriteString("\n  " + m.status + "\n")
	}

	if m.form != nil {
		b.WriteString("\n" + m.form.View())
	} else {
		b.WriteString("\n  " + formatter.Dim(gridKeys.helpLine()) + "\n")
	}
	return b.String()
}

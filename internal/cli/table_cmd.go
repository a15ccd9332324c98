package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/janmyrvold/fieldmap/internal/cli/formatter"
	"github.com/janmyrvold/fieldmap/internal/factory"
)

func newTableCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Manage grid tables",
	}

	cmd.AddCommand(
		newTableAddCmd(app),
		newTableListCmd(app),
		newTableRemoveCmd(app),
	)

	return cmd
}

// gridPosition is one "row,col" flag value.
type gridPosition struct {
	row, col int
}

// positionList is a repeatable --pos flag collecting grid positions.
// It validates "row,col" syntax at parse time.
type positionList []gridPosition

var _ pflag.Value = (*positionList)(nil)

func (p *positionList) String() string {
	parts := make([]string, len(*p))
	for i, pos := range *p {
		parts[i] = fmt.Sprintf("%d,%d", pos.row, pos.col)
	}
	return strings.Join(parts, " ")
}

func (p *positionList) Set(s string) error {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid position %q, expected row,col", s)
	}
	row, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return fmt.Errorf("invalid row in %q: %w", s, err)
	}
	col, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return fmt.Errorf("invalid column in %q: %w", s, err)
	}
	*p = append(*p, gridPosition{row: row, col: col})
	return nil
}

func (p *positionList) Type() string { return "row,col" }

func newTableAddCmd(app *App) *cobra.Command {
	var project, size, label string
	var positions positionList

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add tables to a project grid",
		Long: `Add one or more tables at the given grid positions. The whole
batch is validated first: a single bad position writes nothing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}

			inputs := make([]factory.CreateTableInput, 0, len(positions))
			for _, pos := range positions {
				inputs = append(inputs, factory.CreateTableInput{
					Row:   pos.row,
					Col:   pos.col,
					Size:  size,
					Label: label,
				})
			}

			created, err := app.Tables.CreateTables(ctx, projectID, inputs)
			if err != nil {
				return err
			}

			fmt.Printf("Added %d table(s) to project %s\n", len(created), formatter.ShortID(projectID))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID")
	cmd.Flags().Var(&positions, "pos", "Grid position row,col (repeatable)")
	cmd.Flags().StringVar(&size, "size", "medium", "Table size (small|medium|large)")
	cmd.Flags().StringVar(&label, "label", "", "Optional label")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("pos")

	return cmd
}

func newTableListCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's tables with their work state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}

			rows, err := app.Tables.ListWithState(ctx, projectID)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Println("No tables found.")
				return nil
			}

			tableRows := make([][]string, 0, len(rows))
			for _, row := range rows {
				tableRows = append(tableRows, []string{
					formatter.ShortID(row.Table.ID),
					fmt.Sprintf("%d,%d", row.Table.Row, row.Table.Col),
					string(row.Table.Size),
					formatter.WorkStatusPill(row.State.Status),
					row.Table.Label,
				})
			}
			fmt.Printf("%s\n", formatter.RenderTable(
				[]string{"ID", "Pos", "Size", "Status", "Label"}, tableRows))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newTableRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Tables.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed table %s\n", formatter.ShortID(args[0]))
			return nil
		},
	}
}

package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive project grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && !app.IsInteractive() {
				return fmt.Errorf("the grid view needs an interactive terminal")
			}

			projectID, err := resolveProjectID(context.Background(), app, project)
			if err != nil {
				return err
			}

			program := tea.NewProgram(newGridModel(app, projectID), tea.WithAltScreen())
			_, err = program.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

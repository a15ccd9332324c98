package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/janmyrvold/fieldmap/internal/cli/formatter"
	"github.com/janmyrvold/fieldmap/internal/domain"
	"github.com/janmyrvold/fieldmap/internal/factory"
	"github.com/janmyrvold/fieldmap/internal/repository"
)

// resolveProjectID accepts a full UUID or an unambiguous prefix.
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("project ID is required")
	}

	projects, err := app.Projects.List(ctx, repository.ListOptions{})
	if err != nil {
		return "", err
	}

	for _, p := range projects {
		if p.ID == input {
			return p.ID, nil
		}
	}

	var matches []string
	for _, p := range projects {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("project not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("project ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectStatsCmd(app),
		newProjectUpdateCmd(app),
		newProjectRemoveCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var name, description, location, status string
	var rows, cols int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Projects.Create(context.Background(), factory.CreateProjectInput{
				Name:        name,
				Description: description,
				Location:    location,
				Status:      status,
				GridRows:    rows,
				GridCols:    cols,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Created project %s [%s] with a %dx%d grid\n",
				p.Name, formatter.ShortID(p.ID), p.GridRows, p.GridCols)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().StringVar(&location, "location", "", "Site location")
	cmd.Flags().StringVar(&status, "status", "", "Initial status (draft|active|completed|archived)")
	cmd.Flags().IntVar(&rows, "rows", 0, "Grid rows")
	cmd.Flags().IntVar(&cols, "cols", 0, "Grid columns")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("rows")
	_ = cmd.MarkFlagRequired("cols")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(context.Background(), repository.ListOptions{
				Limit:  limit,
				Offset: offset,
			})
			if err != nil {
				return err
			}

			if len(projects) == 0 {
				fmt.Println("No projects found.")
				return nil
			}

			fmt.Printf("%s\n", formatter.FormatProjectList(projects))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of projects to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of projects to skip")

	return cmd
}

func newProjectStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats ID",
		Short: "Show project statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(ctx, projectID)
			if err != nil {
				return err
			}
			stats, err := app.Projects.Statistics(ctx, projectID)
			if err != nil {
				return err
			}

			fmt.Printf("%s\n", formatter.FormatStatistics(p, stats))
			return nil
		},
	}
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var name, description, location, status string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(ctx, projectID)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("name") {
				p.Name = name
			}
			if cmd.Flags().Changed("description") {
				p.Description = description
			}
			if cmd.Flags().Changed("location") {
				p.Location = location
			}
			if cmd.Flags().Changed("status") {
				next := domain.ProjectStatus(status)
				if !next.IsValid() {
					return fmt.Errorf("invalid status %q", status)
				}
				p.Status = next
			}

			if err := app.Projects.Update(ctx, p); err != nil {
				return err
			}

			fmt.Printf("Updated project %s [%s]\n", p.Name, formatter.ShortID(p.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().StringVar(&location, "location", "", "Site location")
	cmd.Flags().StringVar(&status, "status", "", "Project status (draft|active|completed|archived)")

	return cmd
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a project and all of its tables and records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.DeleteWithRelated(ctx, projectID); err != nil {
				return err
			}
			fmt.Printf("Removed project %s\n", formatter.ShortID(projectID))
			return nil
		},
	}
}

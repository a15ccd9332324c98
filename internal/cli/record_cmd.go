package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/janmyrvold/fieldmap/internal/cli/formatter"
	"github.com/janmyrvold/fieldmap/internal/domain"
	"github.com/janmyrvold/fieldmap/internal/factory"
	"github.com/janmyrvold/fieldmap/internal/repository"
)

func newRecordCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Manage work records",
	}

	cmd.AddCommand(
		newRecordAddCmd(app),
		newRecordListCmd(app),
	)

	return cmd
}

func newRecordAddCmd(app *App) *cobra.Command {
	var project, workType, status, notes, worker string
	var tables []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record work over one or more tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}

			rec, err := app.Records.CreateWorkRecord(ctx, factory.CreateWorkRecordInput{
				ProjectID:  projectID,
				TableIDs:   tables,
				WorkType:   workType,
				Status:     status,
				Notes:      notes,
				WorkerName: worker,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Recorded %s work over %d table(s) [%s]\n",
				rec.WorkType, len(rec.TableIDs), formatter.ShortID(rec.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID")
	cmd.Flags().StringArrayVar(&tables, "table", nil, "Table ID (repeatable)")
	cmd.Flags().StringVar(&workType, "type", "installation", "Work type (installation|inspection|maintenance|repair)")
	cmd.Flags().StringVar(&status, "status", "completed", "Resulting status (pending|in_progress|completed|skipped)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&worker, "worker", "", "Worker name")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

// filterByTable keeps only the records whose table set covers the given id.
func filterByTable(records []*domain.WorkRecord, tableID string) []*domain.WorkRecord {
	filtered := make([]*domain.WorkRecord, 0, len(records))
	for _, rec := range records {
		if rec.Covers(tableID) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

func newRecordListCmd(app *App) *cobra.Command {
	var project, workType, status, table string
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work records",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			filter := repository.WorkRecordFilter{Limit: limit, Offset: offset}
			if project != "" {
				projectID, err := resolveProjectID(ctx, app, project)
				if err != nil {
					return err
				}
				filter.ProjectID = projectID
			}
			filter.WorkType = domain.WorkType(workType)
			filter.Status = domain.WorkStatus(status)

			page, err := app.Records.List(ctx, filter)
			if err != nil {
				return err
			}
			if table != "" {
				page.Records = filterByTable(page.Records, table)
			}
			if len(page.Records) == 0 {
				fmt.Println("No work records found.")
				return nil
			}

			rows := make([][]string, 0, len(page.Records))
			for _, rec := range page.Records {
				rows = append(rows, []string{
					formatter.ShortID(rec.ID),
					string(rec.WorkType),
					formatter.WorkStatusPill(rec.Status),
					fmt.Sprintf("%d", len(rec.TableIDs)),
					rec.WorkerName,
					rec.StartedAt.Local().Format(time.DateTime),
				})
			}
			fmt.Printf("%s\n", formatter.RenderTable(
				[]string{"ID", "Type", "Status", "Tables", "Worker", "Started"}, rows))

			if page.HasMore {
				fmt.Println(formatter.Dim(fmt.Sprintf("Showing %d of %d records.", len(page.Records), page.Total)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Filter by project ID")
	cmd.Flags().StringVar(&workType, "type", "", "Filter by work type")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&table, "table", "", "Only records covering this table ID")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of records to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of records to skip")

	return cmd
}

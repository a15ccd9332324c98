package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/janmyrvold/fieldmap/internal/cli/formatter"
)

func newSyncCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Deliver queued mutations to the remote backend",
	}

	cmd.AddCommand(
		newSyncRunCmd(app),
		newSyncWatchCmd(app),
		newSyncRetryCmd(app),
	)

	return cmd
}

func newSyncRunCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run a single sync pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Syncer.RunOnce(context.Background())
			if err != nil {
				return err
			}

			fmt.Printf("Delivered %d, failed %d, deferred %d\n",
				res.Delivered, res.Failed, res.Deferred)
			return nil
		},
	}
}

func newSyncWatchCmd(app *App) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Sync continuously until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(formatter.Dim(fmt.Sprintf("Syncing every %s. Ctrl+C to stop.", interval)))
			return app.Syncer.Run(cmd.Context(), interval)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "Delay between sync passes")

	return cmd
}

func newSyncRetryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "retry",
		Short: "Reopen items that exhausted their retry budget",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Syncer.RetryFailed(context.Background()); err != nil {
				return err
			}
			fmt.Println("Failed items reopened for delivery.")
			return nil
		},
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/janmyrvold/fieldmap/internal/repository"
)

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage local device settings",
	}

	cmd.AddCommand(
		newSettingsGetCmd(app),
		newSettingsSetCmd(app),
	)

	return cmd
}

func newSettingsGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Show a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := app.Settings.Get(context.Background(), args[0])
			if errors.Is(err, repository.ErrNotFound) {
				fmt.Printf("%s is not set\n", args[0])
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Println(value)
			return nil
		},
	}
}

func newSettingsSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Settings.Set(context.Background(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Set %s\n", args[0])
			return nil
		},
	}
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/janmyrvold/fieldmap/internal/service"
	syncpkg "github.com/janmyrvold/fieldmap/internal/sync"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects service.ProjectService
	Tables   service.TableService
	Records  service.WorkRecordService
	Settings service.SettingsService
	Syncer   *syncpkg.Dispatcher

	// IsInteractive reports whether stdin is a terminal; the TUI refuses
	// to start without one.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "fieldmap" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "fieldmap",
		Short: "Offline-first installation work tracker",
	}

	root.AddCommand(
		newProjectCmd(app),
		newTableCmd(app),
		newRecordCmd(app),
		newSyncCmd(app),
		newSettingsCmd(app),
		newTUICmd(app),
	)

	return root
}

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/janmyrvold/fieldmap/internal/cli"
	"github.com/janmyrvold/fieldmap/internal/config"
	"github.com/janmyrvold/fieldmap/internal/db"
	"github.com/janmyrvold/fieldmap/internal/repository"
	"github.com/janmyrvold/fieldmap/internal/service"
	syncpkg "github.com/janmyrvold/fieldmap/internal/sync"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(logger)

	if dir := filepath.Dir(cfg.DB.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	database, err := db.OpenDB(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories over the shared connection.
	projectRepo := repository.NewSQLiteProjectRepo(database)
	tableRepo := repository.NewSQLiteTableRepo(database)
	recordRepo := repository.NewSQLiteWorkRecordRepo(database)
	queueRepo := repository.NewSQLiteSyncQueueRepo(database)
	settingsRepo := repository.NewSQLiteSettingsRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.NewLogUseCaseObserver(os.Stderr)

	app := &cli.App{
		Projects: service.NewProjectService(projectRepo, tableRepo, recordRepo, uow, queueRepo, logger, observer),
		Tables:   service.NewTableService(projectRepo, tableRepo, uow, queueRepo, logger, observer),
		Records:  service.NewWorkRecordService(recordRepo, uow, queueRepo, logger, observer),
		Settings: service.NewSettingsService(settingsRepo),
		Syncer:   newSyncer(queueRepo, cfg, logger),
	}

	// Detect interactive terminal for the grid view entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}

// newSyncer builds the outbox dispatcher. Without a configured endpoint the
// dispatcher has no deliverer: sync passes refuse with a configuration error
// and leave the queue untouched.
func newSyncer(queue repository.SyncQueueRepo, cfg config.Config, logger *slog.Logger) *syncpkg.Dispatcher {
	var deliverer syncpkg.Deliverer
	if cfg.Sync.Endpoint != "" {
		deliverer = syncpkg.NewHTTPDeliverer(cfg.Sync.Endpoint)
	}

	return syncpkg.NewDispatcher(queue, deliverer, logger,
		syncpkg.WithBackoffBase(cfg.Sync.BackoffBase),
		syncpkg.WithBatchSize(cfg.Sync.BatchSize),
	)
}

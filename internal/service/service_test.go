package service

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/janmyrvold/fieldmap/internal/db"
	"github.com/janmyrvold/fieldmap/internal/repository"
	"github.com/janmyrvold/fieldmap/internal/testutil"
)

type testEnv struct {
	db       *sql.DB
	uow      db.UnitOfWork
	projects *repository.SQLiteProjectRepo
	tables   *repository.SQLiteTableRepo
	states   *repository.SQLiteWorkStateRepo
	records  *repository.SQLiteWorkRecordRepo
	queue    *repository.SQLiteSyncQueueRepo

	projectSvc ProjectService
	tableSvc   TableService
	recordSvc  WorkRecordService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	env := &testEnv{
		db:       database,
		uow:      uow,
		projects: repository.NewSQLiteProjectRepo(database),
		tables:   repository.NewSQLiteTableRepo(database),
		states:   repository.NewSQLiteWorkStateRepo(database),
		records:  repository.NewSQLiteWorkRecordRepo(database),
		queue:    repository.NewSQLiteSyncQueueRepo(database),
	}
	env.projectSvc = NewProjectService(env.projects, env.tables, env.records, uow, env.queue, logger, NoopUseCaseObserver{})
	env.tableSvc = NewTableService(env.projects, env.tables, uow, env.queue, logger, NoopUseCaseObserver{})
	env.recordSvc = NewWorkRecordService(env.records, uow, env.queue, logger, NoopUseCaseObserver{})
	return env
}

// withFailingUoW returns services backed by a unit of work that fails the
// nth write inside a transaction.
func (e *testEnv) withFailingUoW(failOn int32, injected error) (ProjectService, TableService, WorkRecordService) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uow := &testutil.FailOnNthExecUoW{DB: e.db, FailOn: failOn, Err: injected}
	return NewProjectService(e.projects, e.tables, e.records, uow, e.queue, logger, NoopUseCaseObserver{}),
		NewTableService(e.projects, e.tables, uow, e.queue, logger, NoopUseCaseObserver{}),
		NewWorkRecordService(e.records, uow, e.queue, logger, NoopUseCaseObserver{})
}

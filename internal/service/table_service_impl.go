package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/janmyrvold/fieldmap/internal/db"
	"github.com/janmyrvold/fieldmap/internal/domain"
	"github.com/janmyrvold/fieldmap/internal/factory"
	"github.com/janmyrvold/fieldmap/internal/repository"
)

type tableService struct {
	projects repository.ProjectRepo
	tables   repository.TableRepo
	uow      db.UnitOfWork
	outbox   *outbox
	observer UseCaseObserver
}

// NewTableService wires a TableService over the given repositories.
func NewTableService(
	projects repository.ProjectRepo,
	tables repository.TableRepo,
	uow db.UnitOfWork,
	queue repository.SyncQueueRepo,
	logger *slog.Logger,
	observer UseCaseObserver,
) TableService {
	return &tableService{
		projects: projects,
		tables:   tables,
		uow:      uow,
		outbox:   newOutbox(queue, logger),
		observer: observer,
	}
}

// CreateTables builds and inserts a batch of tables. Validation runs over
// the complete batch before the first write; each insert seeds the table's
// default pending work state inside the same transaction.
func (s *tableService) CreateTables(ctx context.Context, projectID string, inputs []factory.CreateTableInput) (created []*domain.Table, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "table.create_batch", start, err, map[string]any{"project_id": projectID, "count": len(inputs)})
	}()

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	tables := make([]*domain.Table, 0, len(inputs))
	for _, in := range inputs {
		in.ProjectID = projectID
		t, verr := factory.NewTable(in, project)
		if verr != nil {
			return nil, verr
		}
		tables = append(tables, t)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTables := repository.NewSQLiteTableRepo(tx)
		txStates := repository.NewSQLiteWorkStateRepo(tx)

		for _, t := range tables {
			if err := txTables.Create(ctx, t); err != nil {
				return err
			}
			state := domain.DefaultWorkState(t.ID)
			state.UpdatedAt = t.CreatedAt
			if err := txStates.Upsert(ctx, state); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, t := range tables {
		s.outbox.enqueue(ctx, EntityTable, t.ID, domain.OpCreate, t)
	}
	return tables, nil
}

func (s *tableService) GetByID(ctx context.Context, id string) (*domain.Table, error) {
	return s.tables.GetByID(ctx, id)
}

func (s *tableService) ListWithState(ctx context.Context, projectID string) ([]domain.TableWithState, error) {
	return s.tables.ListWithState(ctx, projectID)
}

func (s *tableService) Update(ctx context.Context, t *domain.Table) error {
	t.UpdatedAt = time.Now().UTC()
	if err := s.tables.Update(ctx, t); err != nil {
		return err
	}
	s.outbox.enqueue(ctx, EntityTable, t.ID, domain.OpUpdate, t)
	return nil
}

func (s *tableService) Delete(ctx context.Context, id string) error {
	if err := s.tables.Delete(ctx, id); err != nil {
		return err
	}
	s.outbox.purge(ctx, EntityTable, id)
	s.outbox.enqueue(ctx, EntityTable, id, domain.OpDelete, nil)
	return nil
}

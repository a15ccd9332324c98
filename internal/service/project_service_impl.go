package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/janmyrvold/fieldmap/internal/calc"
	"github.com/janmyrvold/fieldmap/internal/db"
	"github.com/janmyrvold/fieldmap/internal/domain"
	"github.com/janmyrvold/fieldmap/internal/factory"
	"github.com/janmyrvold/fieldmap/internal/repository"
)

type projectService struct {
	projects repository.ProjectRepo
	tables   repository.TableRepo
	records  repository.WorkRecordRepo
	uow      db.UnitOfWork
	outbox   *outbox
	observer UseCaseObserver
}

// NewProjectService wires a ProjectService over the given repositories.
func NewProjectService(
	projects repository.ProjectRepo,
	tables repository.TableRepo,
	records repository.WorkRecordRepo,
	uow db.UnitOfWork,
	queue repository.SyncQueueRepo,
	logger *slog.Logger,
	observer UseCaseObserver,
) ProjectService {
	return &projectService{
		projects: projects,
		tables:   tables,
		records:  records,
		uow:      uow,
		outbox:   newOutbox(queue, logger),
		observer: observer,
	}
}

func (s *projectService) Create(ctx context.Context, in factory.CreateProjectInput) (p *domain.Project, err error) {
	start := time.Now()
	defer func() { observe(ctx, s.observer, "project.create", start, err, nil) }()

	p, verr := factory.NewProject(in)
	if verr != nil {
		return nil, verr
	}
	if err = s.projects.Create(ctx, p); err != nil {
		return nil, err
	}
	s.outbox.enqueue(ctx, EntityProject, p.ID, domain.OpCreate, p)
	return p, nil
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context, opts repository.ListOptions) ([]*domain.Project, error) {
	return s.projects.List(ctx, opts)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) error {
	p.UpdatedAt = time.Now().UTC()
	if err := s.projects.Update(ctx, p); err != nil {
		return err
	}
	s.outbox.enqueue(ctx, EntityProject, p.ID, domain.OpUpdate, p)
	return nil
}

// DeleteWithRelated removes the project, its tables, their work states and
// its work records in a single transaction. The interrupted case leaves all
// four collections untouched.
func (s *projectService) DeleteWithRelated(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { observe(ctx, s.observer, "project.delete_with_related", start, err, map[string]any{"project_id": id}) }()

	// Resolve the victim set up front so queued mutations can be purged
	// after the cascade commits.
	if _, err = s.projects.GetByID(ctx, id); err != nil {
		return err
	}
	tables, err := s.tables.ListByProject(ctx, id)
	if err != nil {
		return err
	}
	page, err := s.records.List(ctx, repository.WorkRecordFilter{ProjectID: id})
	if err != nil {
		return err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRecords := repository.NewSQLiteWorkRecordRepo(tx)
		txStates := repository.NewSQLiteWorkStateRepo(tx)
		txTables := repository.NewSQLiteTableRepo(tx)
		txProjects := repository.NewSQLiteProjectRepo(tx)

		if err := txRecords.DeleteByProject(ctx, id); err != nil {
			return err
		}
		if err := txStates.DeleteByProject(ctx, id); err != nil {
			return err
		}
		if err := txTables.DeleteByProject(ctx, id); err != nil {
			return err
		}
		return txProjects.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	for _, t := range tables {
		s.outbox.purge(ctx, EntityTable, t.ID)
	}
	for _, rec := range page.Records {
		s.outbox.purge(ctx, EntityWorkRecord, rec.ID)
	}
	s.outbox.purge(ctx, EntityProject, id)
	s.outbox.enqueue(ctx, EntityProject, id, domain.OpDelete, nil)
	return nil
}

func (s *projectService) Statistics(ctx context.Context, projectID string) (*calc.Statistics, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	rows, err := s.tables.ListWithState(ctx, projectID)
	if err != nil {
		return nil, err
	}
	stats := calc.ProjectStatistics(rows)
	return &stats, nil
}

package service

import (
	"context"

	"github.com/janmyrvold/fieldmap/internal/calc"
	"github.com/janmyrvold/fieldmap/internal/domain"
	"github.com/janmyrvold/fieldmap/internal/factory"
	"github.com/janmyrvold/fieldmap/internal/repository"
)

// Entity type names used in sync queue items. The remote backend addresses
// mutations by these names.
const (
	EntityProject    = "project"
	EntityTable      = "table"
	EntityWorkRecord = "workRecord"
)

type ProjectService interface {
	Create(ctx context.Context, in factory.CreateProjectInput) (*domain.Project, error)
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, opts repository.ListOptions) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	// DeleteWithRelated removes the project together with its tables, their
	// work states and its work records in one transaction: either all four
	// deletions apply or none do.
	DeleteWithRelated(ctx context.Context, id string) error
	Statistics(ctx context.Context, projectID string) (*calc.Statistics, error)
}

type TableService interface {
	// CreateTables validates every input before writing anything: one bad
	// input fails the whole batch with zero rows written. Each created
	// table gets its default pending work state in the same transaction.
	CreateTables(ctx context.Context, projectID string, inputs []factory.CreateTableInput) ([]*domain.Table, error)
	GetByID(ctx context.Context, id string) (*domain.Table, error)
	ListWithState(ctx context.Context, projectID string) ([]domain.TableWithState, error)
	Update(ctx context.Context, t *domain.Table) error
	Delete(ctx context.Context, id string) error
}

type WorkRecordService interface {
	// CreateWorkRecord inserts the record and moves every referenced
	// table's work state to the record's status in one transaction, so a
	// reader never observes a record whose tables disagree with it.
	CreateWorkRecord(ctx context.Context, in factory.CreateWorkRecordInput) (*domain.WorkRecord, error)
	GetByID(ctx context.Context, id string) (*domain.WorkRecord, error)
	List(ctx context.Context, filter repository.WorkRecordFilter) (*repository.WorkRecordPage, error)
}

type SettingsService interface {
	Get(ctx context.Context, key string) (string, error)
	GetMany(ctx context.Context, keys []string) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
	SetMany(ctx context.Context, values map[string]string) error
}

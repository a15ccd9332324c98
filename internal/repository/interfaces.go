package repository

import (
	"context"
	"time"

	"github.com/janmyrvold/fieldmap/internal/domain"
)

// ListOptions controls pagination and ordering for list queries.
// A Limit of 0 means no limit. Listing is by creation time, descending
// unless Ascending is set.
type ListOptions struct {
	Offset    int
	Limit     int
	Ascending bool
}

// WorkRecordFilter narrows a work-record listing. Zero-valued fields are
// ignored; the time range is inclusive on both ends and matches StartedAt.
type WorkRecordFilter struct {
	ProjectID   string
	WorkType    domain.WorkType
	Status      domain.WorkStatus
	StartedFrom *time.Time
	StartedTo   *time.Time
	Offset      int
	Limit       int
}

// WorkRecordPage is one page of a filtered work-record listing.
type WorkRecordPage struct {
	Records []*domain.WorkRecord
	Total   int
	HasMore bool
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, opts ListOptions) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}

type TableRepo interface {
	Create(ctx context.Context, t *domain.Table) error
	GetByID(ctx context.Context, id string) (*domain.Table, error)
	GetByPosition(ctx context.Context, projectID string, row, col int) (*domain.Table, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Table, error)
	ListWithState(ctx context.Context, projectID string) ([]domain.TableWithState, error)
	Update(ctx context.Context, t *domain.Table) error
	Delete(ctx context.Context, id string) error
	DeleteByProject(ctx context.Context, projectID string) error
	CountByProject(ctx context.Context, projectID string) (int, error)
}

type WorkStateRepo interface {
	Get(ctx context.Context, tableID string) (*domain.TableWorkState, error)
	Upsert(ctx context.Context, s *domain.TableWorkState) error
	// SetStatus bulk-upserts the given status for every table id. When the
	// status is completed, completed_at is stamped; otherwise it is cleared.
	SetStatus(ctx context.Context, tableIDs []string, status domain.WorkStatus, workRecordID string) error
	// CountByStatus accounts for every table in the project exactly once;
	// tables without an explicit state row count as pending.
	CountByStatus(ctx context.Context, projectID string) (map[domain.WorkStatus]int, error)
	DeleteByProject(ctx context.Context, projectID string) error
}

type WorkRecordRepo interface {
	Create(ctx context.Context, r *domain.WorkRecord) error
	GetByID(ctx context.Context, id string) (*domain.WorkRecord, error)
	List(ctx context.Context, filter WorkRecordFilter) (*WorkRecordPage, error)
	DeleteByProject(ctx context.Context, projectID string) error
	Count(ctx context.Context) (int, error)
}

type SyncQueueRepo interface {
	Enqueue(ctx context.Context, item *domain.SyncQueueItem) error
	GetPending(ctx context.Context, limit int) ([]*domain.SyncQueueItem, error)
	GetFailed(ctx context.Context) ([]*domain.SyncQueueItem, error)
	MarkCompleted(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, deliveryErr string) error
	ResetAllAttempts(ctx context.Context) error
	RemoveByEntity(ctx context.Context, entityType, entityID string) error
	Count(ctx context.Context) (int, error)
	CountPending(ctx context.Context) (int, error)
}

type SettingsRepo interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// GetMany returns only the keys actually present; callers substitute
	// their own defaults for missing keys.
	GetMany(ctx context.Context, keys []string) (map[string]string, error)
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, key string) error
}

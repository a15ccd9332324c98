package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/janmyrvold/fieldmap/internal/domain"
)

// Project options
type ProjectOption func(*domain.Project)

func WithGrid(rows, cols int) ProjectOption {
	return func(p *domain.Project) {
		p.GridRows = rows
		p.GridCols = cols
	}
}

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithLocation(loc string) ProjectOption {
	return func(p *domain.Project) {
		p.Location = loc
	}
}

// NewTestProject builds an active 4x4 project ready for insertion.
func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		Status:    domain.ProjectActive,
		GridRows:  4,
		GridCols:  4,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Table options
type TableOption func(*domain.Table)

func WithSize(s domain.TableSize) TableOption {
	return func(t *domain.Table) {
		t.Size = s
	}
}

func WithLabel(label string) TableOption {
	return func(t *domain.Table) {
		t.Label = label
	}
}

// NewTestTable builds a medium table at the given grid position.
func NewTestTable(projectID string, row, col int, opts ...TableOption) *domain.Table {
	now := time.Now().UTC().Truncate(time.Second)
	t := &domain.Table{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Row:       row,
		Col:       col,
		Size:      domain.SizeMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// WorkRecord options
type WorkRecordOption func(*domain.WorkRecord)

func WithWorkType(wt domain.WorkType) WorkRecordOption {
	return func(r *domain.WorkRecord) {
		r.WorkType = wt
	}
}

func WithRecordStatus(s domain.WorkStatus) WorkRecordOption {
	return func(r *domain.WorkRecord) {
		r.Status = s
		if s == domain.WorkCompleted && r.CompletedAt == nil {
			now := time.Now().UTC().Truncate(time.Second)
			r.CompletedAt = &now
		}
	}
}

func WithStartedAt(t time.Time) WorkRecordOption {
	return func(r *domain.WorkRecord) {
		r.StartedAt = t
	}
}

// NewTestWorkRecord builds a completed installation record over the given tables.
func NewTestWorkRecord(projectID string, tableIDs []string, opts ...WorkRecordOption) *domain.WorkRecord {
	now := time.Now().UTC().Truncate(time.Second)
	r := &domain.WorkRecord{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		TableIDs:    tableIDs,
		WorkType:    domain.WorkInstallation,
		Status:      domain.WorkCompleted,
		StartedAt:   now,
		CompletedAt: &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewTestSyncItem builds a pending create mutation for the given entity.
func NewTestSyncItem(entityType, entityID string) *domain.SyncQueueItem {
	return &domain.SyncQueueItem{
		EntityType: entityType,
		EntityID:   entityID,
		Operation:  domain.OpCreate,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
}

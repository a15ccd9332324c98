// Package factory builds validated domain entities from input DTOs.
// Validators are total: any input yields either a value or a
// *domain.ValidationError, never a panic. Factories stamp generated ids
// and creation timestamps; they perform no I/O.
package factory

import (
	"time"

	"github.com/google/uuid"
	"github.com/janmyrvold/fieldmap/internal/domain"
)

// Grid dimensions accepted at project creation.
const (
	MinGridDim = 1
	MaxGridDim = 200
)

type CreateProjectInput struct {
	Name        string
	Description string
	Location    string
	Status      string
	GridRows    int
	GridCols    int
}

type CreateTableInput struct {
	ProjectID string
	Row       int
	Col       int
	Size      string
	Label     string
}

type CreateWorkRecordInput struct {
	ProjectID  string
	TableIDs   []string
	WorkType   string
	Status     string
	Notes      string
	WorkerName string
	StartedAt  *time.Time
}

// NewProject validates the input and constructs a Project.
// Status defaults to draft.
func NewProject(in CreateProjectInput) (*domain.Project, *domain.ValidationError) {
	if in.Name == "" {
		return nil, domain.Missing("name")
	}
	if in.GridRows < MinGridDim || in.GridRows > MaxGridDim {
		return nil, domain.Range("gridRows", "must be between 1 and 200")
	}
	if in.GridCols < MinGridDim || in.GridCols > MaxGridDim {
		return nil, domain.Range("gridCols", "must be between 1 and 200")
	}
	status := domain.ProjectStatus(in.Status)
	if in.Status == "" {
		status = domain.ProjectDraft
	} else if !status.IsValid() {
		return nil, domain.Enum("status", in.Status)
	}

	now := time.Now().UTC()
	return &domain.Project{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Location:    in.Location,
		Status:      status,
		GridRows:    in.GridRows,
		GridCols:    in.GridCols,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NewTable validates the input and constructs a Table. The grid bounds of
// the owning project are enforced here so repositories only ever see
// in-range positions.
func NewTable(in CreateTableInput, project *domain.Project) (*domain.Table, *domain.ValidationError) {
	if in.ProjectID == "" {
		return nil, domain.Missing("projectId")
	}
	if in.Row < 0 || in.Row >= project.GridRows {
		return nil, domain.Range("row", "outside project grid")
	}
	if in.Col < 0 || in.Col >= project.GridCols {
		return nil, domain.Range("col", "outside project grid")
	}
	size := domain.TableSize(in.Size)
	if !size.IsValid() {
		return nil, domain.Enum("size", in.Size)
	}

	now := time.Now().UTC()
	return &domain.Table{
		ID:        uuid.New().String(),
		ProjectID: in.ProjectID,
		Row:       in.Row,
		Col:       in.Col,
		Size:      size,
		Label:     in.Label,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewWorkRecord validates the input and constructs a WorkRecord. Duplicate
// table ids are collapsed; StartedAt defaults to now; CompletedAt is set
// when the record status is completed.
func NewWorkRecord(in CreateWorkRecordInput) (*domain.WorkRecord, *domain.ValidationError) {
	if in.ProjectID == "" {
		return nil, domain.Missing("projectId")
	}
	if len(in.TableIDs) == 0 {
		return nil, domain.Missing("tableIds")
	}
	workType := domain.WorkType(in.WorkType)
	if !workType.IsValid() {
		return nil, domain.Enum("workType", in.WorkType)
	}
	status := domain.WorkStatus(in.Status)
	if !status.IsValid() {
		return nil, domain.Enum("status", in.Status)
	}

	seen := make(map[string]bool, len(in.TableIDs))
	tableIDs := make([]string, 0, len(in.TableIDs))
	for _, id := range in.TableIDs {
		if id == "" {
			return nil, domain.Missing("tableIds")
		}
		if !seen[id] {
			seen[id] = true
			tableIDs = append(tableIDs, id)
		}
	}

	now := time.Now().UTC()
	startedAt := now
	if in.StartedAt != nil {
		startedAt = in.StartedAt.UTC()
	}
	var completedAt *time.Time
	if status == domain.WorkCompleted {
		completedAt = &now
	}

	return &domain.WorkRecord{
		ID:          uuid.New().String(),
		ProjectID:   in.ProjectID,
		TableIDs:    tableIDs,
		WorkType:    workType,
		Status:      status,
		Notes:       in.Notes,
		WorkerName:  in.WorkerName,
		StartedAt:   startedAt,
		CompletedAt: completedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

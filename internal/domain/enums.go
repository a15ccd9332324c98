package domain

type ProjectStatus string

const (
	ProjectDraft     ProjectStatus = "draft"
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectDraft, ProjectActive, ProjectCompleted, ProjectArchived:
		return true
	}
	return false
}

type TableSize string

const (
	SizeSmall  TableSize = "small"
	SizeMedium TableSize = "medium"
	SizeLarge  TableSize = "large"
)

func (s TableSize) IsValid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

// WorkStatus is shared by table work states and work records: a work record
// carries the status it stamps onto every table it covers.
type WorkStatus string

const (
	WorkPending    WorkStatus = "pending"
	WorkInProgress WorkStatus = "in_progress"
	WorkCompleted  WorkStatus = "completed"
	WorkSkipped    WorkStatus = "skipped"
)

func (s WorkStatus) IsValid() bool {
	switch s {
	case WorkPending, WorkInProgress, WorkCompleted, WorkSkipped:
		return true
	}
	return false
}

type WorkType string

const (
	WorkInstallation WorkType = "installation"
	WorkInspection   WorkType = "inspection"
	WorkMaintenance  WorkType = "maintenance"
	WorkRepair       WorkType = "repair"
)

func (t WorkType) IsValid() bool {
	switch t {
	case WorkInstallation, WorkInspection, WorkMaintenance, WorkRepair:
		return true
	}
	return false
}

type SyncOperation string

const (
	OpCreate SyncOperation = "create"
	OpUpdate SyncOperation = "update"
	OpDelete SyncOperation = "delete"
)

func (o SyncOperation) IsValid() bool {
	switch o {
	case OpCreate, OpUpdate, OpDelete:
		return true
	}
	return false
}

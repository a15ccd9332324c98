// Package fieldmap holds the in-memory selection controller behind the grid
// view. Browsing and selecting are pure state: the single repository write
// happens on submit, never before, so exploratory taps can't leave partial
// work behind.
package fieldmap

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/janmyrvold/fieldmap/internal/calc"
	"github.com/janmyrvold/fieldmap/internal/domain"
	"github.com/janmyrvold/fieldmap/internal/factory"
)

// Phase is the controller's position in the select-confirm-submit flow.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSelecting  Phase = "selecting"
	PhaseConfirming Phase = "confirming"
	PhaseSubmitting Phase = "submitting"
)

var (
	ErrSubmitInFlight = errors.New("a submit is already in flight")
	ErrEmptySelection = errors.New("selection is empty")
	ErrNotConfirming  = errors.New("confirmation sheet is not open")
)

// RecordCreator is the single write path the controller uses on submit.
type RecordCreator interface {
	CreateWorkRecord(ctx context.Context, in factory.CreateWorkRecordInput) (*domain.WorkRecord, error)
}

// SubmitInput carries the non-selection fields of the record to create.
type SubmitInput struct {
	WorkType   string
	Status     string
	Notes      string
	WorkerName string
}

// Controller accumulates a table selection for one project and turns it
// into exactly one work record on confirmation. Safe for use from the UI
// goroutine plus one in-flight submit goroutine.
type Controller struct {
	mu        sync.Mutex
	projectID string
	phase     Phase
	selected  map[string]*domain.Table
	lastErr   error
}

func NewController(projectID string) *Controller {
	return &Controller{
		projectID: projectID,
		phase:     PhaseIdle,
		selected:  make(map[string]*domain.Table),
	}
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Toggle flips a table's membership in the selection. Allowed in every
// phase except Submitting.
func (c *Controller) Toggle(t *domain.Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == PhaseSubmitting {
		return ErrSubmitInFlight
	}
	if _, ok := c.selected[t.ID]; ok {
		delete(c.selected, t.ID)
	} else {
		c.selected[t.ID] = t
	}

	switch {
	case len(c.selected) == 0 && c.phase != PhaseConfirming:
		c.phase = PhaseIdle
	case c.phase == PhaseIdle:
		c.phase = PhaseSelecting
	}
	return nil
}

func (c *Controller) IsSelected(tableID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.selected[tableID]
	return ok
}

// SelectedIDs returns the selection in stable order.
func (c *Controller) SelectedIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.selected))
	for id := range c.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (c *Controller) SelectedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.selected)
}

// Preview derives the electrical totals of the current selection.
func (c *Controller) Preview() calc.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	tables := make([]*domain.Table, 0, len(c.selected))
	for _, t := range c.selected {
		tables = append(tables, t)
	}
	return calc.SumValues(tables)
}

// OpenConfirm opens the confirmation sheet over a non-empty selection.
func (c *Controller) OpenConfirm() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.phase {
	case PhaseSubmitting:
		return ErrSubmitInFlight
	case PhaseConfirming:
		return nil
	}
	if len(c.selected) == 0 {
		return ErrEmptySelection
	}
	c.phase = PhaseConfirming
	c.lastErr = nil
	return nil
}

// CancelConfirm closes the sheet, keeping the selection.
func (c *Controller) CancelConfirm() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == PhaseSubmitting {
		return ErrSubmitInFlight
	}
	if c.phase != PhaseConfirming {
		return ErrNotConfirming
	}
	if len(c.selected) == 0 {
		c.phase = PhaseIdle
	} else {
		c.phase = PhaseSelecting
	}
	return nil
}

// Submit performs the single repository write of the flow. It is only
// reachable from Confirming, and a second submit is rejected until the
// first resolves. On success the selection is cleared; on failure the
// sheet stays open with the selection intact so the user can retry.
func (c *Controller) Submit(ctx context.Context, creator RecordCreator, in SubmitInput) (*domain.WorkRecord, error) {
	tableIDs, err := c.beginSubmit()
	if err != nil {
		return nil, err
	}

	rec, err := creator.CreateWorkRecord(ctx, factory.CreateWorkRecordInput{
		ProjectID:  c.projectID,
		TableIDs:   tableIDs,
		WorkType:   in.WorkType,
		Status:     in.Status,
		Notes:      in.Notes,
		WorkerName: in.WorkerName,
	})
	c.resolve(err)
	return rec, err
}

// LastError returns the error of the most recent failed submit, if the
// sheet is still open on it.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Controller) beginSubmit() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == PhaseSubmitting {
		return nil, ErrSubmitInFlight
	}
	if c.phase != PhaseConfirming {
		return nil, ErrNotConfirming
	}

	ids := make([]string, 0, len(c.selected))
	for id := range c.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	c.phase = PhaseSubmitting
	c.lastErr = nil
	return ids, nil
}

func (c *Controller) resolve(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.phase = PhaseConfirming
		c.lastErr = err
		return
	}
	c.selected = make(map[string]*domain.Table)
	c.phase = PhaseIdle
	c.lastErr = nil
}

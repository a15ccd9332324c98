package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janmyrvold/fieldmap/internal/domain"
	"github.com/janmyrvold/fieldmap/internal/factory"
	"github.com/janmyrvold/fieldmap/internal/repository"
)

// seedProjectWithTables creates a project with count medium tables laid out
// row-major on a 4x4 grid.
func seedProjectWithTables(t *testing.T, env *testEnv, count int) (*domain.Project, []*domain.Table) {
	t.Helper()
	ctx := context.Background()

	project, err := env.projectSvc.Create(ctx, factory.CreateProjectInput{
		Name: "West Field", GridRows: 4, GridCols: 4,
	})
	require.NoError(t, err)

	inputs := make([]factory.CreateTableInput, count)
	for i := range inputs {
		inputs[i] = factory.CreateTableInput{Row: i / 4, Col: i % 4, Size: "medium"}
	}
	tables, err := env.tableSvc.CreateTables(ctx, project.ID, inputs)
	require.NoError(t, err)
	return project, tables
}

func TestWorkRecordService_Create_UpdatesEveryReferencedState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	project, tables := seedProjectWithTables(t, env, 3)

	rec, err := env.recordSvc.CreateWorkRecord(ctx, factory.CreateWorkRecordInput{
		ProjectID: project.ID,
		TableIDs:  []string{tables[0].ID, tables[1].ID},
		WorkType:  "installation",
		Status:    "completed",
	})
	require.NoError(t, err)

	for _, id := range []string{tables[0].ID, tables[1].ID} {
		state, err := env.states.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.WorkCompleted, state.Status)
		require.NotNil(t, state.LastWorkRecordID)
		assert.Equal(t, rec.ID, *state.LastWorkRecordID)
		assert.NotNil(t, state.CompletedAt)
	}

	// The untouched table stays pending.
	state, err := env.states.Get(ctx, tables[2].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkPending, state.Status)
}

func TestWorkRecordService_Create_RejectsTableFromOtherProject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	project, _ := seedProjectWithTables(t, env, 1)
	_, otherTables := seedProjectWithTables(t, env, 1)

	_, err := env.recordSvc.CreateWorkRecord(ctx, factory.CreateWorkRecordInput{
		ProjectID: project.ID,
		TableIDs:  []string{otherTables[0].ID},
		WorkType:  "installation",
		Status:    "completed",
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "tableIds", verr.Field)

	count, err := env.records.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestWorkRecordService_Create_RejectsUnknownTable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	project, _ := seedProjectWithTables(t, env, 1)

	_, err := env.recordSvc.CreateWorkRecord(ctx, factory.CreateWorkRecordInput{
		ProjectID: project.ID,
		TableIDs:  []string{"no-such-table"},
		WorkType:  "inspection",
		Status:    "completed",
	})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWorkRecordService_Create_StateWriteFailureRollsBackRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	project, tables := seedProjectWithTables(t, env, 2)

	// Exec order inside the tx: record insert, two link inserts, then one
	// state upsert per table. Failing the fourth exec interrupts the first
	// state write.
	_, _, recordSvc := env.withFailingUoW(4, assert.AnError)
	_, err := recordSvc.CreateWorkRecord(ctx, factory.CreateWorkRecordInput{
		ProjectID: project.ID,
		TableIDs:  []string{tables[0].ID, tables[1].ID},
		WorkType:  "installation",
		Status:    "completed",
	})
	require.ErrorIs(t, err, assert.AnError)

	count, err := env.records.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "an interrupted creation must leave no record behind")

	state, err := env.states.Get(ctx, tables[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkPending, state.Status)
}

func TestWorkRecordService_CompletionReflectedInStatistics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	project, tables := seedProjectWithTables(t, env, 4)

	_, err := env.recordSvc.CreateWorkRecord(ctx, factory.CreateWorkRecordInput{
		ProjectID: project.ID,
		TableIDs:  []string{tables[0].ID, tables[1].ID},
		WorkType:  "installation",
		Status:    "completed",
	})
	require.NoError(t, err)

	stats, err := env.projectSvc.Statistics(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalTables)
	assert.Equal(t, 2, stats.CompletedTables)
	assert.Equal(t, 2, stats.PendingTables)
	assert.Equal(t, 50, stats.CompletionPercentage)
}

func TestWorkRecordService_Create_Enqueues(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	project, tables := seedProjectWithTables(t, env, 1)

	rec, err := env.recordSvc.CreateWorkRecord(ctx, factory.CreateWorkRecordInput{
		ProjectID: project.ID,
		TableIDs:  []string{tables[0].ID},
		WorkType:  "maintenance",
		Status:    "in_progress",
	})
	require.NoError(t, err)

	pending, err := env.queue.GetPending(ctx, 0)
	require.NoError(t, err)

	var found bool
	for _, item := range pending {
		if item.EntityType == EntityWorkRecord && item.EntityID == rec.ID {
			found = true
			assert.Equal(t, domain.OpCreate, item.Operation)
			assert.NotEmpty(t, item.Payload)
		}
	}
	assert.True(t, found, "record creation must enqueue a sync item")
}

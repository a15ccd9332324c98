package repository

import (
	"context"
	"testing"

	"github.com/janmyrvold/fieldmap/internal/domain"
	"github.com/janmyrvold/fieldmap/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkStateRepo_SetStatus_Completed(t *testing.T) {
	db := testutil.NewTestDB(t)
	tableRepo := NewSQLiteTableRepo(db)
	repo := NewSQLiteWorkStateRepo(db)
	ctx := context.Background()
	proj := seedProject(t, db)

	t1 := testutil.NewTestTable(proj.ID, 0, 0)
	t2 := testutil.NewTestTable(proj.ID, 0, 1)
	require.NoError(t, tableRepo.Create(ctx, t1))
	require.NoError(t, tableRepo.Create(ctx, t2))

	require.NoError(t, repo.SetStatus(ctx, []string{t1.ID, t2.ID}, domain.WorkCompleted, "rec-1"))

	for _, id := range []string{t1.ID, t2.ID} {
		state, err := repo.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.WorkCompleted, state.Status)
		require.NotNil(t, state.LastWorkRecordID)
		assert.Equal(t, "rec-1", *state.LastWorkRecordID)
		require.NotNil(t, state.CompletedAt, "completed states carry a completion time")
	}
}

func TestWorkStateRepo_SetStatus_NonCompletedClearsCompletedAt(t *testing.T) {
	db := testutil.NewTestDB(t)
	tableRepo := NewSQLiteTableRepo(db)
	repo := NewSQLiteWorkStateRepo(db)
	ctx := context.Background()
	proj := seedProject(t, db)

	tb := testutil.NewTestTable(proj.ID, 0, 0)
	require.NoError(t, tableRepo.Create(ctx, tb))

	require.NoError(t, repo.SetStatus(ctx, []string{tb.ID}, domain.WorkCompleted, "rec-1"))
	require.NoError(t, repo.SetStatus(ctx, []string{tb.ID}, domain.WorkInProgress, "rec-2"))

	state, err := repo.Get(ctx, tb.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkInProgress, state.Status)
	assert.Nil(t, state.CompletedAt, "reopening work clears the completion time")
	require.NotNil(t, state.LastWorkRecordID)
	assert.Equal(t, "rec-2", *state.LastWorkRecordID)
}

func TestWorkStateRepo_SetStatus_EmptySetIsNoop(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteWorkStateRepo(db)

	require.NoError(t, repo.SetStatus(context.Background(), nil, domain.WorkCompleted, "rec-1"))
}

func TestWorkStateRepo_CountByStatus_ImplicitPending(t *testing.T) {
	db := testutil.NewTestDB(t)
	tableRepo := NewSQLiteTableRepo(db)
	repo := NewSQLiteWorkStateRepo(db)
	ctx := context.Background()
	proj := seedProject(t, db)

	var ids []string
	for col := 0; col < 4; col++ {
		tb := testutil.NewTestTable(proj.ID, 0, col)
		require.NoError(t, tableRepo.Create(ctx, tb))
		ids = append(ids, tb.ID)
	}

	// Two completed, one skipped, one left without a state row.
	require.NoError(t, repo.SetStatus(ctx, ids[:2], domain.WorkCompleted, "rec-1"))
	require.NoError(t, repo.SetStatus(ctx, ids[2:3], domain.WorkSkipped, "rec-1"))

	counts, err := repo.CountByStatus(ctx, proj.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, counts[domain.WorkCompleted])
	assert.Equal(t, 1, counts[domain.WorkSkipped])
	assert.Equal(t, 1, counts[domain.WorkPending], "tables without a row count as pending")
	assert.Equal(t, 0, counts[domain.WorkInProgress])

	total := 0
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, 4, total, "every table counted exactly once")
}

func TestWorkStateRepo_Get_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteWorkStateRepo(db)

	_, err := repo.Get(context.Background(), "no-such-table")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkStateRepo_DeleteByProject(t *testing.T) {
	db := testutil.NewTestDB(t)
	tableRepo := NewSQLiteTableRepo(db)
	repo := NewSQLiteWorkStateRepo(db)
	ctx := context.Background()
	proj := seedProject(t, db)

	tb := testutil.NewTestTable(proj.ID, 0, 0)
	require.NoError(t, tableRepo.Create(ctx, tb))
	require.NoError(t, repo.SetStatus(ctx, []string{tb.ID}, domain.WorkCompleted, "rec-1"))

	require.NoError(t, repo.DeleteByProject(ctx, proj.ID))

	_, err := repo.Get(ctx, tb.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/janmyrvold/fieldmap/internal/domain"
	"github.com/janmyrvold/fieldmap/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncQueueRepo_EnqueueAssignsID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSyncQueueRepo(db)
	ctx := context.Background()

	a := testutil.NewTestSyncItem("project", "p1")
	b := testutil.NewTestSyncItem("table", "t1")
	require.NoError(t, repo.Enqueue(ctx, a))
	require.NoError(t, repo.Enqueue(ctx, b))

	assert.Greater(t, a.ID, int64(0))
	assert.Greater(t, b.ID, a.ID, "ids are monotonically increasing")
}

func TestSyncQueueRepo_GetPending_FIFOWithLimit(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSyncQueueRepo(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Enqueue(ctx, testutil.NewTestSyncItem("table", fmt.Sprintf("t%d", i))))
	}

	items, err := repo.GetPending(ctx, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "t0", items[0].EntityID)
	assert.Equal(t, "t1", items[1].EntityID)

	all, err := repo.GetPending(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSyncQueueRepo_MarkCompletedRemovesRow(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSyncQueueRepo(db)
	ctx := context.Background()

	item := testutil.NewTestSyncItem("project", "p1")
	require.NoError(t, repo.Enqueue(ctx, item))
	require.NoError(t, repo.MarkCompleted(ctx, item.ID))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	err = repo.MarkCompleted(ctx, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// An item failed MaxSyncAttempts times leaves the pending queue and shows up
// in the failed listing; a reset reopens it with attempts back at zero.
func TestSyncQueueRepo_RetryBoundAndReset(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSyncQueueRepo(db)
	ctx := context.Background()

	item := testutil.NewTestSyncItem("workRecord", "r1")
	require.NoError(t, repo.Enqueue(ctx, item))

	for i := 0; i < domain.MaxSyncAttempts; i++ {
		pending, err := repo.GetPending(ctx, 0)
		require.NoError(t, err)
		require.Len(t, pending, 1, "item stays pending until the bound is hit")
		require.NoError(t, repo.MarkFailed(ctx, item.ID, fmt.Sprintf("attempt %d refused", i+1)))
	}

	pending, err := repo.GetPending(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, pending, "dead items leave the pending queue")

	failed, err := repo.GetFailed(ctx)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, domain.MaxSyncAttempts, failed[0].Attempts)
	assert.Contains(t, failed[0].LastError, "refused")
	assert.NotNil(t, failed[0].LastAttemptAt)
	assert.True(t, failed[0].Dead())

	require.NoError(t, repo.ResetAllAttempts(ctx))

	pending, err = repo.GetPending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 0, pending[0].Attempts)

	failed, err = repo.GetFailed(ctx)
	require.NoError(t, err)
	assert.Empty(t, failed)
}

func TestSyncQueueRepo_RemoveByEntity(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSyncQueueRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Enqueue(ctx, testutil.NewTestSyncItem("table", "t1")))
	require.NoError(t, repo.Enqueue(ctx, testutil.NewTestSyncItem("table", "t1")))
	require.NoError(t, repo.Enqueue(ctx, testutil.NewTestSyncItem("table", "t2")))

	require.NoError(t, repo.RemoveByEntity(ctx, "table", "t1"))

	items, err := repo.GetPending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "t2", items[0].EntityID)
}

func TestSyncQueueRepo_CountPending(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSyncQueueRepo(db)
	ctx := context.Background()

	alive := testutil.NewTestSyncItem("project", "p1")
	dead := testutil.NewTestSyncItem("project", "p2")
	require.NoError(t, repo.Enqueue(ctx, alive))
	require.NoError(t, repo.Enqueue(ctx, dead))
	for i := 0; i < domain.MaxSyncAttempts; i++ {
		require.NoError(t, repo.MarkFailed(ctx, dead.ID, "down"))
	}

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	pending, err := repo.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, pending)
}

func TestSyncQueueRepo_PayloadRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSyncQueueRepo(db)
	ctx := context.Background()

	item := testutil.NewTestSyncItem("workRecord", "r1")
	item.Operation = domain.OpUpdate
	item.Payload = []byte(`{"status":"completed"}`)
	require.NoError(t, repo.Enqueue(ctx, item))

	items, err := repo.GetPending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.OpUpdate, items[0].Operation)
	assert.JSONEq(t, `{"status":"completed"}`, string(items[0].Payload))
}

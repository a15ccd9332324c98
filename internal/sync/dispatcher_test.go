package sync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janmyrvold/fieldmap/internal/domain"
	"github.com/janmyrvold/fieldmap/internal/repository"
	"github.com/janmyrvold/fieldmap/internal/testutil"
)

type fakeDeliverer struct {
	delivered []*domain.SyncQueueItem
	err       error
}

func (f *fakeDeliverer) Deliver(_ context.Context, item *domain.SyncQueueItem) error {
	if f.err != nil {
		return f.err
	}
	f.delivered = append(f.delivered, item)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcher_RunOnce_DeliversFIFO(t *testing.T) {
	database := testutil.NewTestDB(t)
	queue := repository.NewSQLiteSyncQueueRepo(database)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, queue.Enqueue(ctx, testutil.NewTestSyncItem("project", id)))
	}

	deliverer := &fakeDeliverer{}
	d := NewDispatcher(queue, deliverer, discardLogger())

	res, err := d.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Delivered)
	assert.Zero(t, res.Failed)

	require.Len(t, deliverer.delivered, 3)
	assert.Equal(t, "a", deliverer.delivered[0].EntityID)
	assert.Equal(t, "b", deliverer.delivered[1].EntityID)
	assert.Equal(t, "c", deliverer.delivered[2].EntityID)

	count, err := queue.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "delivered items leave the queue")
}

func TestDispatcher_FailureCountsAgainstRetryBudget(t *testing.T) {
	database := testutil.NewTestDB(t)
	queue := repository.NewSQLiteSyncQueueRepo(database)
	ctx := context.Background()

	require.NoError(t, queue.Enqueue(ctx, testutil.NewTestSyncItem("table", "t1")))

	deliverer := &fakeDeliverer{err: errors.New("backend unreachable")}
	// Zero backoff so every pass retries immediately.
	d := NewDispatcher(queue, deliverer, discardLogger(), WithBackoffBase(0))

	for i := 0; i < domain.MaxSyncAttempts; i++ {
		res, err := d.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Failed)
	}

	// Budget exhausted: the item is dead, not pending.
	pending, err := queue.GetPending(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, pending)

	failed, err := queue.GetFailed(ctx)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, domain.MaxSyncAttempts, failed[0].Attempts)
	assert.Equal(t, "backend unreachable", failed[0].LastError)
	assert.True(t, failed[0].Dead())

	// A further pass is a no-op.
	res, err := d.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.Failed)
	assert.Zero(t, res.Delivered)
}

func TestDispatcher_NoDelivererRefusesWithoutTouchingQueue(t *testing.T) {
	database := testutil.NewTestDB(t)
	queue := repository.NewSQLiteSyncQueueRepo(database)
	ctx := context.Background()

	require.NoError(t, queue.Enqueue(ctx, testutil.NewTestSyncItem("project", "p1")))

	// No endpoint configured means no deliverer. Repeated passes must not
	// consume the item's retry budget.
	d := NewDispatcher(queue, nil, discardLogger())
	for i := 0; i < domain.MaxSyncAttempts; i++ {
		_, err := d.RunOnce(ctx)
		require.ErrorIs(t, err, ErrNotConfigured)
	}

	pending, err := queue.GetPending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Zero(t, pending[0].Attempts)
	assert.Nil(t, pending[0].LastAttemptAt)
	assert.Empty(t, pending[0].LastError)

	failed, err := queue.GetFailed(ctx)
	require.NoError(t, err)
	assert.Empty(t, failed)
}

func TestDispatcher_RetryFailedReopensDeadItems(t *testing.T) {
	database := testutil.NewTestDB(t)
	queue := repository.NewSQLiteSyncQueueRepo(database)
	ctx := context.Background()

	require.NoError(t, queue.Enqueue(ctx, testutil.NewTestSyncItem("table", "t1")))

	deliverer := &fakeDeliverer{err: errors.New("backend unreachable")}
	d := NewDispatcher(queue, deliverer, discardLogger(), WithBackoffBase(0))
	for i := 0; i < domain.MaxSyncAttempts; i++ {
		_, err := d.RunOnce(ctx)
		require.NoError(t, err)
	}

	require.NoError(t, d.RetryFailed(ctx))
	deliverer.err = nil

	res, err := d.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Delivered)

	count, err := queue.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDispatcher_BackoffDefersRecentFailures(t *testing.T) {
	database := testutil.NewTestDB(t)
	queue := repository.NewSQLiteSyncQueueRepo(database)
	ctx := context.Background()

	require.NoError(t, queue.Enqueue(ctx, testutil.NewTestSyncItem("project", "p1")))

	now := time.Now().UTC()
	clock := func() time.Time { return now }

	deliverer := &fakeDeliverer{err: errors.New("flaky")}
	d := NewDispatcher(queue, deliverer, discardLogger(),
		WithBackoffBase(time.Minute), WithClock(clock))

	res, err := d.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)

	// Immediately after the failure the item sits in its backoff window.
	deliverer.err = nil
	res, err = d.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Deferred)
	assert.Zero(t, res.Delivered)

	// attempts=1 waits base*2; past that the item is retried.
	now = now.Add(3 * time.Minute)
	res, err = d.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Delivered)
}

func TestDispatcher_BatchSizeLimitsPass(t *testing.T) {
	database := testutil.NewTestDB(t)
	queue := repository.NewSQLiteSyncQueueRepo(database)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, queue.Enqueue(ctx, testutil.NewTestSyncItem("project", id)))
	}

	deliverer := &fakeDeliverer{}
	d := NewDispatcher(queue, deliverer, discardLogger(), WithBatchSize(2))

	res, err := d.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Delivered)

	res, err = d.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Delivered)
}

func TestDispatcher_DelivererFunc(t *testing.T) {
	database := testutil.NewTestDB(t)
	queue := repository.NewSQLiteSyncQueueRepo(database)
	ctx := context.Background()

	require.NoError(t, queue.Enqueue(ctx, testutil.NewTestSyncItem("workRecord", "r1")))

	var seen string
	d := NewDispatcher(queue, DelivererFunc(func(_ context.Context, item *domain.SyncQueueItem) error {
		seen = item.EntityID
		return nil
	}), discardLogger())

	_, err := d.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r1", seen)
}

// Package sync drains the outbox queue against a remote backend. Delivery
// is at-least-once: an item is removed from the queue only after the
// deliverer reports success, and each failure is counted against the item's
// retry budget.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/janmyrvold/fieldmap/internal/domain"
	"github.com/janmyrvold/fieldmap/internal/repository"
)

// ErrNotConfigured reports a dispatch attempt without a delivery endpoint.
// The pass refuses before touching the queue: attempts count real delivery
// failures, not local misconfiguration.
var ErrNotConfigured = errors.New("sync endpoint is not configured (set FIELDMAP_SYNC_ENDPOINT)")

// Deliverer pushes one queued mutation to the remote backend.
type Deliverer interface {
	Deliver(ctx context.Context, item *domain.SyncQueueItem) error
}

// DelivererFunc adapts a function to the Deliverer interface.
type DelivererFunc func(ctx context.Context, item *domain.SyncQueueItem) error

func (f DelivererFunc) Deliver(ctx context.Context, item *domain.SyncQueueItem) error {
	return f(ctx, item)
}

// Result summarizes one dispatch pass.
type Result struct {
	Delivered int
	Failed    int
	Deferred  int
}

// Dispatcher drains pending sync items in FIFO order with exponential
// backoff between retries of the same item.
type Dispatcher struct {
	queue     repository.SyncQueueRepo
	deliverer Deliverer
	logger    *slog.Logger

	backoffBase time.Duration
	batchSize   int
	now         func() time.Time
}

type Option func(*Dispatcher)

// WithBackoffBase sets the base delay; retry n of an item waits base * 2^n.
func WithBackoffBase(d time.Duration) Option {
	return func(s *Dispatcher) { s.backoffBase = d }
}

// WithBatchSize caps the number of items fetched per pass. Zero means all.
func WithBatchSize(n int) Option {
	return func(s *Dispatcher) { s.batchSize = n }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Dispatcher) { s.now = now }
}

func NewDispatcher(queue repository.SyncQueueRepo, deliverer Deliverer, logger *slog.Logger, opts ...Option) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		queue:       queue,
		deliverer:   deliverer,
		logger:      logger,
		backoffBase: time.Second,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// RunOnce performs a single dispatch pass over the pending queue. Items
// still inside their backoff window are deferred to a later pass; items
// that exhaust their retry budget drop out of the pending queue until an
// operator resets them.
func (d *Dispatcher) RunOnce(ctx context.Context) (Result, error) {
	var res Result

	if d.deliverer == nil {
		return res, ErrNotConfigured
	}

	items, err := d.queue.GetPending(ctx, d.batchSize)
	if err != nil {
		return res, fmt.Errorf("fetching pending sync items: %w", err)
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !d.due(item) {
			res.Deferred++
			continue
		}

		if err := d.deliverer.Deliver(ctx, item); err != nil {
			res.Failed++
			d.logger.Warn("sync delivery failed",
				"item_id", item.ID,
				"entity_type", item.EntityType,
				"entity_id", item.EntityID,
				"attempt", item.Attempts+1,
				"error", err)
			if markErr := d.queue.MarkFailed(ctx, item.ID, err.Error()); markErr != nil {
				return res, fmt.Errorf("marking sync item %d failed: %w", item.ID, markErr)
			}
			continue
		}

		if err := d.queue.MarkCompleted(ctx, item.ID); err != nil {
			return res, fmt.Errorf("completing sync item %d: %w", item.ID, err)
		}
		res.Delivered++
	}

	d.logger.Info("sync pass finished",
		"delivered", res.Delivered, "failed", res.Failed, "deferred", res.Deferred)
	return res, nil
}

// Run dispatches on the given interval until the context is canceled.
func (d *Dispatcher) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := d.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, ErrNotConfigured) {
				return err
			}
			d.logger.Error("sync pass aborted", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RetryFailed reopens dead items so the next pass picks them up again.
func (d *Dispatcher) RetryFailed(ctx context.Context) error {
	return d.queue.ResetAllAttempts(ctx)
}

// due reports whether the item's backoff window has elapsed. Fresh items
// are always due.
func (d *Dispatcher) due(item *domain.SyncQueueItem) bool {
	if item.Attempts == 0 || item.LastAttemptAt == nil {
		return true
	}
	wait := d.backoffBase << uint(item.Attempts)
	return !d.now().Before(item.LastAttemptAt.Add(wait))
}

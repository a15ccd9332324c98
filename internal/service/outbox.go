package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/janmyrvold/fieldmap/internal/domain"
	"github.com/janmyrvold/fieldmap/internal/repository"
)

// outbox enqueues sync items for mutations that already committed. Enqueue
// failures are logged and never propagated: the local write has succeeded
// and must not be reported as failed because the outbox row was not added.
type outbox struct {
	queue  repository.SyncQueueRepo
	logger *slog.Logger
}

func newOutbox(queue repository.SyncQueueRepo, logger *slog.Logger) *outbox {
	if logger == nil {
		logger = slog.Default()
	}
	return &outbox{queue: queue, logger: logger}
}

// enqueue records one remote mutation. payload may be nil (deletes).
func (o *outbox) enqueue(ctx context.Context, entityType, entityID string, op domain.SyncOperation, payload any) {
	if o == nil || o.queue == nil {
		return
	}

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			o.logger.Warn("sync enqueue skipped: payload not serializable",
				"entity_type", entityType, "entity_id", entityID, "error", err)
			return
		}
	}

	item := &domain.SyncQueueItem{
		EntityType: entityType,
		EntityID:   entityID,
		Operation:  op,
		Payload:    body,
	}
	if err := o.queue.Enqueue(ctx, item); err != nil {
		o.logger.Warn("sync enqueue failed",
			"entity_type", entityType, "entity_id", entityID, "operation", string(op), "error", err)
	}
}

// purge drops queued mutations for an entity deleted before it ever synced.
func (o *outbox) purge(ctx context.Context, entityType, entityID string) {
	if o == nil || o.queue == nil {
		return
	}
	if err := o.queue.RemoveByEntity(ctx, entityType, entityID); err != nil {
		o.logger.Warn("sync purge failed",
			"entity_type", entityType, "entity_id", entityID, "error", err)
	}
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/janmyrvold/fieldmap/internal/db"
	"github.com/janmyrvold/fieldmap/internal/domain"
)

const syncQueueColumns = `id, entity_type, entity_id, operation, payload, created_at,
		attempts, last_attempt_at, last_error`

// SQLiteSyncQueueRepo implements SyncQueueRepo using a SQLite database.
// Items with attempts below domain.MaxSyncAttempts are pending; items at or
// above it are dead and only an explicit reset reopens them.
type SQLiteSyncQueueRepo struct {
	db db.DBTX
}

// NewSQLiteSyncQueueRepo creates a new SQLiteSyncQueueRepo.
func NewSQLiteSyncQueueRepo(conn db.DBTX) *SQLiteSyncQueueRepo {
	return &SQLiteSyncQueueRepo{db: conn}
}

func (r *SQLiteSyncQueueRepo) Enqueue(ctx context.Context, item *domain.SyncQueueItem) error {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = nowUTC()
	}
	query := `INSERT INTO sync_queue (entity_type, entity_id, operation, payload, created_at, attempts, last_attempt_at, last_error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		item.EntityType,
		item.EntityID,
		string(item.Operation),
		item.Payload,
		item.CreatedAt.Format(time.RFC3339),
		item.Attempts,
		nullableTimeToString(item.LastAttemptAt, time.RFC3339),
		item.LastError,
	)
	if err != nil {
		return fmt.Errorf("enqueueing sync item: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		item.ID = id
	}
	return nil
}

// GetPending returns up to limit pending items in FIFO order.
// A limit of 0 means no limit.
func (r *SQLiteSyncQueueRepo) GetPending(ctx context.Context, limit int) ([]*domain.SyncQueueItem, error) {
	query := `SELECT ` + syncQueueColumns + ` FROM sync_queue
		WHERE attempts < ? ORDER BY id`
	args := []any{domain.MaxSyncAttempts}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return r.queryItems(ctx, query, args...)
}

// GetFailed returns dead items for operator inspection.
func (r *SQLiteSyncQueueRepo) GetFailed(ctx context.Context) ([]*domain.SyncQueueItem, error) {
	query := `SELECT ` + syncQueueColumns + ` FROM sync_queue
		WHERE attempts >= ? ORDER BY id`
	return r.queryItems(ctx, query, domain.MaxSyncAttempts)
}

// MarkCompleted removes a delivered item from the queue.
func (r *SQLiteSyncQueueRepo) MarkCompleted(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sync_queue WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("completing sync item: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("sync item %d: %w", id, ErrNotFound)
	}
	return nil
}

// MarkFailed records one failed delivery attempt.
func (r *SQLiteSyncQueueRepo) MarkFailed(ctx context.Context, id int64, deliveryErr string) error {
	query := `UPDATE sync_queue
		SET attempts = attempts + 1, last_attempt_at = ?, last_error = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, nowUTC().Format(time.RFC3339), deliveryErr, id)
	if err != nil {
		return fmt.Errorf("recording sync failure: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("sync item %d: %w", id, ErrNotFound)
	}
	return nil
}

// ResetAllAttempts reopens every dead item. Manual recovery only; nothing
// in the sync path calls this automatically.
func (r *SQLiteSyncQueueRepo) ResetAllAttempts(ctx context.Context) error {
	query := `UPDATE sync_queue SET attempts = 0, last_error = '' WHERE attempts >= ?`
	if _, err := r.db.ExecContext(ctx, query, domain.MaxSyncAttempts); err != nil {
		return fmt.Errorf("resetting sync attempts: %w", err)
	}
	return nil
}

// RemoveByEntity purges queued mutations for an entity deleted locally
// before it was ever synced.
func (r *SQLiteSyncQueueRepo) RemoveByEntity(ctx context.Context, entityType, entityID string) error {
	query := `DELETE FROM sync_queue WHERE entity_type = ? AND entity_id = ?`
	if _, err := r.db.ExecContext(ctx, query, entityType, entityID); err != nil {
		return fmt.Errorf("removing sync items for %s %s: %w", entityType, entityID, err)
	}
	return nil
}

func (r *SQLiteSyncQueueRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sync_queue`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting sync items: %w", err)
	}
	return count, nil
}

func (r *SQLiteSyncQueueRepo) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sync_queue WHERE attempts < ?`, domain.MaxSyncAttempts).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting pending sync items: %w", err)
	}
	return count, nil
}

func (r *SQLiteSyncQueueRepo) queryItems(ctx context.Context, query string, args ...any) ([]*domain.SyncQueueItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sync queue: %w", err)
	}
	defer rows.Close()

	var items []*domain.SyncQueueItem
	for rows.Next() {
		item, err := scanSyncItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sync queue: %w", err)
	}
	return items, nil
}

func scanSyncItem(scan func(dest ...any) error) (*domain.SyncQueueItem, error) {
	var item domain.SyncQueueItem
	var operationStr, createdAtStr string
	var lastAttemptAt sql.NullString

	err := scan(
		&item.ID, &item.EntityType, &item.EntityID, &operationStr,
		&item.Payload, &createdAtStr,
		&item.Attempts, &lastAttemptAt, &item.LastError,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning sync item: %w", err)
	}

	item.Operation = domain.SyncOperation(operationStr)
	item.LastAttemptAt = parseNullableTime(lastAttemptAt, time.RFC3339)

	var parseErr error
	item.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	return &item, nil
}

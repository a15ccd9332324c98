package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/janmyrvold/fieldmap/internal/db"
	"github.com/janmyrvold/fieldmap/internal/domain"
)

// SQLiteWorkStateRepo implements WorkStateRepo using a SQLite database.
type SQLiteWorkStateRepo struct {
	db db.DBTX
}

// NewSQLiteWorkStateRepo creates a new SQLiteWorkStateRepo.
func NewSQLiteWorkStateRepo(conn db.DBTX) *SQLiteWorkStateRepo {
	return &SQLiteWorkStateRepo{db: conn}
}

func (r *SQLiteWorkStateRepo) Get(ctx context.Context, tableID string) (*domain.TableWorkState, error) {
	query := `SELECT table_id, status, last_work_record_id, completed_at, updated_at
		FROM table_work_states WHERE table_id = ?`
	row := r.db.QueryRowContext(ctx, query, tableID)

	var s domain.TableWorkState
	var statusStr, updatedAtStr string
	var recordID, completedAt sql.NullString

	err := row.Scan(&s.TableID, &statusStr, &recordID, &completedAt, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("work state for table %s: %w", tableID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning work state: %w", err)
	}

	s.Status = domain.WorkStatus(statusStr)
	if recordID.Valid {
		id := recordID.String
		s.LastWorkRecordID = &id
	}
	s.CompletedAt = parseNullableTime(completedAt, time.RFC3339)
	if s.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &s, nil
}

func (r *SQLiteWorkStateRepo) Upsert(ctx context.Context, s *domain.TableWorkState) error {
	query := `INSERT INTO table_work_states (table_id, status, last_work_record_id, completed_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(table_id) DO UPDATE SET
			status = excluded.status,
			last_work_record_id = excluded.last_work_record_id,
			completed_at = excluded.completed_at,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		s.TableID,
		string(s.Status),
		nullableString(s.LastWorkRecordID),
		nullableTimeToString(s.CompletedAt, time.RFC3339),
		s.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting work state: %w", err)
	}
	return nil
}

// SetStatus bulk-upserts one status across every given table in a single
// statement per table. Completed states get completed_at = now; any other
// status clears it.
func (r *SQLiteWorkStateRepo) SetStatus(ctx context.Context, tableIDs []string, status domain.WorkStatus, workRecordID string) error {
	if len(tableIDs) == 0 {
		return nil
	}
	now := nowUTC()
	var completedAt *time.Time
	if status == domain.WorkCompleted {
		completedAt = &now
	}
	for _, tableID := range tableIDs {
		state := &domain.TableWorkState{
			TableID:     tableID,
			Status:      status,
			CompletedAt: completedAt,
			UpdatedAt:   now,
		}
		if workRecordID != "" {
			state.LastWorkRecordID = &workRecordID
		}
		if err := r.Upsert(ctx, state); err != nil {
			return fmt.Errorf("setting status for table %s: %w", tableID, err)
		}
	}
	return nil
}

// CountByStatus counts the project's tables per work status. The LEFT JOIN
// keeps tables without a state row in the result as pending, so the counts
// always sum to the table count.
func (r *SQLiteWorkStateRepo) CountByStatus(ctx context.Context, projectID string) (map[domain.WorkStatus]int, error) {
	query := `SELECT COALESCE(s.status, 'pending'), COUNT(*)
		FROM tables t
		LEFT JOIN table_work_states s ON s.table_id = t.id
		WHERE t.project_id = ?
		GROUP BY COALESCE(s.status, 'pending')`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("counting work states: %w", err)
	}
	defer rows.Close()

	counts := map[domain.WorkStatus]int{
		domain.WorkPending:    0,
		domain.WorkInProgress: 0,
		domain.WorkCompleted:  0,
		domain.WorkSkipped:    0,
	}
	for rows.Next() {
		var statusStr string
		var count int
		if err := rows.Scan(&statusStr, &count); err != nil {
			return nil, fmt.Errorf("scanning status count: %w", err)
		}
		counts[domain.WorkStatus(statusStr)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status counts: %w", err)
	}
	return counts, nil
}

func (r *SQLiteWorkStateRepo) DeleteByProject(ctx context.Context, projectID string) error {
	query := `DELETE FROM table_work_states
		WHERE table_id IN (SELECT id FROM tables WHERE project_id = ?)`
	if _, err := r.db.ExecContext(ctx, query, projectID); err != nil {
		return fmt.Errorf("deleting work states for project: %w", err)
	}
	return nil
}

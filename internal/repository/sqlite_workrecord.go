package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/janmyrvold/fieldmap/internal/db"
	"github.com/janmyrvold/fieldmap/internal/domain"
)

const workRecordColumns = `id, project_id, work_type, status, notes, worker_name,
		started_at, completed_at, created_at, updated_at`

// SQLiteWorkRecordRepo implements WorkRecordRepo using a SQLite database.
type SQLiteWorkRecordRepo struct {
	db db.DBTX
}

// NewSQLiteWorkRecordRepo creates a new SQLiteWorkRecordRepo.
func NewSQLiteWorkRecordRepo(conn db.DBTX) *SQLiteWorkRecordRepo {
	return &SQLiteWorkRecordRepo{db: conn}
}

func (r *SQLiteWorkRecordRepo) Create(ctx context.Context, rec *domain.WorkRecord) error {
	query := `INSERT INTO work_records (` + workRecordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.ProjectID,
		string(rec.WorkType),
		string(rec.Status),
		rec.Notes,
		rec.WorkerName,
		rec.StartedAt.Format(time.RFC3339),
		nullableTimeToString(rec.CompletedAt, time.RFC3339),
		rec.CreatedAt.Format(time.RFC3339),
		rec.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("work record %s: %w", rec.ID, ErrAlreadyExists)
		}
		return fmt.Errorf("inserting work record: %w", err)
	}

	for _, tableID := range rec.TableIDs {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO work_record_tables (work_record_id, table_id) VALUES (?, ?)`,
			rec.ID, tableID)
		if err != nil {
			return fmt.Errorf("linking work record to table %s: %w", tableID, err)
		}
	}
	return nil
}

func (r *SQLiteWorkRecordRepo) GetByID(ctx context.Context, id string) (*domain.WorkRecord, error) {
	query := `SELECT ` + workRecordColumns + ` FROM work_records WHERE id = ?`
	rec, err := scanWorkRecord(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("work record %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if err := r.loadTableIDs(ctx, []*domain.WorkRecord{rec}); err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns a filtered, paginated page of work records ordered by
// creation time descending. HasMore reflects offset + returned < total.
func (r *SQLiteWorkRecordRepo) List(ctx context.Context, filter WorkRecordFilter) (*WorkRecordPage, error) {
	where, args := buildWorkRecordWhere(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM work_records` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting work records: %w", err)
	}

	// created_at is stored at second precision, so id breaks ties to keep
	// page boundaries stable.
	query := `SELECT ` + workRecordColumns + ` FROM work_records` + where + ` ORDER BY created_at DESC, id DESC`
	query, pageArgs := applyPagination(query, ListOptions{Offset: filter.Offset, Limit: filter.Limit})
	args = append(args, pageArgs...)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing work records: %w", err)
	}
	defer rows.Close()

	var records []*domain.WorkRecord
	for rows.Next() {
		rec, err := scanWorkRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work records: %w", err)
	}

	if err := r.loadTableIDs(ctx, records); err != nil {
		return nil, err
	}

	return &WorkRecordPage{
		Records: records,
		Total:   total,
		HasMore: filter.Offset+len(records) < total,
	}, nil
}

func (r *SQLiteWorkRecordRepo) DeleteByProject(ctx context.Context, projectID string) error {
	// Link rows carry no FK to tables, so they are removed explicitly
	// alongside their records.
	query := `DELETE FROM work_record_tables
		WHERE work_record_id IN (SELECT id FROM work_records WHERE project_id = ?)`
	if _, err := r.db.ExecContext(ctx, query, projectID); err != nil {
		return fmt.Errorf("deleting work record links for project: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM work_records WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("deleting work records for project: %w", err)
	}
	return nil
}

func (r *SQLiteWorkRecordRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM work_records`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting work records: %w", err)
	}
	return count, nil
}

func buildWorkRecordWhere(filter WorkRecordFilter) (string, []any) {
	var clauses []string
	var args []any

	if filter.ProjectID != "" {
		clauses = append(clauses, "project_id = ?")
		args = append(args, filter.ProjectID)
	}
	if filter.WorkType != "" {
		clauses = append(clauses, "work_type = ?")
		args = append(args, string(filter.WorkType))
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.StartedFrom != nil {
		clauses = append(clauses, "started_at >= ?")
		args = append(args, filter.StartedFrom.UTC().Format(time.RFC3339))
	}
	if filter.StartedTo != nil {
		clauses = append(clauses, "started_at <= ?")
		args = append(args, filter.StartedTo.UTC().Format(time.RFC3339))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	where := " WHERE " + clauses[0]
	for _, c := range clauses[1:] {
		where += " AND " + c
	}
	return where, args
}

// loadTableIDs fills TableIDs for the given records with one IN query.
func (r *SQLiteWorkRecordRepo) loadTableIDs(ctx context.Context, records []*domain.WorkRecord) error {
	if len(records) == 0 {
		return nil
	}
	byID := make(map[string]*domain.WorkRecord, len(records))
	args := make([]any, 0, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
		args = append(args, rec.ID)
	}

	query := `SELECT work_record_id, table_id FROM work_record_tables
		WHERE work_record_id IN (` + placeholders(len(records)) + `)
		ORDER BY work_record_id, table_id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("loading work record tables: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recordID, tableID string
		if err := rows.Scan(&recordID, &tableID); err != nil {
			return fmt.Errorf("scanning work record table link: %w", err)
		}
		if rec := byID[recordID]; rec != nil {
			rec.TableIDs = append(rec.TableIDs, tableID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating work record table links: %w", err)
	}
	return nil
}

func scanWorkRecord(scan func(dest ...any) error) (*domain.WorkRecord, error) {
	var rec domain.WorkRecord
	var workTypeStr, statusStr, startedAtStr, createdAtStr, updatedAtStr string
	var completedAt sql.NullString

	err := scan(
		&rec.ID, &rec.ProjectID, &workTypeStr, &statusStr,
		&rec.Notes, &rec.WorkerName,
		&startedAtStr, &completedAt,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning work record: %w", err)
	}

	rec.WorkType = domain.WorkType(workTypeStr)
	rec.Status = domain.WorkStatus(statusStr)
	rec.CompletedAt = parseNullableTime(completedAt, time.RFC3339)

	var parseErr error
	rec.StartedAt, parseErr = time.Parse(time.RFC3339, startedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing started_at: %w", parseErr)
	}
	rec.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	rec.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &rec, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/janmyrvold/fieldmap/internal/db"
	"github.com/janmyrvold/fieldmap/internal/domain"
)

const tableColumns = `id, project_id, row, col, size, label, created_at, updated_at`

// SQLiteTableRepo implements TableRepo using a SQLite database.
type SQLiteTableRepo struct {
	db db.DBTX
}

// NewSQLiteTableRepo creates a new SQLiteTableRepo.
func NewSQLiteTableRepo(conn db.DBTX) *SQLiteTableRepo {
	return &SQLiteTableRepo{db: conn}
}

func (r *SQLiteTableRepo) Create(ctx context.Context, t *domain.Table) error {
	query := `INSERT INTO tables (` + tableColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		t.Row,
		t.Col,
		string(t.Size),
		t.Label,
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("table at (%d,%d) in project %s: %w", t.Row, t.Col, t.ProjectID, ErrAlreadyExists)
		}
		return fmt.Errorf("inserting table: %w", err)
	}
	return nil
}

func (r *SQLiteTableRepo) GetByID(ctx context.Context, id string) (*domain.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM tables WHERE id = ?`
	t, err := scanTable(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("table %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return t, nil
}

func (r *SQLiteTableRepo) GetByPosition(ctx context.Context, projectID string, row, col int) (*domain.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM tables WHERE project_id = ? AND row = ? AND col = ?`
	t, err := scanTable(r.db.QueryRowContext(ctx, query, projectID, row, col).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("table at (%d,%d) in project %s: %w", row, col, projectID, ErrNotFound)
		}
		return nil, err
	}
	return t, nil
}

func (r *SQLiteTableRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM tables WHERE project_id = ? ORDER BY row, col`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var tables []*domain.Table
	for rows.Next() {
		t, err := scanTable(rows.Scan)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tables: %w", err)
	}
	return tables, nil
}

// ListWithState joins tables with their work states. Tables without a state
// row get domain.DefaultWorkState, so the result always covers every table
// in the project.
func (r *SQLiteTableRepo) ListWithState(ctx context.Context, projectID string) ([]domain.TableWithState, error) {
	query := `SELECT t.id, t.project_id, t.row, t.col, t.size, t.label, t.created_at, t.updated_at,
			s.status, s.last_work_record_id, s.completed_at, s.updated_at
		FROM tables t
		LEFT JOIN table_work_states s ON s.table_id = t.id
		WHERE t.project_id = ?
		ORDER BY t.row, t.col`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tables with state: %w", err)
	}
	defer rows.Close()

	var result []domain.TableWithState
	for rows.Next() {
		var t domain.Table
		var sizeStr, createdAtStr, updatedAtStr string
		var stStatus, stRecordID, stCompletedAt, stUpdatedAt sql.NullString

		err := rows.Scan(
			&t.ID, &t.ProjectID, &t.Row, &t.Col, &sizeStr, &t.Label,
			&createdAtStr, &updatedAtStr,
			&stStatus, &stRecordID, &stCompletedAt, &stUpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning table with state: %w", err)
		}

		t.Size = domain.TableSize(sizeStr)
		if t.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		if t.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", err)
		}

		state := domain.DefaultWorkState(t.ID)
		if stStatus.Valid {
			state.Status = domain.WorkStatus(stStatus.String)
			if stRecordID.Valid {
				recordID := stRecordID.String
				state.LastWorkRecordID = &recordID
			}
			state.CompletedAt = parseNullableTime(stCompletedAt, time.RFC3339)
			if ts := parseNullableTime(stUpdatedAt, time.RFC3339); ts != nil {
				state.UpdatedAt = *ts
			}
		}

		result = append(result, domain.TableWithState{Table: &t, State: state})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tables with state: %w", err)
	}
	return result, nil
}

func (r *SQLiteTableRepo) Update(ctx context.Context, t *domain.Table) error {
	// Position is fixed: moving a table is delete + recreate.
	query := `UPDATE tables SET size = ?, label = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		string(t.Size),
		t.Label,
		t.UpdatedAt.Format(time.RFC3339),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating table: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("table %s: %w", t.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteTableRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tables WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting table: %w", err)
	}
	return nil
}

func (r *SQLiteTableRepo) DeleteByProject(ctx context.Context, projectID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tables WHERE project_id = ?`, projectID)
	if err != nil {
		return fmt.Errorf("deleting tables for project: %w", err)
	}
	return nil
}

func (r *SQLiteTableRepo) CountByProject(ctx context.Context, projectID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tables WHERE project_id = ?`, projectID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting tables: %w", err)
	}
	return count, nil
}

func scanTable(scan func(dest ...any) error) (*domain.Table, error) {
	var t domain.Table
	var sizeStr, createdAtStr, updatedAtStr string

	err := scan(
		&t.ID, &t.ProjectID, &t.Row, &t.Col, &sizeStr, &t.Label,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning table: %w", err)
	}

	t.Size = domain.TableSize(sizeStr)

	var parseErr error
	t.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	t.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &t, nil
}

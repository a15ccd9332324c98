package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/janmyrvold/fieldmap/internal/db"
	"github.com/janmyrvold/fieldmap/internal/domain"
	"github.com/janmyrvold/fieldmap/internal/factory"
	"github.com/janmyrvold/fieldmap/internal/repository"
)

type workRecordService struct {
	records  repository.WorkRecordRepo
	uow      db.UnitOfWork
	outbox   *outbox
	observer UseCaseObserver
}

// NewWorkRecordService wires a WorkRecordService over the given repositories.
func NewWorkRecordService(
	records repository.WorkRecordRepo,
	uow db.UnitOfWork,
	queue repository.SyncQueueRepo,
	logger *slog.Logger,
	observer UseCaseObserver,
) WorkRecordService {
	return &workRecordService{
		records:  records,
		uow:      uow,
		outbox:   newOutbox(queue, logger),
		observer: observer,
	}
}

// CreateWorkRecord is the single write path for work: it inserts the record
// and stamps its status onto every referenced table's work state within one
// transaction. A record is therefore never observable ahead of (or behind)
// the states it implies.
func (s *workRecordService) CreateWorkRecord(ctx context.Context, in factory.CreateWorkRecordInput) (rec *domain.WorkRecord, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "work_record.create", start, err, map[string]any{"project_id": in.ProjectID, "tables": len(in.TableIDs)})
	}()

	rec, verr := factory.NewWorkRecord(in)
	if verr != nil {
		return nil, verr
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTables := repository.NewSQLiteTableRepo(tx)
		txRecords := repository.NewSQLiteWorkRecordRepo(tx)
		txStates := repository.NewSQLiteWorkStateRepo(tx)

		for _, tableID := range rec.TableIDs {
			t, err := txTables.GetByID(ctx, tableID)
			if err != nil {
				return err
			}
			if t.ProjectID != rec.ProjectID {
				return &domain.ValidationError{
					Field:  "tableIds",
					Kind:   domain.OutOfRange,
					Reason: fmt.Sprintf("table %s belongs to another project", tableID),
				}
			}
		}

		if err := txRecords.Create(ctx, rec); err != nil {
			return err
		}
		return txStates.SetStatus(ctx, rec.TableIDs, rec.Status, rec.ID)
	})
	if err != nil {
		return nil, err
	}

	s.outbox.enqueue(ctx, EntityWorkRecord, rec.ID, domain.OpCreate, rec)
	return rec, nil
}

func (s *workRecordService) GetByID(ctx context.Context, id string) (*domain.WorkRecord, error) {
	return s.records.GetByID(ctx, id)
}

func (s *workRecordService) List(ctx context.Context, filter repository.WorkRecordFilter) (*repository.WorkRecordPage, error) {
	return s.records.List(ctx, filter)
}

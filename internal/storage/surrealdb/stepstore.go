package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/finsight-app/finsight/internal/common"
	"github.com/finsight-app/finsight/internal/interfaces"
	"github.com/finsight-app/finsight/internal/models"
)

// StepStore persists durable-step completion markers. A marker present for
// (run_id, step_name) means the step finished and its result is memoized.
type StepStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewStepStore(db *surrealdb.DB, logger *common.Logger) *StepStore {
	return &StepStore{
		db:     db,
		logger: logger,
	}
}

func (s *StepStore) Get(ctx context.Context, runID, stepName string) (*models.StepRecord, error) {
	record, err := surrealdb.Select[models.StepRecord](ctx, s.db, surrealmodels.NewRecordID("step_record", models.StepID(runID, stepName)))
	if err != nil {
		return nil, fmt.Errorf("failed to select step record: %w", err)
	}
	if record == nil || record.RunID == "" {
		return nil, fmt.Errorf("step record not found")
	}
	return record, nil
}

func (s *StepStore) Put(ctx context.Context, record *models.StepRecord) error {
	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{
		"rid":    surrealmodels.NewRecordID("step_record", models.StepID(record.RunID, record.StepName)),
		"record": record,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.StepRecord](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to put step record after retries: %w", lastErr)
}

// Ensure StepStore implements the interface
var _ interfaces.StepStore = (*StepStore)(nil)

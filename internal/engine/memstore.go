package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/finsight-app/finsight/internal/interfaces"
	"github.com/finsight-app/finsight/internal/models"
)

// MemoryStepStore is an in-process StepStore. Markers do not survive a
// restart, so resume-after-crash semantics require the SurrealDB store;
// this one backs tests and single-shot runs.
type MemoryStepStore struct {
	mu      sync.RWMutex
	records map[string]*models.StepRecord
}

// NewMemoryStepStore creates an empty in-memory step store.
func NewMemoryStepStore() *MemoryStepStore {
	return &MemoryStepStore{records: make(map[string]*models.StepRecord)}
}

func (s *MemoryStepStore) Get(ctx context.Context, runID, stepName string) (*models.StepRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[models.StepID(runID, stepName)]
	if !ok {
		return nil, fmt.Errorf("step record not found")
	}
	return record, nil
}

func (s *MemoryStepStore) Put(ctx context.Context, record *models.StepRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[models.StepID(record.RunID, record.StepName)] = record
	return nil
}

var _ interfaces.StepStore = (*MemoryStepStore)(nil)

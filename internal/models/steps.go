package models

import "time"

// StepRecord is a durable completion marker for one named step within a run.
// The engine writes it only after the step function succeeds; a present
// record short-circuits re-execution on resume and returns the memoized
// result instead.
type StepRecord struct {
	RunID       string    `json:"run_id"`
	StepName    string    `json:"step_name"`
	Result      []byte    `json:"result,omitempty"` // JSON-encoded step result
	Attempts    int       `json:"attempts"`
	CompletedAt time.Time `json:"completed_at"`
}

// StepID returns the storage key for a step marker.
func StepID(runID, stepName string) string {
	return runID + "_" + stepName
}

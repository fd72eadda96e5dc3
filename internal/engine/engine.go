// Package engine provides durable, memoized execution of named steps.
//
// Each step is keyed by (run ID, step name). On success the engine persists
// a completion marker with the JSON-encoded result; re-running the same step
// in the same run returns the memoized result without executing the function
// again. A failed step is retried with capped backoff before the error
// surfaces. Markers are written only after success, so side effects behind a
// step are at-least-once.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/finsight-app/finsight/internal/common"
	"github.com/finsight-app/finsight/internal/interfaces"
	"github.com/finsight-app/finsight/internal/models"
)

const (
	DefaultMaxAttempts = 3
	DefaultBackoff     = 2 * time.Second
)

// Engine implements interfaces.StepRunner backed by a StepStore.
type Engine struct {
	store       interfaces.StepStore
	logger      *common.Logger
	maxAttempts int
	backoff     time.Duration
}

// Option configures the engine
type Option func(*Engine)

// WithMaxAttempts sets the per-step retry budget
func WithMaxAttempts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

// WithBackoff sets the base delay between attempts
func WithBackoff(d time.Duration) Option {
	return func(e *Engine) {
		e.backoff = d
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates a step engine persisting markers to the given store.
func New(store interfaces.StepStore, opts ...Option) *Engine {
	e := &Engine{
		store:       store,
		logger:      common.NewSilentLogger(),
		maxAttempts: DefaultMaxAttempts,
		backoff:     DefaultBackoff,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the named step once per (runID, stepName).
func (e *Engine) Run(ctx context.Context, runID, stepName string, fn func(context.Context) (interface{}, error)) (json.RawMessage, error) {
	if record, err := e.store.Get(ctx, runID, stepName); err == nil && record != nil {
		e.logger.Debug().
			Str("run_id", runID).
			Str("step", stepName).
			Msg("Step already completed, returning memoized result")
		return json.RawMessage(record.Result), nil
	}

	var lastErr error
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(e.backoff * time.Duration(attempt-1)):
			}
		}

		value, err := fn(ctx)
		if err != nil {
			lastErr = err
			e.logger.Warn().
				Err(err).
				Str("run_id", runID).
				Str("step", stepName).
				Int("attempt", attempt).
				Msg("Step attempt failed")
			continue
		}

		result, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode step result for %s: %w", stepName, err)
		}

		record := &models.StepRecord{
			RunID:       runID,
			StepName:    stepName,
			Result:      result,
			Attempts:    attempt,
			CompletedAt: time.Now().UTC(),
		}
		if err := e.store.Put(ctx, record); err != nil {
			// The effect happened; losing the marker only risks a repeat on
			// resume, which the at-least-once contract allows.
			e.logger.Warn().
				Err(err).
				Str("run_id", runID).
				Str("step", stepName).
				Msg("Failed to persist step marker")
		}
		return result, nil
	}

	return nil, fmt.Errorf("step %s failed after %d attempts: %w", stepName, e.maxAttempts, lastErr)
}

// RunValue executes a step through the runner and decodes its result into T.
func RunValue[T any](ctx context.Context, r interfaces.StepRunner, runID, stepName string, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	raw, err := r.Run(ctx, runID, stepName, func(ctx context.Context) (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return zero, fmt.Errorf("failed to decode step result for %s: %w", stepName, err)
	}
	return value, nil
}

// Ensure Engine implements StepRunner
var _ interfaces.StepRunner = (*Engine)(nil)

package engine

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(opts ...Option) (*Engine, *MemoryStepStore) {
	store := NewMemoryStepStore()
	opts = append([]Option{WithBackoff(time.Millisecond)}, opts...)
	return New(store, opts...), store
}

func TestRun_ExecutesAndPersistsMarker(t *testing.T) {
	e, store := newTestEngine()

	calls := 0
	raw, err := e.Run(context.Background(), "run-1", "fetch-things", func(ctx context.Context) (interface{}, error) {
		calls++
		return map[string]int{"count": 3}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.JSONEq(t, `{"count":3}`, string(raw))

	record, err := store.Get(context.Background(), "run-1", "fetch-things")
	require.NoError(t, err)
	assert.Equal(t, 1, record.Attempts)
	assert.JSONEq(t, `{"count":3}`, string(record.Result))
}

func TestRun_MemoizesCompletedStep(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	calls := 0
	fn := func(ctx context.Context) (interface{}, error) {
		calls++
		return "first", nil
	}

	raw1, err := e.Run(ctx, "run-1", "step-a", fn)
	require.NoError(t, err)

	// Second invocation must return the memoized result without calling fn.
	raw2, err := e.Run(ctx, "run-1", "step-a", func(ctx context.Context) (interface{}, error) {
		calls++
		return "second", nil
	})
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, string(raw1), string(raw2))
}

func TestRun_SameStepNameDifferentRunsExecuteIndependently(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	calls := 0
	fn := func(ctx context.Context) (interface{}, error) {
		calls++
		return calls, nil
	}

	_, err := e.Run(ctx, "run-1", "step-a", fn)
	require.NoError(t, err)
	_, err = e.Run(ctx, "run-2", "step-a", fn)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestRun_RetriesUntilSuccess(t *testing.T) {
	e, _ := newTestEngine(WithMaxAttempts(3))

	calls := 0
	raw, err := e.Run(context.Background(), "run-1", "flaky", func(ctx context.Context) (interface{}, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("transient failure")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	var value string
	require.NoError(t, json.Unmarshal(raw, &value))
	assert.Equal(t, "ok", value)
}

func TestRun_FailsAfterRetryBudget(t *testing.T) {
	e, store := newTestEngine(WithMaxAttempts(2))

	calls := 0
	_, err := e.Run(context.Background(), "run-1", "broken", func(ctx context.Context) (interface{}, error) {
		calls++
		return nil, errors.New("provider down")
	})

	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "failed after 2 attempts")
	assert.Contains(t, err.Error(), "provider down")

	// No marker is written for a failed step.
	_, err = store.Get(context.Background(), "run-1", "broken")
	assert.Error(t, err)
}

func TestRun_FailedStepRetriesOnNextActivation(t *testing.T) {
	e, _ := newTestEngine(WithMaxAttempts(1))
	ctx := context.Background()

	_, err := e.Run(ctx, "run-1", "step-a", func(ctx context.Context) (interface{}, error) {
		return nil, errors.New("boom")
	})
	require.Error(t, err)

	// A resumed activation of the same run re-executes the failed step.
	raw, err := e.Run(ctx, "run-1", "step-a", func(ctx context.Context) (interface{}, error) {
		return "recovered", nil
	})
	require.NoError(t, err)

	var value string
	require.NoError(t, json.Unmarshal(raw, &value))
	assert.Equal(t, "recovered", value)
}

func TestRun_ContextCancelledDuringBackoff(t *testing.T) {
	e, _ := newTestEngine(WithMaxAttempts(3), WithBackoff(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := e.Run(ctx, "run-1", "slow", func(ctx context.Context) (interface{}, error) {
			return nil, errors.New("fail once")
		})
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestRunValue_DecodesTypedResult(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	type payload struct {
		Email string `json:"email"`
		Count int    `json:"count"`
	}

	got, err := RunValue(ctx, e, "run-1", "typed", func(ctx context.Context) (payload, error) {
		return payload{Email: "a@b.com", Count: 7}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, payload{Email: "a@b.com", Count: 7}, got)

	// Memoized replay decodes from the persisted JSON.
	got2, err := RunValue(ctx, e, "run-1", "typed", func(ctx context.Context) (payload, error) {
		t.Fatal("memoized step must not execute")
		return payload{}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, got, got2)
}

func TestRunValue_PropagatesStepError(t *testing.T) {
	e, _ := newTestEngine(WithMaxAttempts(1))

	_, err := RunValue(context.Background(), e, "run-1", "bad", func(ctx context.Context) (string, error) {
		return "", errors.New("no luck")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no luck")
}

func TestMemoryStepStore_GetMissingReturnsError(t *testing.T) {
	store := NewMemoryStepStore()
	_, err := store.Get(context.Background(), "nope", "nothing")
	assert.Error(t, err)
}

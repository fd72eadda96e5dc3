// Package interfaces defines service contracts for FinSight
package interfaces

import (
	"context"
	"encoding/json"

	"github.com/finsight-app/finsight/internal/models"
)

// StepRunner executes a named step with memoized, retried semantics.
// A step that already completed for (runID, stepName) is not re-executed;
// its memoized JSON result is returned instead. Side effects behind a step
// are therefore at-least-once: the effect may repeat only if the process
// dies between the effect and the marker write.
type StepRunner interface {
	Run(ctx context.Context, runID, stepName string, fn func(context.Context) (interface{}, error)) (json.RawMessage, error)
}

// DigestService runs the market-news digest pipeline.
type DigestService interface {
	// RunBroadcast fans out over all subscribed users.
	RunBroadcast(ctx context.Context, runID string) (*models.RunReport, error)

	// RunSingle runs the digest for one recipient (the signup sample digest).
	RunSingle(ctx context.Context, runID, email string) (*models.RunReport, error)
}

// WelcomeService sends the personalized welcome email on signup.
type WelcomeService interface {
	Send(ctx context.Context, runID, email, name string, profile *models.OnboardingProfile) (*models.RunReport, error)
}

// TriggerRouter classifies a trigger and runs the matching pipeline flows.
type TriggerRouter interface {
	Route(ctx context.Context, runID string, trigger models.Trigger) *models.RunReport
}

// Package notify routes inbound triggers onto the notification pipelines.
package notify

import (
	"context"
	"time"

	"github.com/finsight-app/finsight/internal/common"
	"github.com/finsight-app/finsight/internal/interfaces"
	"github.com/finsight-app/finsight/internal/models"
)

// Router classifies a trigger and runs the matching flows. Each invocation
// is a fresh activation; the router holds no state between runs.
type Router struct {
	digest  interfaces.DigestService
	welcome interfaces.WelcomeService
	logger  *common.Logger
}

// NewRouter creates a trigger router.
func NewRouter(digest interfaces.DigestService, welcome interfaces.WelcomeService, logger *common.Logger) *Router {
	return &Router{
		digest:  digest,
		welcome: welcome,
		logger:  logger,
	}
}

// Route runs the flows for one trigger and reports the outcome. Errors
// never escape to the trigger source: fatal pipeline errors become failed
// reports, eligible for the caller's own retry policy.
func (r *Router) Route(ctx context.Context, runID string, trigger models.Trigger) *models.RunReport {
	start := time.Now()
	r.logger.Info().
		Str("run_id", runID).
		Str("kind", trigger.Kind).
		Msg("Trigger received")

	var report *models.RunReport
	switch trigger.Kind {
	case models.TriggerScheduledTick, models.TriggerBroadcastRequest:
		report = r.runBroadcast(ctx, runID)

	case models.TriggerUserRegistered:
		report = r.runSignup(ctx, runID, trigger)

	default:
		report = &models.RunReport{
			Success:    false,
			Message:    "Unknown trigger kind: " + trigger.Kind,
			FinishedAt: time.Now().UTC(),
		}
	}

	r.logger.Info().
		Str("run_id", runID).
		Str("kind", trigger.Kind).
		Bool("success", report.Success).
		Int("recipients", report.Recipients).
		Int("delivered", report.Delivered).
		Int("failed", report.Failed).
		Dur("elapsed", time.Since(start)).
		Msg("Trigger run complete")

	return report
}

func (r *Router) runBroadcast(ctx context.Context, runID string) *models.RunReport {
	report, err := r.digest.RunBroadcast(ctx, runID)
	if err != nil {
		r.logger.Error().Err(err).Str("run_id", runID).Msg("Broadcast digest run failed")
		return &models.RunReport{
			Success:    false,
			Message:    "Failed to send daily news summaries",
			FinishedAt: time.Now().UTC(),
		}
	}
	return report
}

// runSignup fires the welcome flow and the single-recipient sample digest.
// The two sub-flows are independent: failure of one never suppresses the
// other.
func (r *Router) runSignup(ctx context.Context, runID string, trigger models.Trigger) *models.RunReport {
	welcomeReport, err := r.welcome.Send(ctx, runID, trigger.Email, trigger.Name, trigger.Profile)
	if err != nil {
		r.logger.Error().Err(err).Str("email", trigger.Email).Msg("Welcome flow failed")
		welcomeReport = &models.RunReport{Success: false, Message: "Failed to send welcome email"}
	}

	digestReport, err := r.digest.RunSingle(ctx, runID, trigger.Email)
	if err != nil {
		r.logger.Error().Err(err).Str("email", trigger.Email).Msg("Signup sample digest failed")
		digestReport = &models.RunReport{Success: false, Message: "Failed to send sample news on signup"}
	}

	return &models.RunReport{
		Success:    welcomeReport.Success && digestReport.Success,
		Message:    welcomeReport.Message + "; " + digestReport.Message,
		Recipients: welcomeReport.Recipients + digestReport.Recipients,
		Delivered:  welcomeReport.Delivered + digestReport.Delivered,
		Failed:     welcomeReport.Failed + digestReport.Failed,
		FinishedAt: time.Now().UTC(),
	}
}

// Ensure Router implements TriggerRouter
var _ interfaces.TriggerRouter = (*Router)(nil)

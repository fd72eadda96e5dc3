package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finsight-app/finsight/internal/models"
)

// StartScheduler launches the background loop that emits schedule.tick
// triggers on the configured interval. Each tick starts a fresh run with
// its own run ID, so the engine memoizes steps per activation, never
// across days.
func (a *App) StartScheduler() {
	interval := a.Config.Digest.GetSchedule()

	ctx, cancel := context.WithCancel(context.Background())
	a.schedulerCancel = cancel

	a.Logger.Info().
		Dur("interval", interval).
		Msg("Starting digest scheduler")

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				a.Logger.Info().Msg("Digest scheduler stopped")
				return
			case <-ticker.C:
				runID := uuid.New().String()
				a.Logger.Info().
					Str("run_id", runID).
					Msg("Scheduled digest tick")

				runCtx, runCancel := context.WithTimeout(ctx, 30*time.Minute)
				a.Router.Route(runCtx, runID, models.NewScheduledTick())
				runCancel()
			}
		}
	}()
}

// StopScheduler stops the scheduled tick loop if running.
func (a *App) StopScheduler() {
	if a.schedulerCancel != nil {
		a.schedulerCancel()
		a.schedulerCancel = nil
	}
}

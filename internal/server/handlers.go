package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/finsight-app/finsight/internal/models"
)

// eventRequest is the inbound trigger payload.
type eventRequest struct {
	Kind    string                    `json:"kind"`
	Email   string                    `json:"email,omitempty"`
	Name    string                    `json:"name,omitempty"`
	Profile *models.OnboardingProfile `json:"profile,omitempty"`
}

// handleEvent accepts a trigger on the inbound channel and starts a
// pipeline run in the background. The response acknowledges receipt; run
// outcomes are reported through logs and the run report.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req eventRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	var trigger models.Trigger
	switch req.Kind {
	case models.TriggerScheduledTick:
		trigger = models.NewScheduledTick()
	case models.TriggerBroadcastRequest:
		trigger = models.NewBroadcastRequest()
	case models.TriggerUserRegistered:
		if req.Email == "" {
			WriteError(w, http.StatusBadRequest, "email is required for user.registered events")
			return
		}
		trigger = models.NewUserRegistered(req.Email, req.Name, req.Profile)
	default:
		WriteError(w, http.StatusBadRequest, "unknown event kind: "+req.Kind)
		return
	}

	runID := uuid.New().String()

	// Each activation runs detached from the request; the engine's step
	// markers make an abandoned run safe to retry under the same run ID.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		s.app.Router.Route(ctx, runID, trigger)
	}()

	WriteJSON(w, http.StatusAccepted, map[string]interface{}{
		"success": true,
		"message": "Event accepted",
		"run_id":  runID,
		"kind":    trigger.Kind,
	})
}

// handleDebugEvent echoes receipt of a test event. It verifies the trigger
// channel is reachable and never touches recipients.
func (s *Server) handleDebugEvent(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost, http.MethodGet) {
		return
	}

	var payload map[string]interface{}
	if r.Method == http.MethodPost && r.Body != nil {
		// Echo payload is optional; decode errors are ignored.
		DecodeJSONLenient(r, &payload)
	}

	s.logger.Info().Interface("payload", payload).Msg("Debug test event received")

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"message":       "Debug test event processed successfully",
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
		"received_data": payload,
	})
}

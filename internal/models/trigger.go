package models

import "time"

// Trigger event kinds accepted on the inbound event channel.
const (
	TriggerScheduledTick    = "schedule.tick"
	TriggerBroadcastRequest = "broadcast.request"
	TriggerUserRegistered   = "user.registered"
)

// Trigger is a tagged variant describing why a pipeline run was started.
// Only user.registered carries a payload: the new user's email and
// onboarding profile. A Trigger is consumed once by the router and is not
// persisted.
type Trigger struct {
	Kind    string             `json:"kind"`
	Email   string             `json:"email,omitempty"`
	Name    string             `json:"name,omitempty"`
	Profile *OnboardingProfile `json:"profile,omitempty"`
}

// NewScheduledTick returns a schedule.tick trigger.
func NewScheduledTick() Trigger {
	return Trigger{Kind: TriggerScheduledTick}
}

// NewBroadcastRequest returns a broadcast.request trigger.
func NewBroadcastRequest() Trigger {
	return Trigger{Kind: TriggerBroadcastRequest}
}

// NewUserRegistered returns a user.registered trigger for the given user.
func NewUserRegistered(email, name string, profile *OnboardingProfile) Trigger {
	return Trigger{Kind: TriggerUserRegistered, Email: email, Name: name, Profile: profile}
}

// IsBroadcast reports whether the trigger fans out to all subscribed users.
func (t Trigger) IsBroadcast() bool {
	return t.Kind == TriggerScheduledTick || t.Kind == TriggerBroadcastRequest
}

// RunReport is the run-level result returned to the trigger source.
// Soft failures (no recipients, no deliverable content) set Success false
// with a human-readable reason; they are not errors.
type RunReport struct {
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	Recipients int       `json:"recipients"`
	Delivered  int       `json:"delivered"`
	Failed     int       `json:"failed"`
	FinishedAt time.Time `json:"finished_at"`
}

package models

import "time"

// User represents a registered account stored in finsight-server.
type User struct {
	Email        string             `json:"email"`
	Name         string             `json:"name"`
	PasswordHash string             `json:"password_hash"`
	Subscribed   bool               `json:"subscribed"`
	Profile      *OnboardingProfile `json:"profile,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

// OnboardingProfile holds the answers collected at sign-up. They feed the
// personalized welcome email prompt.
type OnboardingProfile struct {
	Country           string `json:"country"`
	InvestmentGoals   string `json:"investment_goals"`
	RiskTolerance     string `json:"risk_tolerance"`
	PreferredIndustry string `json:"preferred_industry"`
}

// RecipientProfile is a read-only snapshot of a digest recipient, fetched
// fresh per run. The core never mutates it.
type RecipientProfile struct {
	Email          string   `json:"email"`
	Name           string   `json:"name"`
	TrackedSymbols []string `json:"tracked_symbols"`
}

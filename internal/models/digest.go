package models

// DigestContent is the per-recipient result of acquisition + summarization.
// SummaryText is nil when either step failed for that recipient; nil is
// terminal for the current run and the dispatcher skips the recipient.
type DigestContent struct {
	Recipient   RecipientProfile `json:"recipient"`
	Articles    []NewsArticle    `json:"articles"`
	SummaryText *string          `json:"summary_text,omitempty"`
}

// DeliveryOutcome records whether one recipient's email was handed to the
// mail dispatcher successfully. Used for monitoring, not business logic.
type DeliveryOutcome struct {
	Recipient RecipientProfile `json:"recipient"`
	Delivered bool             `json:"delivered"`
	Error     string           `json:"error,omitempty"`
}

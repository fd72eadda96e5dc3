package models

import "time"

// NewsArticle is an opaque news record. The pipeline only counts and
// truncates articles; it never interprets their content beyond presence.
type NewsArticle struct {
	Headline    string    `json:"headline"`
	Summary     string    `json:"summary"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
	Related     []string  `json:"related,omitempty"`
}

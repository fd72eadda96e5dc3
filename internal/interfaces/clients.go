// Package interfaces defines service contracts for FinSight
package interfaces

import (
	"context"

	"github.com/finsight-app/finsight/internal/models"
)

// NewsClient provides access to the market news provider.
type NewsClient interface {
	// GetCompanyNews retrieves recent news for the given symbols.
	// May return an empty result.
	GetCompanyNews(ctx context.Context, symbols []string, limit int) ([]models.NewsArticle, error)

	// GetMarketNews retrieves recent general market news.
	GetMarketNews(ctx context.Context, limit int) ([]models.NewsArticle, error)
}

// GeminiClient provides access to the generative summarization provider.
type GeminiClient interface {
	// GenerateContent generates AI content from a prompt.
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// MailClient sends templated email. Sends are side-effecting and not
// idempotent; callers wanting at-most-once-per-run wrap sends in a named
// engine step.
type MailClient interface {
	// SendDigest sends a daily market digest email.
	SendDigest(ctx context.Context, email, date, newsContent string) error

	// SendWelcome sends the personalized welcome email.
	SendWelcome(ctx context.Context, email, name, intro string) error
}

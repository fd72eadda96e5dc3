package digest

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/finsight-app/finsight/internal/engine"
	"github.com/finsight-app/finsight/internal/models"
)

// summarize produces the digest text for one recipient through a named,
// memoized inference step. A malformed or empty provider response degrades
// to the fixed default sentence; an error is returned only when the step
// itself fails after the engine's retry budget.
func (s *Service) summarize(ctx context.Context, runID, email string, articles []models.NewsArticle) (string, error) {
	prompt := buildNewsSummaryPrompt(articles)

	text, err := engine.RunValue(ctx, s.steps, runID, "summarize-news-"+email, func(ctx context.Context) (string, error) {
		return s.gemini.GenerateContent(ctx, prompt)
	})
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return defaultNewsSummary, nil
	}
	return text, nil
}

// buildNewsSummaryPrompt serializes the articles into the prompt template.
func buildNewsSummaryPrompt(articles []models.NewsArticle) string {
	newsData, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		newsData = []byte("[]")
	}
	return strings.Replace(newsSummaryPrompt, "{{newsData}}", string(newsData), 1)
}

package digest

import (
	"context"

	"github.com/finsight-app/finsight/internal/models"
)

// acquireArticles fetches news for a recipient with the fallback policy:
// symbol-scoped first, general market feed when that is empty or errors.
// Never returns an error; a provider failure is treated as an empty result
// and the result is capped at maxArticles.
func (s *Service) acquireArticles(ctx context.Context, recipient models.RecipientProfile) []models.NewsArticle {
	var articles []models.NewsArticle

	if len(recipient.TrackedSymbols) > 0 {
		scoped, err := s.news.GetCompanyNews(ctx, recipient.TrackedSymbols, s.maxArticles)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("email", recipient.Email).
				Msg("Symbol-scoped news fetch failed, falling back to general feed")
		} else {
			articles = scoped
		}
	}

	if len(articles) == 0 {
		general, err := s.news.GetMarketNews(ctx, s.maxArticles)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("email", recipient.Email).
				Msg("General news fetch failed")
			return []models.NewsArticle{}
		}
		articles = general
	}

	if len(articles) > s.maxArticles {
		articles = articles[:s.maxArticles]
	}
	return articles
}

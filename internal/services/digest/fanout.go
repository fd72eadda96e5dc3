package digest

import (
	"context"

	"github.com/finsight-app/finsight/internal/models"
)

// fanOut produces a terminal DigestContent for every recipient. Failures
// are isolated per recipient: a nil SummaryText marks that recipient as
// failed for this run without touching the others. Recipients are processed
// sequentially; each one's inference call is independently named and
// memoized, so a resumed run skips completed recipients.
func (s *Service) fanOut(ctx context.Context, runID string, recipients []models.RecipientProfile) []models.DigestContent {
	contents := make([]models.DigestContent, 0, len(recipients))
	for _, recipient := range recipients {
		contents = append(contents, s.prepare(ctx, runID, recipient))
	}
	return contents
}

// prepare runs acquisition + summarization for one recipient.
func (s *Service) prepare(ctx context.Context, runID string, recipient models.RecipientProfile) models.DigestContent {
	content := models.DigestContent{Recipient: recipient}

	content.Articles = s.acquireArticles(ctx, recipient)

	summary, err := s.summarize(ctx, runID, recipient.Email, content.Articles)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("email", recipient.Email).
			Msg("Failed to summarize news for recipient")
		return content
	}

	content.SummaryText = &summary
	return content
}

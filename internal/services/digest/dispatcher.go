package digest

import (
	"context"
	"sync"
	"time"

	"github.com/finsight-app/finsight/internal/models"
)

// dispatch sends one email per recipient with a non-nil summary, through a
// bounded worker pool. Each send is wrapped in its own named step, so a
// resumed run skips recipients whose send already completed. One slow or
// failing delivery cannot stall the batch: every send gets its own timeout
// and failures only reduce the success count.
func (s *Service) dispatch(ctx context.Context, runID string, contents []models.DigestContent) []models.DeliveryOutcome {
	deliverable := make([]models.DigestContent, 0, len(contents))
	for _, content := range contents {
		if content.SummaryText != nil {
			deliverable = append(deliverable, content)
		}
	}
	if len(deliverable) == 0 {
		return nil
	}

	date := formattedToday()
	outcomes := make([]models.DeliveryOutcome, len(deliverable))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.sendConcurrency)

	for i, content := range deliverable {
		wg.Add(1)
		go func(i int, content models.DigestContent) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			outcomes[i] = s.deliver(ctx, runID, date, content)
		}(i, content)
	}
	wg.Wait()

	return outcomes
}

// deliver sends one digest email within its own timeout and step marker.
func (s *Service) deliver(ctx context.Context, runID, date string, content models.DigestContent) models.DeliveryOutcome {
	email := content.Recipient.Email

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	_, err := s.steps.Run(sendCtx, runID, "send-news-"+email, func(ctx context.Context) (interface{}, error) {
		return nil, s.mailer.SendDigest(ctx, email, date, *content.SummaryText)
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("email", email).
			Msg("Failed to send news summary email")
		return models.DeliveryOutcome{Recipient: content.Recipient, Delivered: false, Error: err.Error()}
	}

	return models.DeliveryOutcome{Recipient: content.Recipient, Delivered: true}
}

// formattedToday renders the date used in digest subjects and bodies.
func formattedToday() string {
	return time.Now().Format("Monday, January 2, 2006")
}

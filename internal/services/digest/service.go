// Package digest implements the daily market-news digest pipeline:
// recipient fan-out, fallback news acquisition, AI summarization, and
// batched email delivery.
package digest

import (
	"context"
	"fmt"
	"time"

	"github.com/finsight-app/finsight/internal/common"
	"github.com/finsight-app/finsight/internal/engine"
	"github.com/finsight-app/finsight/internal/interfaces"
	"github.com/finsight-app/finsight/internal/models"
)

const (
	DefaultMaxArticles     = 6
	DefaultSendConcurrency = 4
	DefaultSendTimeout     = 30 * time.Second
)

// Service runs the digest pipeline. All collaborators are injected; the
// service holds no cross-recipient mutable state, so a run is safe to
// resume from the engine's memoized checkpoints.
type Service struct {
	storage interfaces.StorageManager
	news    interfaces.NewsClient
	gemini  interfaces.GeminiClient
	mailer  interfaces.MailClient
	steps   interfaces.StepRunner
	logger  *common.Logger

	maxArticles     int
	sendConcurrency int
	sendTimeout     time.Duration
}

// Option configures the service
type Option func(*Service)

// WithMaxArticles caps the per-recipient article count
func WithMaxArticles(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxArticles = n
		}
	}
}

// WithSendConcurrency bounds the delivery worker pool
func WithSendConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sendConcurrency = n
		}
	}
}

// WithSendTimeout sets the per-recipient delivery timeout
func WithSendTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.sendTimeout = d
		}
	}
}

// NewService creates a digest service.
func NewService(storage interfaces.StorageManager, news interfaces.NewsClient, gemini interfaces.GeminiClient, mailer interfaces.MailClient, steps interfaces.StepRunner, logger *common.Logger, opts ...Option) *Service {
	s := &Service{
		storage:         storage,
		news:            news,
		gemini:          gemini,
		mailer:          mailer,
		steps:           steps,
		logger:          logger,
		maxArticles:     DefaultMaxArticles,
		sendConcurrency: DefaultSendConcurrency,
		sendTimeout:     DefaultSendTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunBroadcast runs the full fan-out digest over all subscribed users.
// Returns an error only when recipients cannot be enumerated at all; every
// other failure is absorbed into the report.
func (s *Service) RunBroadcast(ctx context.Context, runID string) (*models.RunReport, error) {
	recipients, err := engine.RunValue(ctx, s.steps, runID, "get-all-users", func(ctx context.Context) ([]models.RecipientProfile, error) {
		return s.listRecipients(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate recipients: %w", err)
	}

	if len(recipients) == 0 {
		return &models.RunReport{
			Success:    false,
			Message:    "No users found for news email",
			FinishedAt: time.Now().UTC(),
		}, nil
	}

	contents := s.fanOut(ctx, runID, recipients)
	outcomes := s.dispatch(ctx, runID, contents)

	delivered, failed := 0, 0
	for _, outcome := range outcomes {
		if outcome.Delivered {
			delivered++
		} else {
			failed++
		}
	}

	return &models.RunReport{
		Success:    true,
		Message:    "Daily news summary emails sent",
		Recipients: len(recipients),
		Delivered:  delivered,
		Failed:     failed,
		FinishedAt: time.Now().UTC(),
	}, nil
}

// RunSingle runs the digest for one recipient: the sample digest a new user
// receives right after signing up.
func (s *Service) RunSingle(ctx context.Context, runID, email string) (*models.RunReport, error) {
	if email == "" {
		return &models.RunReport{
			Success:    false,
			Message:    "No email in signup event",
			FinishedAt: time.Now().UTC(),
		}, nil
	}

	recipient := models.RecipientProfile{Email: email}
	if symbols, err := s.storage.WatchlistStore().GetSymbols(ctx, email); err == nil {
		recipient.TrackedSymbols = symbols
	} else {
		s.logger.Warn().Err(err).Str("email", email).Msg("Failed to load watchlist, using general feed")
	}

	content := s.prepare(ctx, runID, recipient)
	outcomes := s.dispatch(ctx, runID, []models.DigestContent{content})

	if len(outcomes) == 0 || !outcomes[0].Delivered {
		return &models.RunReport{
			Success:    false,
			Message:    "Failed to send sample news summary",
			Recipients: 1,
			Failed:     1,
			FinishedAt: time.Now().UTC(),
		}, nil
	}

	return &models.RunReport{
		Success:    true,
		Message:    "Sample news summary sent to new user",
		Recipients: 1,
		Delivered:  1,
		FinishedAt: time.Now().UTC(),
	}, nil
}

// listRecipients snapshots all subscribed users with their watchlists.
// Watchlist lookup failures degrade to the general feed rather than
// excluding the recipient.
func (s *Service) listRecipients(ctx context.Context) ([]models.RecipientProfile, error) {
	users, err := s.storage.UserStore().ListSubscribed(ctx)
	if err != nil {
		return nil, err
	}

	recipients := make([]models.RecipientProfile, 0, len(users))
	for _, user := range users {
		recipient := models.RecipientProfile{Email: user.Email, Name: user.Name}
		if symbols, err := s.storage.WatchlistStore().GetSymbols(ctx, user.Email); err == nil {
			recipient.TrackedSymbols = symbols
		} else {
			s.logger.Warn().Err(err).Str("email", user.Email).Msg("Failed to load watchlist, using general feed")
		}
		recipients = append(recipients, recipient)
	}
	return recipients, nil
}

// Ensure Service implements DigestService
var _ interfaces.DigestService = (*Service)(nil)

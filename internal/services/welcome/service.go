// Package welcome implements the personalized sign-up email flow.
package welcome

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/finsight-app/finsight/internal/common"
	"github.com/finsight-app/finsight/internal/engine"
	"github.com/finsight-app/finsight/internal/interfaces"
	"github.com/finsight-app/finsight/internal/models"
)

// Prompt template for the personalized welcome intro. The rendered profile
// block replaces {{userProfile}}.
const welcomeIntroPrompt = `You are writing a short, warm welcome paragraph for a new user of FinSight, a market insights product.
Using the profile below, write 2-3 sentences that speak to their goals and interests.
Plain text only, no greeting line, no sign-off.

User profile:
{{userProfile}}`

// Fixed fallback intro when generation fails or returns nothing usable.
const defaultWelcomeIntro = "Thanks for joining FinSight. You now have the tools to track markets and make smarter moves."

// Service generates the welcome intro and sends the welcome email. It
// shares the digest pipeline's step discipline: the AI call and the send
// are named, memoized steps keyed per user.
type Service struct {
	gemini interfaces.GeminiClient
	mailer interfaces.MailClient
	steps  interfaces.StepRunner
	logger *common.Logger
}

// NewService creates a welcome service.
func NewService(gemini interfaces.GeminiClient, mailer interfaces.MailClient, steps interfaces.StepRunner, logger *common.Logger) *Service {
	return &Service{
		gemini: gemini,
		mailer: mailer,
		steps:  steps,
		logger: logger,
	}
}

// Send generates the intro paragraph and sends the welcome email.
// Generation failure degrades to the fixed intro; only a failed send fails
// the flow.
func (s *Service) Send(ctx context.Context, runID, email, name string, profile *models.OnboardingProfile) (*models.RunReport, error) {
	prompt := buildWelcomePrompt(profile)

	intro, err := engine.RunValue(ctx, s.steps, runID, "generate-welcome-intro-"+email, func(ctx context.Context) (string, error) {
		return s.gemini.GenerateContent(ctx, prompt)
	})
	if err != nil || strings.TrimSpace(intro) == "" {
		if err != nil {
			s.logger.Warn().Err(err).Str("email", email).Msg("Welcome intro generation failed, using default")
		}
		intro = defaultWelcomeIntro
	}

	_, err = s.steps.Run(ctx, runID, "send-welcome-email-"+email, func(ctx context.Context) (interface{}, error) {
		return nil, s.mailer.SendWelcome(ctx, email, name, intro)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send welcome email: %w", err)
	}

	return &models.RunReport{
		Success:    true,
		Message:    "Welcome email sent successfully",
		Recipients: 1,
		Delivered:  1,
		FinishedAt: time.Now().UTC(),
	}, nil
}

// buildWelcomePrompt renders the onboarding profile into the prompt.
func buildWelcomePrompt(profile *models.OnboardingProfile) string {
	var sb strings.Builder
	if profile != nil {
		fmt.Fprintf(&sb, "- Country: %s\n", profile.Country)
		fmt.Fprintf(&sb, "- Investment goals: %s\n", profile.InvestmentGoals)
		fmt.Fprintf(&sb, "- Risk tolerance: %s\n", profile.RiskTolerance)
		fmt.Fprintf(&sb, "- Preferred industry: %s\n", profile.PreferredIndustry)
	} else {
		sb.WriteString("- No onboarding details provided\n")
	}
	return strings.Replace(welcomeIntroPrompt, "{{userProfile}}", sb.String(), 1)
}

// Ensure Service implements WelcomeService
var _ interfaces.WelcomeService = (*Service)(nil)

// Package mail sends FinSight notification email over SMTP
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/finsight-app/finsight/internal/common"
	"github.com/finsight-app/finsight/internal/interfaces"
)

// Client implements the MailClient interface over SMTP.
type Client struct {
	smtp     *gomail.Client
	from     string
	fromName string
	logger   *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSender sets the from address and display name
func WithSender(from, fromName string) ClientOption {
	return func(c *Client) {
		if from != "" {
			c.from = from
		}
		if fromName != "" {
			c.fromName = fromName
		}
	}
}

// NewClient creates a new SMTP mail client
func NewClient(cfg common.SMTPConfig, opts ...ClientOption) (*Client, error) {
	smtp, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
		gomail.WithTLSPortPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	c := &Client{
		smtp:     smtp,
		from:     cfg.From,
		fromName: cfg.FromName,
		logger:   common.NewSilentLogger(),
	}
	if c.from == "" {
		c.from = "finsight@noreply.com"
	}
	if c.fromName == "" {
		c.fromName = "FinSight"
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// SendDigest sends a daily market digest email.
func (c *Client) SendDigest(ctx context.Context, email, date, newsContent string) error {
	subject := digestSubjectPrefix + date
	text := "Your market news summary for " + date + "\n\n" + newsContent
	html := renderDigestHTML(date, newsContent)
	return c.send(ctx, email, subject, text, html)
}

// SendWelcome sends the personalized welcome email.
func (c *Client) SendWelcome(ctx context.Context, email, name, intro string) error {
	html := renderWelcomeHTML(name, intro)
	return c.send(ctx, email, welcomeSubject, welcomeText, html)
}

func (c *Client) send(ctx context.Context, to, subject, text, html string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(c.fromName, c.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, text)
	msg.AddAlternativeString(gomail.TypeTextHTML, html)

	if err := c.smtp.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	c.logger.Debug().Str("to", to).Str("subject", subject).Msg("Email sent")
	return nil
}

// Ensure Client implements MailClient
var _ interfaces.MailClient = (*Client)(nil)

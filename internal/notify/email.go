package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/creativeiyke/agency-platform/pkg/logging"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const defaultFromName = "CreativeIyke"

var errSenderNotConfigured = errors.New("notify: email sender not configured")

// EmailSender delivers one rendered lead email. SendGrid, SES and Mailgun
// implement it.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage is a lead notification ready for a provider.
type EmailMessage struct {
	To      string
	ToName  string
	ReplyTo string // the prospect, so sales can answer directly
	Subject string
	Body    string
	HTML    string

	// Tags label the message in provider analytics (SendGrid categories,
	// Mailgun tags).
	Tags []string
}

// SendGridConfig holds the SendGrid API key and studio sender identity.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// SendGridSender mails leads through the SendGrid v3 API.
type SendGridSender struct {
	client *sendgrid.Client
	from   *mail.Email
	logger *logging.Logger
}

// NewSendGridSender returns nil when no API key is configured so callers can
// fall through to another provider.
func NewSendGridSender(cfg SendGridConfig, logger *logging.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	name := cfg.FromName
	if name == "" {
		name = defaultFromName
	}
	return &SendGridSender{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   mail.NewEmail(name, cfg.FromEmail),
		logger: logger,
	}
}

// Send implements EmailSender.
func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("%w: sendgrid", errSenderNotConfigured)
	}

	resp, err := s.client.SendWithContext(ctx, sendgridMessage(s.from, msg))
	if err != nil {
		s.logger.Error("lead email via sendgrid failed", "to", msg.To, "error", err)
		return fmt.Errorf("notify: sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		s.logger.Error("lead email rejected by sendgrid", "to", msg.To, "status", resp.StatusCode, "body", resp.Body)
		return fmt.Errorf("notify: sendgrid status %d", resp.StatusCode)
	}

	s.logger.Info("lead email sent", "provider", "sendgrid", "to", msg.To, "status", resp.StatusCode)
	return nil
}

func sendgridMessage(from *mail.Email, msg EmailMessage) *mail.SGMailV3 {
	html := msg.HTML
	if html == "" {
		html = msg.Body
	}
	m := mail.NewSingleEmail(from, msg.Subject, mail.NewEmail(msg.ToName, msg.To), msg.Body, html)
	if msg.ReplyTo != "" {
		m.SetReplyTo(mail.NewEmail("", msg.ReplyTo))
	}
	if len(msg.Tags) > 0 {
		m.AddCategories(msg.Tags...)
	}
	return m
}

// StubEmailSender logs lead emails instead of sending them. Used when no
// provider is configured.
type StubEmailSender struct {
	logger *logging.Logger
}

// NewStubEmailSender creates a logging-only sender.
func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

// Send implements EmailSender.
func (s *StubEmailSender) Send(_ context.Context, msg EmailMessage) error {
	s.logger.Info("lead email not sent, no provider configured", "to", msg.To, "subject", msg.Subject, "tags", msg.Tags)
	return nil
}

var (
	_ EmailSender = (*SendGridSender)(nil)
	_ EmailSender = (*StubEmailSender)(nil)
)

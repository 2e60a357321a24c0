package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/creativeiyke/agency-platform/pkg/logging"
	"github.com/mailgun/mailgun-go/v4"
)

// MailgunConfig holds configuration for Mailgun.
type MailgunConfig struct {
	Domain    string
	APIKey    string
	FromEmail string
	FromName  string
}

// MailgunSender sends emails via the Mailgun API.
type MailgunSender struct {
	client    *mailgun.MailgunImpl
	fromEmail string
	fromName  string
	logger    *logging.Logger
}

// NewMailgunSender returns nil when Mailgun is not configured.
func NewMailgunSender(cfg MailgunConfig, logger *logging.Logger) *MailgunSender {
	if strings.TrimSpace(cfg.Domain) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = defaultFromName
	}
	return &MailgunSender{
		client:    mailgun.NewMailgun(cfg.Domain, cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}
}

// Send sends an email via Mailgun.
func (s *MailgunSender) Send(ctx context.Context, msg EmailMessage) error {
	if s.client == nil {
		return fmt.Errorf("notify: mailgun client not configured")
	}

	to := msg.To
	if msg.ToName != "" {
		to = fmt.Sprintf("%s <%s>", msg.ToName, msg.To)
	}
	message := s.client.NewMessage(fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail), msg.Subject, msg.Body, to)
	if msg.HTML != "" {
		message.SetHtml(msg.HTML)
	}
	if msg.ReplyTo != "" {
		message.SetReplyTo(msg.ReplyTo)
	}
	if len(msg.Tags) > 0 {
		if err := message.AddTag(msg.Tags...); err != nil {
			s.logger.Warn("mailgun tags dropped", "tags", msg.Tags, "error", err)
		}
	}

	sendCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, messageID, err := s.client.Send(sendCtx, message)
	if err != nil {
		s.logger.Error("mailgun send failed", "error", err, "to", msg.To)
		return fmt.Errorf("notify: mailgun send failed: %w", err)
	}

	s.logger.Info("email sent via mailgun", "to", msg.To, "subject", msg.Subject, "message_id", messageID)
	return nil
}

var _ EmailSender = (*MailgunSender)(nil)

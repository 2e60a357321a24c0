package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/creativeiyke/agency-platform/internal/leads"
	"github.com/creativeiyke/agency-platform/pkg/logging"
	"github.com/google/uuid"
)

// LeadSubject is the subject line used for lead notifications.
func LeadSubject(lead leads.Lead) string {
	return "New Strategic Lead from " + lead.Name
}

// LeadEmail renders a lead for the sales inbox.
func LeadEmail(to string, lead leads.Lead) EmailMessage {
	website := lead.Website
	if website == "" {
		website = "n/a"
	}
	scope := strings.Join(lead.Scope, ", ")
	submitted := lead.Timestamp.UTC().Format(time.RFC3339)

	body := fmt.Sprintf(`A new lead has unlocked the Viability Roadmap.

Name: %s
Email: %s
Website: %s
Sector: %s
Scope: %s
Budget: %s
Submitted: %s

Project brief:
%s

AI analysis shown to the prospect:
%s`, lead.Name, lead.Email, website, lead.Sector, scope, lead.BudgetLabel(), submitted, lead.Query, lead.AIResponse)

	rows := [][2]string{
		{"Name", lead.Name},
		{"Email", lead.Email},
		{"Website", website},
		{"Sector", string(lead.Sector)},
		{"Scope", scope},
		{"Budget", lead.BudgetLabel()},
		{"Submitted", submitted},
	}
	var table strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&table, `  <tr><td style="padding: 8px; border-bottom: 1px solid #1f2937;"><strong>%s:</strong></td><td style="padding: 8px; border-bottom: 1px solid #1f2937;">%s</td></tr>
`, row[0], html.EscapeString(row[1]))
	}

	htmlBody := fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px;">
<h2 style="color: #00F0FF;">New Strategic Lead</h2>
<table style="border-collapse: collapse; margin: 20px 0;">
%s</table>
<h3>Project brief</h3>
<p>%s</p>
<h3>AI analysis</h3>
<p style="background: #0b0b0f; color: #e5e7eb; padding: 12px; border-left: 4px solid #7000FF;">%s</p>
</div>`, table.String(), html.EscapeString(lead.Query), html.EscapeString(lead.AIResponse))

	return EmailMessage{
		To:      to,
		ReplyTo: lead.Email,
		Subject: LeadSubject(lead),
		Body:    body,
		HTML:    htmlBody,
		Tags:    LeadTags(lead),
	}
}

// LeadTags labels a lead email with its sector for provider analytics.
func LeadTags(lead leads.Lead) []string {
	tags := []string{"lead"}
	if lead.Sector != "" {
		slug := strings.ToLower(strings.Join(strings.Fields(string(lead.Sector)), "-"))
		tags = append(tags, "sector-"+slug)
	}
	return tags
}

// EmailSink mails each lead to the sales recipients.
type EmailSink struct {
	sender     EmailSender
	recipients []string
	logger     *logging.Logger
}

// NewEmailSink creates a sink that mails leads to recipients.
func NewEmailSink(sender EmailSender, recipients []string, logger *logging.Logger) (*EmailSink, error) {
	if sender == nil {
		return nil, errors.New("notify: email sink requires a sender")
	}
	var to []string
	for _, r := range recipients {
		if r = strings.TrimSpace(r); r != "" {
			to = append(to, r)
		}
	}
	if len(to) == 0 {
		return nil, errors.New("notify: email sink requires at least one recipient")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &EmailSink{sender: sender, recipients: to, logger: logger}, nil
}

// Dispatch sends one email per recipient. Any failed recipient fails the dispatch.
func (s *EmailSink) Dispatch(ctx context.Context, lead leads.Lead) (Receipt, error) {
	var errs []error
	for _, recipient := range s.recipients {
		if err := s.sender.Send(ctx, LeadEmail(recipient, lead)); err != nil {
			s.logger.Error("notify: failed to send lead email", "error", err, "to", recipient)
			errs = append(errs, err)
			continue
		}
		s.logger.Info("notify: lead email sent", "to", recipient, "session_id", lead.SessionID)
	}
	if len(errs) > 0 {
		return Receipt{}, fmt.Errorf("notify: %d notification(s) failed: %w", len(errs), errors.Join(errs...))
	}
	return Receipt{ID: uuid.NewString(), Sink: "email", At: time.Now().UTC()}, nil
}

var _ Sink = (*EmailSink)(nil)

package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/creativeiyke/agency-platform/internal/config"
	"github.com/creativeiyke/agency-platform/internal/notify"
	"github.com/creativeiyke/agency-platform/pkg/logging"
)

var (
	errQueueNotConfigured = errors.New("bootstrap: lead queue not configured")
	errUnknownSink        = errors.New("bootstrap: unknown lead sink")
)

// BuildEmailSender picks the configured email provider. Unconfigured providers
// fall back to the stub sender, which only logs.
func BuildEmailSender(cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) notify.EmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	switch cfg.EmailProvider {
	case "sendgrid":
		if s := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); s != nil {
			return s
		}
	case "ses":
		if strings.TrimSpace(cfg.SESFromEmail) != "" {
			return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
				FromEmail: cfg.SESFromEmail,
				FromName:  cfg.SESFromName,
			}, logger)
		}
	case "mailgun":
		if s := notify.NewMailgunSender(notify.MailgunConfig{
			Domain:    cfg.MailgunDomain,
			APIKey:    cfg.MailgunAPIKey,
			FromEmail: cfg.MailgunFromEmail,
			FromName:  cfg.MailgunFromName,
		}, logger); s != nil {
			return s
		}
	}
	logger.Warn("email provider not configured, using stub sender", "provider", cfg.EmailProvider)
	return notify.NewStubEmailSender(logger)
}

// BuildLeadQueue returns the outbox queue: SQS when a queue URL is set,
// otherwise a Redis list when a client is available.
func BuildLeadQueue(cfg *appconfig.Config, awsCfg aws.Config, redisClient *redis.Client) (notify.Queue, error) {
	if strings.TrimSpace(cfg.LeadQueueURL) != "" {
		return notify.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.LeadQueueURL), nil
	}
	if redisClient != nil {
		return notify.NewRedisQueue(redisClient, cfg.LeadQueueKey), nil
	}
	return nil, errQueueNotConfigured
}

// BuildLeadSink wires where finished leads go from the API process. The
// returned cleanup func releases any connection the sink opened.
//
//	log   - structured log only
//	email - email sent inline, retried with backoff
//	queue - enqueued for cmd/notify-worker
func BuildLeadSink(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) (notify.Sink, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}
	recipients := Recipients(cfg.LeadNotifyEmail)
	noop := func() {}

	switch cfg.LeadSink {
	case "log", "":
		return notify.NewLogSink(strings.Join(recipients, ","), logger.Component("lead-sink")), noop, nil
	case "email":
		sink, err := notify.NewEmailSink(BuildEmailSender(cfg, awsCfg, logger), recipients, logger.Component("lead-sink"))
		if err != nil {
			return nil, nil, err
		}
		return notify.NewRetrySink(sink, cfg.DispatchMaxAttempts, cfg.DispatchBaseDelay, logger), noop, nil
	case "queue":
		var redisClient *redis.Client
		name := "sqs"
		if strings.TrimSpace(cfg.LeadQueueURL) == "" {
			redisClient = BuildRedisClient(ctx, cfg, logger, true)
			name = "redis"
		}
		queue, err := BuildLeadQueue(cfg, awsCfg, redisClient)
		if err != nil {
			if redisClient != nil {
				_ = redisClient.Close()
			}
			return nil, nil, err
		}
		cleanup := noop
		if redisClient != nil {
			cleanup = func() {
				if err := redisClient.Close(); err != nil {
					logger.Warn("lead queue redis close failed", "error", err)
				}
			}
		}
		return notify.NewRetrySink(notify.NewQueueSink(queue, name), cfg.DispatchMaxAttempts, cfg.DispatchBaseDelay, logger), cleanup, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", errUnknownSink, cfg.LeadSink)
	}
}

// Recipients splits a comma-separated address list.
func Recipients(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

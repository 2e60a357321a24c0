package bootstrap

import (
	"context"
	"io"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creativeiyke/agency-platform/internal/advisor"
	appconfig "github.com/creativeiyke/agency-platform/internal/config"
	"github.com/creativeiyke/agency-platform/internal/leads"
	"github.com/creativeiyke/agency-platform/internal/notify"
	"github.com/creativeiyke/agency-platform/pkg/logging"
)

func testLogger() *logging.Logger {
	return logging.NewWithWriter(io.Discard, "error")
}

var testAWS = aws.Config{Region: "eu-west-2"}

func TestBuildRedisClient(t *testing.T) {
	assert.Nil(t, BuildRedisClient(context.Background(), &appconfig.Config{}, testLogger(), true))

	mr := miniredis.RunT(t)
	client := BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: mr.Addr()}, testLogger(), true)
	require.NotNil(t, client)
	defer client.Close()

	mr.Close()
	assert.Nil(t, BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: mr.Addr()}, testLogger(), true))
}

func TestBuildGeneratorStatic(t *testing.T) {
	cfg := &appconfig.Config{GeneratorProvider: "static"}
	gen, cleanup, err := BuildGenerator(context.Background(), cfg, testAWS, testLogger())
	require.NoError(t, err)
	defer cleanup()

	assert.IsType(t, advisor.StaticGenerator{}, gen)
}

func TestBuildGeneratorWithFallback(t *testing.T) {
	cfg := &appconfig.Config{GeneratorProvider: "bedrock", BedrockModelID: "anthropic.claude-3-haiku", FallbackProvider: "static"}
	gen, cleanup, err := BuildGenerator(context.Background(), cfg, testAWS, testLogger())
	require.NoError(t, err)
	defer cleanup()

	assert.IsType(t, &advisor.FallbackGenerator{}, gen)
}

func TestBuildGeneratorFallbackFailureKeepsPrimary(t *testing.T) {
	cfg := &appconfig.Config{GeneratorProvider: "static", FallbackProvider: "gemini"}
	gen, cleanup, err := BuildGenerator(context.Background(), cfg, testAWS, testLogger())
	require.NoError(t, err)
	defer cleanup()

	assert.IsType(t, advisor.StaticGenerator{}, gen)
}

func TestBuildGeneratorErrors(t *testing.T) {
	_, _, err := BuildGenerator(context.Background(), &appconfig.Config{GeneratorProvider: "gpt"}, testAWS, testLogger())
	assert.ErrorIs(t, err, errUnknownProvider)

	_, _, err = BuildGenerator(context.Background(), &appconfig.Config{GeneratorProvider: "gemini"}, testAWS, testLogger())
	assert.Error(t, err)
}

func TestBuildEmailSenderFallsBackToStub(t *testing.T) {
	for _, provider := range []string{"sendgrid", "ses", "mailgun", "pigeon"} {
		sender := BuildEmailSender(&appconfig.Config{EmailProvider: provider}, testAWS, testLogger())
		assert.IsType(t, &notify.StubEmailSender{}, sender, provider)
	}
}

func TestBuildEmailSenderConfigured(t *testing.T) {
	sender := BuildEmailSender(&appconfig.Config{EmailProvider: "sendgrid", SendGridAPIKey: "SG.key"}, testAWS, testLogger())
	assert.IsType(t, &notify.SendGridSender{}, sender)

	sender = BuildEmailSender(&appconfig.Config{EmailProvider: "ses", SESFromEmail: "leads@creativeiyke.com"}, testAWS, testLogger())
	assert.IsType(t, &notify.SESSender{}, sender)

	sender = BuildEmailSender(&appconfig.Config{EmailProvider: "mailgun", MailgunDomain: "mg.creativeiyke.com", MailgunAPIKey: "key"}, testAWS, testLogger())
	assert.IsType(t, &notify.MailgunSender{}, sender)
}

func TestBuildLeadQueue(t *testing.T) {
	_, err := BuildLeadQueue(&appconfig.Config{}, testAWS, nil)
	assert.ErrorIs(t, err, errQueueNotConfigured)

	q, err := BuildLeadQueue(&appconfig.Config{LeadQueueURL: "https://sqs.eu-west-2.amazonaws.com/123/leads"}, testAWS, nil)
	require.NoError(t, err)
	assert.IsType(t, &notify.SQSQueue{}, q)

	mr := miniredis.RunT(t)
	client := BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: mr.Addr()}, testLogger(), false)
	defer client.Close()
	q, err = BuildLeadQueue(&appconfig.Config{LeadQueueKey: "leads:outbox"}, testAWS, client)
	require.NoError(t, err)
	assert.IsType(t, &notify.RedisQueue{}, q)
}

func TestBuildLeadSink(t *testing.T) {
	sink, cleanup, err := BuildLeadSink(context.Background(), &appconfig.Config{LeadSink: "log", LeadNotifyEmail: "a@x.com, b@x.com"}, testAWS, testLogger())
	require.NoError(t, err)
	assert.IsType(t, &notify.LogSink{}, sink)
	require.NotNil(t, cleanup)
	cleanup()

	sink, cleanup, err = BuildLeadSink(context.Background(), &appconfig.Config{LeadSink: "email", LeadNotifyEmail: "ops@x.com", DispatchMaxAttempts: 2}, testAWS, testLogger())
	require.NoError(t, err)
	assert.IsType(t, &notify.RetrySink{}, sink)
	cleanup()

	_, _, err = BuildLeadSink(context.Background(), &appconfig.Config{LeadSink: "email"}, testAWS, testLogger())
	assert.Error(t, err)

	_, _, err = BuildLeadSink(context.Background(), &appconfig.Config{LeadSink: "queue"}, testAWS, testLogger())
	assert.ErrorIs(t, err, errQueueNotConfigured)

	_, _, err = BuildLeadSink(context.Background(), &appconfig.Config{LeadSink: "carrier-pigeon"}, testAWS, testLogger())
	assert.ErrorIs(t, err, errUnknownSink)
}

func TestBuildLeadSinkQueueCleanupClosesRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &appconfig.Config{LeadSink: "queue", RedisAddr: mr.Addr(), LeadQueueKey: "leads"}
	sink, cleanup, err := BuildLeadSink(context.Background(), cfg, testAWS, testLogger())
	require.NoError(t, err)
	assert.IsType(t, &notify.RetrySink{}, sink)

	receipt, err := sink.Dispatch(context.Background(), leads.Lead{SessionID: "session-1"})
	require.NoError(t, err)
	assert.Equal(t, "redis", receipt.Sink)
	items, err := mr.List("leads")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	cleanup()
	_, err = sink.Dispatch(context.Background(), leads.Lead{SessionID: "session-2"})
	assert.Error(t, err)
}

func TestSplitRecipients(t *testing.T) {
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, Recipients(" a@x.com,,b@x.com "))
	assert.Nil(t, Recipients(""))
}

package notify

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueSinkEnqueuesEnvelope(t *testing.T) {
	q := NewMemoryQueue(4)
	sink := NewQueueSink(q, "memory")

	receipt, err := sink.Dispatch(context.Background(), sampleLead())
	require.NoError(t, err)
	assert.Equal(t, "memory", receipt.Sink)

	msgs, err := q.Receive(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(msgs[0].Body), &env))
	assert.Equal(t, receipt.ID, env.ID)
	assert.Equal(t, EnvelopeKind, env.Kind)
	assert.Equal(t, "Jane Doe", env.Lead.Name)
	assert.Equal(t, 0, env.Attempts)
}

func TestDecodeEnvelopeRejectsForeignKind(t *testing.T) {
	_, err := decodeEnvelope(`{"id":"x","kind":"payment_succeeded.v1"}`)
	assert.Error(t, err)

	_, err = decodeEnvelope(`not json`)
	assert.Error(t, err)
}

func TestMemoryQueueReceiveEmpty(t *testing.T) {
	q := NewMemoryQueue(0)
	msgs, err := q.Receive(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestMemoryQueueBatches(t *testing.T) {
	q := NewMemoryQueue(8)
	ctx := context.Background()
	for _, body := range []string{"a", "b", "c"} {
		require.NoError(t, q.Send(ctx, body))
	}

	msgs, err := q.Receive(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "a", msgs[0].Body)
	assert.Equal(t, 1, q.Len())
}

func newTestRedisQueue(t *testing.T) (*RedisQueue, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisQueue(client, "leads:test"), mr
}

func TestRedisQueueRoundTrip(t *testing.T) {
	q, mr := newTestRedisQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Send(ctx, "first"))
	require.NoError(t, q.Send(ctx, "second"))

	msgs, err := q.Receive(ctx, 5, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Body)
	assert.Equal(t, "second", msgs[1].Body)

	processing, err := mr.List("leads:test:processing")
	require.NoError(t, err)
	assert.Len(t, processing, 2)

	require.NoError(t, q.Delete(ctx, msgs[0].ReceiptHandle))
	processing, err = mr.List("leads:test:processing")
	require.NoError(t, err)
	assert.Equal(t, []string{"second"}, processing)
}

func TestRedisQueueRecover(t *testing.T) {
	q, _ := newTestRedisQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Send(ctx, "stranded"))
	_, err := q.Receive(ctx, 1, 0)
	require.NoError(t, err)

	moved, err := q.Recover(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	msgs, err := q.Receive(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "stranded", msgs[0].Body)
}

func TestRedisQueueReceiveEmpty(t *testing.T) {
	q, _ := newTestRedisQueue(t)
	msgs, err := q.Receive(context.Background(), 3, 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

type fakeSQS struct {
	sent     []string
	deleted  []string
	messages []sqstypes.Message
	input    *sqs.ReceiveMessageInput
}

func (f *fakeSQS) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.sent = append(f.sent, aws.ToString(params.MessageBody))
	return &sqs.SendMessageOutput{}, nil
}

func (f *fakeSQS) ReceiveMessage(_ context.Context, params *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.input = params
	return &sqs.ReceiveMessageOutput{Messages: f.messages}, nil
}

func (f *fakeSQS) DeleteMessage(_ context.Context, params *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

func TestSQSQueue(t *testing.T) {
	api := &fakeSQS{messages: []sqstypes.Message{{
		MessageId:     aws.String("m-1"),
		Body:          aws.String("payload"),
		ReceiptHandle: aws.String("rh-1"),
	}}}
	q := NewSQSQueue(api, "https://sqs.eu-west-2.amazonaws.com/123/leads")
	ctx := context.Background()

	require.NoError(t, q.Send(ctx, "payload"))
	assert.Equal(t, []string{"payload"}, api.sent)

	msgs, err := q.Receive(ctx, 10, 20)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "m-1", msgs[0].ID)
	assert.Equal(t, int32(20), api.input.WaitTimeSeconds)

	require.NoError(t, q.Delete(ctx, msgs[0].ReceiptHandle))
	assert.Equal(t, []string{"rh-1"}, api.deleted)
}

func TestNewSQSQueuePanics(t *testing.T) {
	assert.Panics(t, func() { NewSQSQueue(nil, "url") })
	assert.Panics(t, func() { NewSQSQueue(&fakeSQS{}, "") })
}

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/creativeiyke/agency-platform/internal/leads"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// EnvelopeKind identifies lead notifications on the shared queue.
const EnvelopeKind = "lead.submitted.v1"

// Queue is a minimal at-least-once message queue.
type Queue interface {
	Send(ctx context.Context, body string) error
	Receive(ctx context.Context, maxMessages int, waitSeconds int) ([]QueueMessage, error)
	Delete(ctx context.Context, receiptHandle string) error
}

// QueueMessage is one received message.
type QueueMessage struct {
	ID            string
	Body          string
	ReceiptHandle string
}

// Envelope wraps a lead on the queue.
type Envelope struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	Attempts   int        `json:"attempts"`
	EnqueuedAt time.Time  `json:"enqueued_at"`
	Lead       leads.Lead `json:"lead"`
}

func encodeEnvelope(env Envelope) (string, error) {
	body, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("notify: failed to encode envelope: %w", err)
	}
	return string(body), nil
}

func decodeEnvelope(body string) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return Envelope{}, fmt.Errorf("notify: failed to decode envelope: %w", err)
	}
	if env.Kind != EnvelopeKind {
		return Envelope{}, fmt.Errorf("notify: unexpected envelope kind %q", env.Kind)
	}
	return env, nil
}

// QueueSink hands leads to a queue for a worker to deliver.
type QueueSink struct {
	queue  Queue
	name   string
	tracer trace.Tracer
}

// NewQueueSink creates a sink that enqueues leads. name labels receipts ("sqs", "redis").
func NewQueueSink(queue Queue, name string) *QueueSink {
	if queue == nil {
		panic("notify: queue cannot be nil")
	}
	return &QueueSink{
		queue:  queue,
		name:   name,
		tracer: otel.Tracer("creativeiyke.internal.notify.queue"),
	}
}

// Dispatch enqueues the lead.
func (s *QueueSink) Dispatch(ctx context.Context, lead leads.Lead) (Receipt, error) {
	env := Envelope{
		ID:         uuid.NewString(),
		Kind:       EnvelopeKind,
		EnqueuedAt: time.Now().UTC(),
		Lead:       lead,
	}
	ctx, span := s.tracer.Start(ctx, "notify.enqueue_lead", trace.WithAttributes(
		attribute.String("notify.queue", s.name),
		attribute.String("notify.envelope_id", env.ID),
	))
	defer span.End()

	body, err := encodeEnvelope(env)
	if err != nil {
		span.RecordError(err)
		return Receipt{}, err
	}
	if err := s.queue.Send(ctx, body); err != nil {
		span.RecordError(err)
		return Receipt{}, err
	}
	return Receipt{ID: env.ID, Sink: s.name, At: env.EnqueuedAt}, nil
}

var _ Sink = (*QueueSink)(nil)

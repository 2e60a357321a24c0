package notify

import (
	"context"
	"errors"
	"time"

	"github.com/creativeiyke/agency-platform/pkg/logging"
)

// Worker drains queued leads into a delivery sink.
type Worker struct {
	queue       Queue
	sink        Sink
	logger      *logging.Logger
	maxAttempts int
	batchSize   int
	waitSeconds int
	idleDelay   time.Duration
}

// NewWorker creates a worker delivering from queue to sink.
func NewWorker(queue Queue, sink Sink, logger *logging.Logger) *Worker {
	if queue == nil || sink == nil {
		panic("notify: worker requires a queue and a sink")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Worker{
		queue:       queue,
		sink:        sink,
		logger:      logger,
		maxAttempts: 5,
		batchSize:   10,
		waitSeconds: 10,
		idleDelay:   time.Second,
	}
}

// WithMaxAttempts caps redeliveries before a lead is dropped to the log.
func (w *Worker) WithMaxAttempts(n int) *Worker {
	if n > 0 {
		w.maxAttempts = n
	}
	return w
}

// WithWait sets the long-poll duration per receive.
func (w *Worker) WithWait(seconds int) *Worker {
	if seconds >= 0 {
		w.waitSeconds = seconds
	}
	return w
}

// Run polls until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("lead notification worker started", "max_attempts", w.maxAttempts)
	for {
		if ctx.Err() != nil {
			w.logger.Info("lead notification worker stopped")
			return
		}
		n, err := w.Poll(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error("lead queue receive failed", "error", err)
		}
		if n == 0 || err != nil {
			select {
			case <-ctx.Done():
			case <-time.After(w.idleDelay):
			}
		}
	}
}

// Poll receives one batch and handles every message in it.
func (w *Worker) Poll(ctx context.Context) (int, error) {
	messages, err := w.queue.Receive(ctx, w.batchSize, w.waitSeconds)
	if err != nil {
		return 0, err
	}
	for _, msg := range messages {
		w.handle(ctx, msg)
	}
	return len(messages), nil
}

func (w *Worker) handle(ctx context.Context, msg QueueMessage) {
	env, err := decodeEnvelope(msg.Body)
	if err != nil {
		w.logger.Error("dropping undecodable lead message", "error", err, "message_id", msg.ID)
		w.ack(ctx, msg)
		return
	}

	env.Attempts++
	receipt, err := w.sink.Dispatch(ctx, env.Lead)
	if err == nil {
		w.logger.Info("queued lead delivered",
			"envelope_id", env.ID,
			"receipt_id", receipt.ID,
			"attempts", env.Attempts,
		)
		w.ack(ctx, msg)
		return
	}

	if env.Attempts >= w.maxAttempts {
		w.logger.Error("lead delivery abandoned",
			"envelope_id", env.ID,
			"attempts", env.Attempts,
			"session_id", env.Lead.SessionID,
			"email", env.Lead.Email,
			"error", err,
		)
		w.ack(ctx, msg)
		return
	}

	w.logger.Warn("lead delivery failed, requeueing", "envelope_id", env.ID, "attempts", env.Attempts, "error", err)
	body, encErr := encodeEnvelope(env)
	if encErr != nil {
		w.logger.Error("failed to re-encode lead", "error", encErr)
		return
	}
	if sendErr := w.queue.Send(ctx, body); sendErr != nil {
		// Leave the original in place for redelivery.
		w.logger.Error("failed to requeue lead", "envelope_id", env.ID, "error", sendErr)
		return
	}
	w.ack(ctx, msg)
}

func (w *Worker) ack(ctx context.Context, msg QueueMessage) {
	if msg.ReceiptHandle == "" {
		return
	}
	if err := w.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
		w.logger.Error("failed to delete lead message", "error", err, "message_id", msg.ID)
	}
}

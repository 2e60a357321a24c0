package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/creativeiyke/agency-platform/internal/leads"
	"github.com/creativeiyke/agency-platform/pkg/logging"
	"github.com/google/uuid"
)

// Receipt acknowledges that a sink accepted a lead.
type Receipt struct {
	ID   string    `json:"id"`
	Sink string    `json:"sink"`
	At   time.Time `json:"at"`
}

// Sink accepts finished leads. Implementations report failure instead of assuming delivery.
type Sink interface {
	Dispatch(ctx context.Context, lead leads.Lead) (Receipt, error)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, lead leads.Lead) (Receipt, error)

// Dispatch calls f.
func (f SinkFunc) Dispatch(ctx context.Context, lead leads.Lead) (Receipt, error) {
	return f(ctx, lead)
}

// LogSink writes the lead to the structured log and nothing else.
type LogSink struct {
	to     string
	logger *logging.Logger
}

// NewLogSink creates a sink that only logs, addressed as if mailed to "to".
func NewLogSink(to string, logger *logging.Logger) *LogSink {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogSink{to: to, logger: logger}
}

// Dispatch logs the payload.
func (s *LogSink) Dispatch(ctx context.Context, lead leads.Lead) (Receipt, error) {
	payload, err := json.Marshal(lead)
	if err != nil {
		return Receipt{}, fmt.Errorf("notify: encode lead: %w", err)
	}
	receipt := Receipt{ID: uuid.NewString(), Sink: "log", At: time.Now().UTC()}
	s.logger.Info("lead dispatched",
		"to", s.to,
		"subject", LeadSubject(lead),
		"receipt_id", receipt.ID,
		"payload", string(payload),
	)
	return receipt, nil
}

// RetrySink retries a failing sink with exponential backoff.
type RetrySink struct {
	next        Sink
	maxAttempts int
	baseDelay   time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	logger      *logging.Logger
}

// NewRetrySink wraps next. maxAttempts below one is treated as one.
func NewRetrySink(next Sink, maxAttempts int, baseDelay time.Duration, logger *logging.Logger) *RetrySink {
	if next == nil {
		panic("notify: retry sink requires a sink")
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RetrySink{
		next:        next,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		sleep:       sleepContext,
		logger:      logger,
	}
}

// Dispatch tries next up to maxAttempts times.
func (s *RetrySink) Dispatch(ctx context.Context, lead leads.Lead) (Receipt, error) {
	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		receipt, err := s.next.Dispatch(ctx, lead)
		if err == nil {
			return receipt, nil
		}
		lastErr = err
		s.logger.Warn("lead dispatch attempt failed",
			"attempt", attempt,
			"max_attempts", s.maxAttempts,
			"session_id", lead.SessionID,
			"error", err,
		)
		if attempt == s.maxAttempts {
			break
		}
		delay := s.baseDelay << (attempt - 1)
		if err := s.sleep(ctx, delay); err != nil {
			return Receipt{}, errors.Join(lastErr, err)
		}
	}
	return Receipt{}, fmt.Errorf("notify: dispatch failed after %d attempt(s): %w", s.maxAttempts, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var (
	_ Sink = (*LogSink)(nil)
	_ Sink = (*RetrySink)(nil)
)

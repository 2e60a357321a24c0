package advisor

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/creativeiyke/agency-platform/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrEmptyQuery is returned when there is nothing to analyse.
var ErrEmptyQuery = errors.New("advisor: query is empty")

// Observer records analysis outcomes.
type Observer interface {
	ObserveAnalysis(outcome string, seconds float64)
}

// Analyst turns a prospect's query into a generation request.
type Analyst struct {
	gen      Generator
	timeout  time.Duration
	now      func() time.Time
	logger   *logging.Logger
	tracer   trace.Tracer
	observer Observer

	lastContextID atomic.Int64
}

// Option configures an Analyst.
type Option func(*Analyst)

// WithTimeout bounds each generation call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(a *Analyst) { a.timeout = d }
}

// WithClock overrides the time source for context markers.
func WithClock(now func() time.Time) Option {
	return func(a *Analyst) {
		if now != nil {
			a.now = now
		}
	}
}

// WithObserver attaches an outcome observer.
func WithObserver(o Observer) Option {
	return func(a *Analyst) { a.observer = o }
}

// WithTracer overrides the tracer.
func WithTracer(t trace.Tracer) Option {
	return func(a *Analyst) {
		if t != nil {
			a.tracer = t
		}
	}
}

// NewAnalyst builds an Analyst around gen.
func NewAnalyst(gen Generator, logger *logging.Logger, opts ...Option) *Analyst {
	if gen == nil {
		panic("advisor: generator cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	a := &Analyst{
		gen:    gen,
		now:    time.Now,
		logger: logger,
		tracer: otel.Tracer("creativeiyke.internal.advisor"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze issues one generation request for query and returns the trimmed text.
func (a *Analyst) Analyze(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}

	contextID := a.nextContextID()
	ctx, span := a.tracer.Start(ctx, "advisor.analyze", trace.WithAttributes(
		attribute.Int64("advisor.context_id", contextID),
		attribute.Int("advisor.query_length", len(query)),
	))
	defer span.End()

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := a.gen.Generate(ctx, Request{
		Prompt:            BuildPrompt(query, contextID),
		SystemInstruction: SystemInstruction,
		Temperature:       DefaultTemperature,
	})
	elapsed := time.Since(start).Seconds()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		a.observe("error", elapsed)
		a.logger.Warn("analysis generation failed", "error", err, "context_id", contextID)
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		a.observe("empty", elapsed)
	} else {
		a.observe("ok", elapsed)
	}
	a.logger.Debug("analysis generated", "context_id", contextID, "chars", len(text))
	return text, nil
}

// nextContextID returns the current Unix millisecond, bumped so it always increases.
func (a *Analyst) nextContextID() int64 {
	candidate := a.now().UnixMilli()
	for {
		last := a.lastContextID.Load()
		next := candidate
		if next <= last {
			next = last + 1
		}
		if a.lastContextID.CompareAndSwap(last, next) {
			return next
		}
	}
}

func (a *Analyst) observe(outcome string, seconds float64) {
	if a.observer != nil {
		a.observer.ObserveAnalysis(outcome, seconds)
	}
}

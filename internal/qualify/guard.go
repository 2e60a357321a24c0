package qualify

import (
	"context"
	"time"
)

// Submission is what guards see before a lead enters processing.
type Submission struct {
	SessionID string
	Honeypot  string
	StartedAt time.Time
	At        time.Time
}

// Guard decides whether a submission looks automated. Returning ErrRejected
// drops it silently.
type Guard interface {
	Check(ctx context.Context, sub Submission) error
}

// GuardFunc adapts a function to Guard.
type GuardFunc func(ctx context.Context, sub Submission) error

// Check calls f.
func (f GuardFunc) Check(ctx context.Context, sub Submission) error {
	return f(ctx, sub)
}

// HoneypotGuard rejects submissions whose hidden field holds anything,
// whitespace included.
type HoneypotGuard struct{}

// Check implements Guard.
func (HoneypotGuard) Check(_ context.Context, sub Submission) error {
	if sub.Honeypot != "" {
		return ErrRejected
	}
	return nil
}

// MinFillTimeGuard rejects submissions completed faster than a person could.
type MinFillTimeGuard struct {
	Min time.Duration
}

// Check implements Guard.
func (g MinFillTimeGuard) Check(_ context.Context, sub Submission) error {
	if g.Min <= 0 || sub.StartedAt.IsZero() {
		return nil
	}
	if sub.At.Sub(sub.StartedAt) < g.Min {
		return ErrRejected
	}
	return nil
}

// Guards runs each guard in order and stops at the first error.
type Guards []Guard

// Check implements Guard.
func (gs Guards) Check(ctx context.Context, sub Submission) error {
	for _, g := range gs {
		if g == nil {
			continue
		}
		if err := g.Check(ctx, sub); err != nil {
			return err
		}
	}
	return nil
}

var (
	_ Guard = HoneypotGuard{}
	_ Guard = MinFillTimeGuard{}
	_ Guard = Guards(nil)
)

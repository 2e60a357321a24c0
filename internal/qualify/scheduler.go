package qualify

import (
	"context"
	"math"
	"sync"
	"time"
)

const (
	// TickInterval is the spacing between progress ticks.
	TickInterval = 50 * time.Millisecond

	// TotalTicks is the number of ticks needed to reach 100%.
	TotalTicks = 50

	// SuccessDelay is the pause between reaching 100% and showing success.
	SuccessDelay = 500 * time.Millisecond
)

// Progress converts a tick count into a percentage in [0, 100].
func Progress(tick, total int) int {
	if total <= 0 || tick >= total {
		return 100
	}
	if tick <= 0 {
		return 0
	}
	return int(math.Round(float64(tick) / float64(total) * 100))
}

// Scheduler drives the processing simulation.
type Scheduler interface {
	// Every calls fn with tick numbers 1..n spaced by interval. Returning false stops early.
	Every(ctx context.Context, interval time.Duration, n int, fn func(tick int) bool)
	// After calls fn once after d.
	After(ctx context.Context, d time.Duration, fn func())
}

// TickerScheduler runs callbacks on background goroutines using real time.
type TickerScheduler struct{}

// Every implements Scheduler.
func (TickerScheduler) Every(ctx context.Context, interval time.Duration, n int, fn func(tick int) bool) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for tick := 1; tick <= n; tick++ {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			if !fn(tick) {
				return
			}
		}
	}()
}

// After implements Scheduler.
func (TickerScheduler) After(ctx context.Context, d time.Duration, fn func()) {
	go func() {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
		case <-timer.C:
			fn()
		}
	}()
}

// ManualScheduler queues callbacks until the caller fires them. It is used
// where progress must be stepped deterministically.
type ManualScheduler struct {
	mu      sync.Mutex
	series  []*series
	pending []func()
}

type series struct {
	next int
	n    int
	fn   func(int) bool
	done bool
}

// NewManualScheduler returns an empty scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Every implements Scheduler.
func (s *ManualScheduler) Every(_ context.Context, _ time.Duration, n int, fn func(tick int) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.series = append(s.series, &series{next: 1, n: n, fn: fn})
}

// After implements Scheduler.
func (s *ManualScheduler) After(_ context.Context, _ time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, fn)
}

// Tick delivers the next tick to every active series and reports how many received one.
func (s *ManualScheduler) Tick() int {
	s.mu.Lock()
	active := make([]*series, 0, len(s.series))
	for _, sr := range s.series {
		if !sr.done {
			active = append(active, sr)
		}
	}
	s.mu.Unlock()

	for _, sr := range active {
		tick := sr.next
		sr.next++
		if !sr.fn(tick) || tick >= sr.n {
			s.mu.Lock()
			sr.done = true
			s.mu.Unlock()
		}
	}
	return len(active)
}

// Flush runs every delayed callback queued so far and reports how many ran.
func (s *ManualScheduler) Flush() int {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
	return len(pending)
}

// RunAll ticks every series to completion and then flushes delayed callbacks
// until nothing is left.
func (s *ManualScheduler) RunAll() {
	for {
		ticked := s.Tick()
		flushed := 0
		if ticked == 0 {
			flushed = s.Flush()
		}
		if ticked == 0 && flushed == 0 {
			return
		}
	}
}

var (
	_ Scheduler = TickerScheduler{}
	_ Scheduler = (*ManualScheduler)(nil)
)

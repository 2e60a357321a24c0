package qualify

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/creativeiyke/agency-platform/internal/leads"
	"github.com/creativeiyke/agency-platform/internal/notify"
	"github.com/creativeiyke/agency-platform/pkg/logging"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu    sync.Mutex
	leads []leads.Lead
	err   error
}

func (s *recordingSink) Dispatch(_ context.Context, lead leads.Lead) (notify.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = append(s.leads, lead)
	if s.err != nil {
		return notify.Receipt{}, s.err
	}
	return notify.Receipt{ID: "receipt-1", Sink: "test", At: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}, nil
}

func (s *recordingSink) dispatched() []leads.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]leads.Lead(nil), s.leads...)
}

type countingAnalyzer struct {
	mu    sync.Mutex
	calls int
	text  string
	err   error
}

func (a *countingAnalyzer) Analyze(_ context.Context, _ string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	return a.text, a.err
}

func (a *countingAnalyzer) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

type recordingObserver struct {
	mu          sync.Mutex
	submissions []string
	dispatches  []string
}

func (o *recordingObserver) ObserveSubmission(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.submissions = append(o.submissions, outcome)
}

func (o *recordingObserver) ObserveDispatch(outcome string, _ float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dispatches = append(o.dispatches, outcome)
}

var errGeneration = errors.New("upstream unavailable")

func testLogger() *logging.Logger {
	return logging.NewWithWriter(io.Discard, "error")
}

type fixture struct {
	widget    *Widget
	analyzer  *countingAnalyzer
	sink      *recordingSink
	scheduler *ManualScheduler
	observer  *recordingObserver
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		analyzer:  &countingAnalyzer{text: "  Recommended stack: Go services on AWS.  "},
		sink:      &recordingSink{},
		scheduler: NewManualScheduler(),
		observer:  &recordingObserver{},
	}
	all := append([]Option{WithScheduler(f.scheduler), WithObserver(f.observer)}, opts...)
	f.widget = NewWidget("session-1", f.analyzer, f.sink, testLogger(), all...)
	return f
}

// toBudgetStep drives the widget from input to step 4 with the standard answers.
func (f *fixture) toBudgetStep(t *testing.T) {
	t.Helper()
	w := f.widget
	require.NoError(t, w.SetQuery("Payment reconciliation platform for SMEs"))
	require.NoError(t, w.RunAnalysis(context.Background()))
	require.NoError(t, w.Unlock())
	require.NoError(t, w.SelectSector("Fintech"))
	require.NoError(t, w.ToggleScope("New MVP"))
	require.NoError(t, w.Next())
	require.NoError(t, w.SetContact("Jane Doe", "jane@acme.com", ""))
	require.NoError(t, w.Next())
	require.Equal(t, StepBudget, w.Snapshot().Step)
}

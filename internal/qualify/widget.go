package qualify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/creativeiyke/agency-platform/internal/leads"
	"github.com/creativeiyke/agency-platform/internal/notify"
	"github.com/creativeiyke/agency-platform/pkg/logging"
)

// Analyzer produces the preliminary project analysis for a query.
type Analyzer interface {
	Analyze(ctx context.Context, query string) (string, error)
}

// AnalyzerFunc adapts a function to Analyzer.
type AnalyzerFunc func(ctx context.Context, query string) (string, error)

// Analyze calls f.
func (f AnalyzerFunc) Analyze(ctx context.Context, query string) (string, error) {
	return f(ctx, query)
}

// Observer receives widget outcomes for metrics.
type Observer interface {
	ObserveSubmission(outcome string)
	ObserveDispatch(outcome string, seconds float64)
}

// DispatchStatus records what happened to the lead once processing reached 100%.
type DispatchStatus struct {
	Status    string    `json:"status"`
	ReceiptID string    `json:"receipt_id,omitempty"`
	Sink      string    `json:"sink,omitempty"`
	Error     string    `json:"error,omitempty"`
	At        time.Time `json:"at"`
}

const (
	DispatchDelivered = "delivered"
	DispatchFailed    = "failed"
)

// maxGuardAttempts bounds how often Submit re-runs the guard when the hidden
// field keeps changing underneath it.
const maxGuardAttempts = 3

// Option configures a Widget.
type Option func(*Widget)

// WithScheduler replaces the real-time scheduler.
func WithScheduler(s Scheduler) Option {
	return func(w *Widget) {
		if s != nil {
			w.scheduler = s
		}
	}
}

// WithGuard sets the submission guard. The default is HoneypotGuard.
func WithGuard(g Guard) Option {
	return func(w *Widget) {
		if g != nil {
			w.guard = g
		}
	}
}

// WithObserver attaches a metrics observer.
func WithObserver(o Observer) Option {
	return func(w *Widget) {
		w.observer = o
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(w *Widget) {
		if now != nil {
			w.now = now
		}
	}
}

// Widget is one prospect's pass through the lead-qualification flow.
// All methods are safe for concurrent use.
type Widget struct {
	id        string
	analyzer  Analyzer
	sink      notify.Sink
	guard     Guard
	scheduler Scheduler
	observer  Observer
	logger    *logging.Logger
	now       func() time.Time

	mu        sync.Mutex
	view      View
	step      Step
	loading   bool
	progress  int
	completed bool
	draft     Draft
	emailHint string
	dispatch  *DispatchStatus
	pending   leads.Lead
	startedAt time.Time
	updatedAt time.Time

	subs    map[int]chan State
	nextSub int
}

// NewWidget creates a widget in the input view.
func NewWidget(id string, analyzer Analyzer, sink notify.Sink, logger *logging.Logger, opts ...Option) *Widget {
	if logger == nil {
		logger = logging.Default()
	}
	w := &Widget{
		id:        id,
		analyzer:  analyzer,
		sink:      sink,
		guard:     HoneypotGuard{},
		scheduler: TickerScheduler{},
		logger:    logger,
		now:       time.Now,
		step:      StepSector,
		subs:      make(map[int]chan State),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.sink == nil {
		w.sink = notify.NewLogSink("", logger)
	}
	w.updatedAt = w.now()
	return w
}

// ID returns the session identifier.
func (w *Widget) ID() string {
	return w.id
}

// SetQuery replaces the project description typed in the input view.
func (w *Widget) SetQuery(query string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.loading {
		return ErrBusy
	}
	if w.view != ViewInput {
		return ErrInvalidTransition
	}
	w.draft.Query = query
	w.changed()
	return nil
}

// RunAnalysis sends the query to the analyzer and moves to the analysis view
// whether or not generation succeeds. A blank query does nothing.
func (w *Widget) RunAnalysis(ctx context.Context) error {
	w.mu.Lock()
	if w.loading {
		w.mu.Unlock()
		return ErrBusy
	}
	if w.view != ViewInput {
		w.mu.Unlock()
		return ErrInvalidTransition
	}
	query := strings.TrimSpace(w.draft.Query)
	if query == "" {
		w.mu.Unlock()
		return nil
	}
	w.loading = true
	w.changed()
	w.mu.Unlock()

	text, err := w.analyze(ctx, query)
	switch {
	case err != nil:
		w.logger.Warn("analysis failed", "session_id", w.id, "error", err)
		text = ErrorText
	case strings.TrimSpace(text) == "":
		text = FallbackText
	default:
		text = strings.TrimSpace(text)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.AIResponse = text
	w.view = ViewAnalysis
	w.loading = false
	w.changed()
	return nil
}

func (w *Widget) analyze(ctx context.Context, query string) (text string, err error) {
	if w.analyzer == nil {
		return "", errors.New("qualify: no analyzer configured")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("qualify: analyzer panic: %v", r)
		}
	}()
	return w.analyzer.Analyze(ctx, query)
}

// Unlock opens the qualification form at the sector step.
func (w *Widget) Unlock() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.view != ViewAnalysis {
		return ErrInvalidTransition
	}
	w.view = ViewUnlock
	w.step = StepSector
	w.startedAt = w.now()
	w.changed()
	return nil
}

// Reset returns from the analysis to the input view, keeping the query.
func (w *Widget) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.view != ViewAnalysis {
		return ErrInvalidTransition
	}
	w.draft.AIResponse = ""
	w.view = ViewInput
	w.changed()
	return nil
}

// Cancel abandons the qualification form and returns to the input view at
// step 1. The draft is emptied except for the query, which stays so the
// prospect can edit and re-run the brief.
func (w *Widget) Cancel() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.view != ViewUnlock {
		return ErrInvalidTransition
	}
	w.draft.clearQualification()
	w.emailHint = ""
	w.step = StepSector
	w.view = ViewInput
	w.changed()
	return nil
}

// NewQuery starts over from a clean draft after a successful submission.
func (w *Widget) NewQuery() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.view != ViewSuccess {
		return ErrInvalidTransition
	}
	w.draft = Draft{}
	w.emailHint = ""
	w.step = StepSector
	w.progress = 0
	w.completed = false
	w.dispatch = nil
	w.pending = leads.Lead{}
	w.startedAt = time.Time{}
	w.view = ViewInput
	w.changed()
	return nil
}

// SelectSector records the sector and advances to the scope step.
func (w *Widget) SelectSector(value string) error {
	sector, err := leads.ParseSector(value)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireStep(StepSector); err != nil {
		return err
	}
	w.draft.Sector = sector
	w.step = StepScope
	w.changed()
	return nil
}

// ToggleScope adds or removes a scope item.
func (w *Widget) ToggleScope(value string) error {
	item, err := leads.ParseScopeItem(value)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireStep(StepScope); err != nil {
		return err
	}
	w.draft.toggleScope(item)
	w.changed()
	return nil
}

// SetContact records the contact fields. The email hint is cleared until the
// next CheckEmail.
func (w *Widget) SetContact(name, email, website string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireStep(StepContact); err != nil {
		return err
	}
	if email != w.draft.Email {
		w.emailHint = ""
	}
	w.draft.Name = name
	w.draft.Email = email
	w.draft.Website = website
	w.changed()
	return nil
}

// CheckEmail evaluates the advisory work-email hint and returns it.
func (w *Widget) CheckEmail() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireStep(StepContact); err != nil {
		return "", err
	}
	w.emailHint = EmailHint(w.draft.Email)
	w.changed()
	return w.emailHint, nil
}

// Next advances one step when the current step's fields are present.
func (w *Widget) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.view != ViewUnlock || w.step >= StepBudget {
		return ErrInvalidTransition
	}
	if !w.stepComplete() {
		return ErrStepIncomplete
	}
	w.step++
	w.changed()
	return nil
}

// Back returns to the previous step, keeping entered data.
func (w *Widget) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.view != ViewUnlock || w.step <= StepSector {
		return ErrInvalidTransition
	}
	w.step--
	w.changed()
	return nil
}

// SelectBudget chooses a preset band and clears any custom amount.
func (w *Widget) SelectBudget(value string) error {
	band, err := leads.ParseBudgetBand(value)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireStep(StepBudget); err != nil {
		return err
	}
	w.draft.Budget = band
	w.draft.CustomBudget = ""
	w.changed()
	return nil
}

// SetCustomBudget records a free-text amount. An empty amount clears the budget.
func (w *Widget) SetCustomBudget(amount string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireStep(StepBudget); err != nil {
		return err
	}
	amount = strings.TrimSpace(amount)
	if amount == "" {
		if w.draft.Budget == leads.CustomBudget {
			w.draft.Budget = ""
		}
		w.draft.CustomBudget = ""
	} else {
		w.draft.Budget = leads.CustomBudget
		w.draft.CustomBudget = amount
	}
	w.changed()
	return nil
}

// SetHoneypot records the hidden field.
func (w *Widget) SetHoneypot(value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.view == ViewProcessing {
		return ErrInvalidTransition
	}
	w.draft.Honeypot = value
	w.updatedAt = w.now()
	return nil
}

// Submit starts processing the finished form. Submissions the guard rejects
// are dropped without a transition or an error. Processing continues after ctx
// is cancelled.
func (w *Widget) Submit(ctx context.Context) error {
	w.mu.Lock()
	if err := w.requireStep(StepBudget); err != nil {
		w.mu.Unlock()
		return err
	}
	if !w.draft.hasBudget() {
		w.mu.Unlock()
		return ErrStepIncomplete
	}

	for attempt := 0; ; attempt++ {
		now := w.now()
		sub := Submission{SessionID: w.id, Honeypot: w.draft.Honeypot, StartedAt: w.startedAt, At: now}
		w.mu.Unlock()

		if err := w.guard.Check(ctx, sub); err != nil {
			if errors.Is(err, ErrRejected) {
				w.logger.Warn("submission rejected", "session_id", w.id)
				w.observeSubmission("rejected")
				return nil
			}
			return fmt.Errorf("qualify: submission guard: %w", err)
		}

		w.mu.Lock()
		// The form may have moved while the guard ran.
		if w.view != ViewUnlock || w.step != StepBudget || !w.draft.hasBudget() {
			w.mu.Unlock()
			return ErrInvalidTransition
		}
		if w.draft.Honeypot == sub.Honeypot {
			w.pending = w.draft.lead(w.id, now)
			break
		}
		if attempt >= maxGuardAttempts-1 {
			w.mu.Unlock()
			return ErrBusy
		}
	}
	w.view = ViewProcessing
	w.progress = 0
	w.completed = false
	w.changed()
	w.mu.Unlock()

	w.observeSubmission("accepted")
	w.logger.Info("submission processing", "session_id", w.id)

	bg := context.WithoutCancel(ctx)
	w.scheduler.Every(bg, TickInterval, TotalTicks, func(tick int) bool {
		return w.onTick(bg, tick)
	})
	return nil
}

func (w *Widget) onTick(ctx context.Context, tick int) bool {
	w.mu.Lock()
	if w.view != ViewProcessing || w.completed {
		w.mu.Unlock()
		return false
	}
	if p := Progress(tick, TotalTicks); p > w.progress {
		w.progress = p
	}
	if w.progress < 100 {
		w.changed()
		w.mu.Unlock()
		return true
	}
	w.completed = true
	lead := w.pending
	w.changed()
	w.mu.Unlock()

	status := w.deliver(ctx, lead)

	w.mu.Lock()
	w.dispatch = &status
	w.changed()
	w.mu.Unlock()

	w.scheduler.After(ctx, SuccessDelay, w.finish)
	return false
}

func (w *Widget) deliver(ctx context.Context, lead leads.Lead) DispatchStatus {
	start := w.now()
	receipt, err := w.sink.Dispatch(ctx, lead)
	elapsed := w.now().Sub(start).Seconds()
	if err != nil {
		w.logger.Error("lead dispatch failed", "session_id", w.id, "error", err)
		w.observeDispatch(DispatchFailed, elapsed)
		return DispatchStatus{Status: DispatchFailed, Error: err.Error(), At: w.now().UTC()}
	}
	w.logger.Info("lead dispatched", "session_id", w.id, "receipt_id", receipt.ID, "sink", receipt.Sink)
	w.observeDispatch(DispatchDelivered, elapsed)
	return DispatchStatus{Status: DispatchDelivered, ReceiptID: receipt.ID, Sink: receipt.Sink, At: receipt.At}
}

func (w *Widget) finish() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.view != ViewProcessing || !w.completed {
		return
	}
	w.view = ViewSuccess
	w.changed()
}

// Busy reports whether an analysis or submission is in flight.
func (w *Widget) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loading || w.view == ViewProcessing
}

// LastActive returns the time of the last change.
func (w *Widget) LastActive() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.updatedAt
}

func (w *Widget) requireStep(step Step) error {
	if w.view != ViewUnlock || w.step != step {
		return ErrInvalidTransition
	}
	return nil
}

func (w *Widget) stepComplete() bool {
	switch w.step {
	case StepSector:
		return w.draft.Sector != ""
	case StepScope:
		return len(w.draft.Scope) > 0
	case StepContact:
		return w.draft.hasContact()
	case StepBudget:
		return w.draft.hasBudget()
	}
	return false
}

func (w *Widget) observeSubmission(outcome string) {
	if w.observer != nil {
		w.observer.ObserveSubmission(outcome)
	}
}

func (w *Widget) observeDispatch(outcome string, seconds float64) {
	if w.observer != nil {
		w.observer.ObserveDispatch(outcome, seconds)
	}
}

// changed stamps the widget and notifies subscribers. Callers hold w.mu.
func (w *Widget) changed() {
	w.updatedAt = w.now()
	if len(w.subs) == 0 {
		return
	}
	st := w.snapshotLocked()
	for _, ch := range w.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- st:
		default:
		}
	}
}

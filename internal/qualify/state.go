package qualify

import (
	"sync"
	"time"
)

// State is an immutable copy of a widget for transport. The honeypot value is
// never exposed.
type State struct {
	SessionID    string          `json:"session_id"`
	View         View            `json:"view"`
	Step         Step            `json:"step"`
	Loading      bool            `json:"loading"`
	Query        string          `json:"query"`
	AIResponse   string          `json:"ai_response,omitempty"`
	Sector       string          `json:"sector,omitempty"`
	Scope        []string        `json:"scope"`
	Name         string          `json:"name,omitempty"`
	Email        string          `json:"email,omitempty"`
	Website      string          `json:"website,omitempty"`
	Budget       string          `json:"budget,omitempty"`
	CustomBudget string          `json:"custom_budget,omitempty"`
	EmailHint    string          `json:"email_hint,omitempty"`
	CanAdvance   bool            `json:"can_advance"`
	Progress     int             `json:"progress"`
	Dispatch     *DispatchStatus `json:"dispatch,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Snapshot returns the current state.
func (w *Widget) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *Widget) snapshotLocked() State {
	scope := make([]string, 0, len(w.draft.Scope))
	for _, item := range w.draft.Scope {
		scope = append(scope, string(item))
	}
	st := State{
		SessionID:    w.id,
		View:         w.view,
		Step:         w.step,
		Loading:      w.loading,
		Query:        w.draft.Query,
		AIResponse:   w.draft.AIResponse,
		Sector:       string(w.draft.Sector),
		Scope:        scope,
		Name:         w.draft.Name,
		Email:        w.draft.Email,
		Website:      w.draft.Website,
		Budget:       w.draft.Budget,
		CustomBudget: w.draft.CustomBudget,
		EmailHint:    w.emailHint,
		CanAdvance:   w.view == ViewUnlock && w.stepComplete(),
		Progress:     w.progress,
		UpdatedAt:    w.updatedAt.UTC(),
	}
	if w.dispatch != nil {
		d := *w.dispatch
		st.Dispatch = &d
	}
	return st
}

// Subscribe returns a channel that receives the latest state after each
// change. Slow readers only see the most recent state. The returned func
// stops the subscription.
func (w *Widget) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)
	w.mu.Lock()
	id := w.nextSub
	w.nextSub++
	w.subs[id] = ch
	ch <- w.snapshotLocked()
	w.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			w.mu.Lock()
			delete(w.subs, id)
			w.mu.Unlock()
		})
	}
}

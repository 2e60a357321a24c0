package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/creativeiyke/agency-platform/internal/leads"
)

type mockEmailSender struct {
	mu      sync.Mutex
	sent    []EmailMessage
	failOn  string
	callErr error
}

func (m *mockEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.callErr != nil {
		return m.callErr
	}
	if m.failOn != "" && msg.To == m.failOn {
		return errors.New("mock email error")
	}
	m.sent = append(m.sent, msg)
	return nil
}

type countingSink struct {
	mu    sync.Mutex
	leads []leads.Lead
	errs  []error
}

func (s *countingSink) Dispatch(ctx context.Context, lead leads.Lead) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	call := len(s.leads)
	s.leads = append(s.leads, lead)
	if call < len(s.errs) && s.errs[call] != nil {
		return Receipt{}, s.errs[call]
	}
	return Receipt{ID: "r-1", Sink: "test", At: time.Now()}, nil
}

func (s *countingSink) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.leads)
}

func sampleLead() leads.Lead {
	return leads.Lead{
		SessionID:  "sess-1",
		Query:      "I need a high-frequency trading platform",
		AIResponse: "Recommend Cloud Run & Firestore <fast>.",
		Sector:     leads.SectorFintech,
		Scope:      []string{"New MVP"},
		Name:       "Jane Doe",
		Email:      "jane@acme.com",
		Budget:     "£25k-£50k",
		Timestamp:  time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC),
	}
}

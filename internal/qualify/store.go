package qualify

import (
	"context"
	"sync"
	"time"

	"github.com/creativeiyke/agency-platform/internal/notify"
	"github.com/creativeiyke/agency-platform/pkg/logging"
	"github.com/google/uuid"
)

// SessionGauge tracks the number of live sessions.
type SessionGauge interface {
	SetSessions(n int)
}

// StoreConfig holds what every new widget is built from.
type StoreConfig struct {
	Analyzer  Analyzer
	Sink      notify.Sink
	Guard     Guard
	Scheduler Scheduler
	Observer  Observer
	Gauge     SessionGauge
	TTL       time.Duration
	Now       func() time.Time
}

// SessionStore keeps widgets in memory keyed by session ID and evicts idle ones.
type SessionStore struct {
	cfg    StoreConfig
	logger *logging.Logger

	mu       sync.RWMutex
	sessions map[string]*Widget
}

// NewSessionStore creates an empty store.
func NewSessionStore(cfg StoreConfig, logger *logging.Logger) *SessionStore {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &SessionStore{
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[string]*Widget),
	}
}

// Create starts a new session.
func (s *SessionStore) Create() *Widget {
	id := uuid.NewString()
	opts := []Option{WithClock(s.cfg.Now), WithGuard(s.cfg.Guard), WithScheduler(s.cfg.Scheduler)}
	if s.cfg.Observer != nil {
		opts = append(opts, WithObserver(s.cfg.Observer))
	}
	w := NewWidget(id, s.cfg.Analyzer, s.cfg.Sink, s.logger, opts...)

	s.mu.Lock()
	s.sessions[id] = w
	n := len(s.sessions)
	s.mu.Unlock()

	s.report(n)
	return w
}

// Get returns the session or ErrSessionNotFound.
func (s *SessionStore) Get(id string) (*Widget, error) {
	s.mu.RLock()
	w, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return w, nil
}

// Delete removes a session.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()
	s.report(n)
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep evicts sessions idle for longer than the TTL. Busy sessions are kept.
func (s *SessionStore) Sweep() int {
	cutoff := s.cfg.Now().Add(-s.cfg.TTL)

	s.mu.Lock()
	evicted := 0
	for id, w := range s.sessions {
		if w.Busy() || !w.LastActive().Before(cutoff) {
			continue
		}
		delete(s.sessions, id)
		evicted++
	}
	n := len(s.sessions)
	s.mu.Unlock()

	if evicted > 0 {
		s.logger.Info("sessions evicted", "count", evicted, "remaining", n)
		s.report(n)
	}
	return evicted
}

// Run sweeps on every interval until ctx is done.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *SessionStore) report(n int) {
	if s.cfg.Gauge != nil {
		s.cfg.Gauge.SetSessions(n)
	}
}

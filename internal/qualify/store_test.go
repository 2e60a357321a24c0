package qualify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingGauge struct {
	mu   sync.Mutex
	last int
}

func (g *recordingGauge) SetSessions(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last = n
}

func (g *recordingGauge) value() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

func TestSessionStoreCreateGetDelete(t *testing.T) {
	gauge := &recordingGauge{}
	store := NewSessionStore(StoreConfig{Analyzer: &countingAnalyzer{text: "ok"}, Sink: &recordingSink{}, Gauge: gauge}, testLogger())

	w := store.Create()
	require.NotEmpty(t, w.ID())
	assert.Equal(t, 1, gauge.value())

	got, err := store.Get(w.ID())
	require.NoError(t, err)
	assert.Same(t, w, got)

	store.Delete(w.ID())
	_, err = store.Get(w.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Zero(t, gauge.value())
}

func TestSessionStoreSweepEvictsIdle(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	sched := NewManualScheduler()
	store := NewSessionStore(StoreConfig{
		Analyzer:  &countingAnalyzer{text: "ok"},
		Sink:      &recordingSink{},
		Scheduler: sched,
		TTL:       time.Minute,
		Now:       clock,
	}, testLogger())

	idle := store.Create()
	busy := store.Create()
	f := &fixture{widget: busy}
	f.toBudgetStep(t)
	require.NoError(t, busy.SelectBudget("£50k+"))
	require.NoError(t, busy.Submit(context.Background()))

	now = now.Add(30 * time.Second)
	active := store.Create()

	now = now.Add(45 * time.Second)
	assert.Equal(t, 1, store.Sweep())

	_, err := store.Get(idle.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Get(busy.ID())
	assert.NoError(t, err)
	_, err = store.Get(active.ID())
	assert.NoError(t, err)
	assert.Equal(t, 2, store.Len())
}

func TestSessionStoreRunStopsOnCancel(t *testing.T) {
	store := NewSessionStore(StoreConfig{}, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

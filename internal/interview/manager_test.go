package interview

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tenantdesk/internal/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestManagerOpenGetClose(t *testing.T) {
	obs := newCountingObserver()
	m := NewManager(SessionOptions{Tick: time.Hour, Observer: obs}, time.Minute)
	t.Cleanup(m.CloseAll)

	s, err := m.Open("abc", sampleInterview("2030-01-01"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	got, err := m.Get(s.ID())
	if err != nil || got != s {
		t.Fatalf("expected to find the opened session, got %v", err)
	}
	if err := s.Start(context.Background(), granted); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := m.Close(s.ID()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if s.Snapshot().CaptureActive {
		t.Fatalf("closing through the manager must release capture")
	}
	if _, err := m.Get(s.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := m.Close(s.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on second close, got %v", err)
	}
	if obs.opened != 1 || obs.closed != 1 {
		t.Fatalf("unexpected open/close counts %d/%d", obs.opened, obs.closed)
	}
}

func TestManagerRejectsInterviewWithoutQuestions(t *testing.T) {
	m := NewManager(SessionOptions{}, time.Minute)

	if _, err := m.Open("abc", domain.Interview{Title: "empty"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if m.Len() != 0 {
		t.Fatalf("no session should be registered")
	}
}

func TestManagerSweepsIdleSessions(t *testing.T) {
	clock := &fakeClock{now: fixedNow}
	m := NewManager(SessionOptions{Tick: time.Hour, Now: clock.Now}, 10*time.Minute)
	t.Cleanup(m.CloseAll)

	stale, _ := m.Open("abc", sampleInterview("2030-01-01"))
	clock.Advance(8 * time.Minute)
	fresh, _ := m.Open("abc", sampleInterview("2030-01-01"))
	clock.Advance(5 * time.Minute)

	if n := m.Sweep(); n != 1 {
		t.Fatalf("expected one swept session, got %d", n)
	}
	if _, err := m.Get(stale.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("stale session should be gone, got %v", err)
	}
	if _, err := m.Get(fresh.ID()); err != nil {
		t.Fatalf("fresh session should survive: %v", err)
	}

	fresh.ToggleMic()
	clock.Advance(9 * time.Minute)
	if n := m.Sweep(); n != 0 {
		t.Fatalf("recently used session must not be swept, swept %d", n)
	}
}

func TestManagerKeepsRecordingSessions(t *testing.T) {
	clock := &fakeClock{now: fixedNow}
	m := NewManager(SessionOptions{Tick: time.Hour, Now: clock.Now}, time.Minute)
	t.Cleanup(m.CloseAll)

	in := sampleInterview("2030-01-01")
	in.Questions = []domain.Question{{Question: "Tell us about yourself", TimeLimit: 120, Category: "General Introduction"}}
	s, err := m.Open("abc", in)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Start(context.Background(), granted); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !s.StartRecording() {
		t.Fatalf("expected recording to start")
	}

	clock.Advance(90 * time.Second)
	if n := m.Sweep(); n != 0 {
		t.Fatalf("a running recording must not be swept, swept %d", n)
	}
	if snap := s.Snapshot(); snap.State != StateRecording || !snap.CaptureActive {
		t.Fatalf("recording should be untouched: %+v", snap)
	}

	s.StopRecording()
	clock.Advance(90 * time.Second)
	if n := m.Sweep(); n != 1 {
		t.Fatalf("expected the session to be swept once recording stopped, swept %d", n)
	}
}

func TestManagerCloseAll(t *testing.T) {
	m := NewManager(SessionOptions{Tick: time.Hour}, time.Minute)
	if err := m.StartSweeper(time.Hour); err != nil {
		t.Fatalf("start sweeper: %v", err)
	}

	var sessions []*Session
	for i := 0; i < 3; i++ {
		s, err := m.Open("abc", sampleInterview("2030-01-01"))
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		if err := s.Start(context.Background(), granted); err != nil {
			t.Fatalf("start: %v", err)
		}
		s.StartRecording()
		sessions = append(sessions, s)
	}

	m.CloseAll()

	if m.Len() != 0 {
		t.Fatalf("expected no sessions after CloseAll, got %d", m.Len())
	}
	for _, s := range sessions {
		if s.Snapshot().CaptureActive || s.StartRecording() {
			t.Fatalf("session %s not torn down", s.ID())
		}
	}
}

package interview

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jasonlvhit/gocron"

	"tenantdesk/internal/domain"
)

var ErrSessionNotFound = errors.New("session not found")

// Manager owns the live sessions, keyed by a random UUID.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	opts    SessionOptions
	idleTTL time.Duration

	scheduler *gocron.Scheduler
	stopSweep chan bool
}

func NewManager(opts SessionOptions, idleTTL time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		opts:     opts.withDefaults(),
		idleTTL:  idleTTL,
	}
}

// Open starts a not-yet-captured session for a loaded interview.
func (m *Manager) Open(interviewID string, in domain.Interview) (*Session, error) {
	if len(in.Questions) == 0 {
		return nil, fmt.Errorf("%s has no questions: %w", interviewID, ErrNotFound)
	}

	id := uuid.NewString()
	s := NewSession(id, interviewID, in.Questions, m.opts)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.opts.Observer.SessionOpened()
	m.opts.Logger.Info("session opened", "session_id", id, "interview_id", interviewID)
	return s, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	return s, nil
}

// Close tears the session down and forgets it.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	s.Close()
	m.opts.Observer.SessionClosed()
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep closes sessions untouched for longer than the idle TTL and returns
// how many it removed. Sessions with a recording in progress are kept.
func (m *Manager) Sweep() int {
	if m.idleTTL <= 0 {
		return 0
	}
	cutoff := m.opts.Now().Add(-m.idleTTL)

	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		if s.sweepable(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.Close()
		m.opts.Observer.SessionClosed()
	}
	if len(stale) > 0 {
		m.opts.Logger.Info("idle sessions swept", "count", len(stale))
	}
	return len(stale)
}

// StartSweeper runs Sweep on a gocron schedule until CloseAll.
func (m *Manager) StartSweeper(interval time.Duration) error {
	secs := uint64(interval / time.Second)
	if secs == 0 {
		secs = 1
	}

	sched := gocron.NewScheduler()
	if err := sched.Every(secs).Seconds().Do(m.sweepJob); err != nil {
		return fmt.Errorf("schedule session sweep: %w", err)
	}

	m.mu.Lock()
	m.scheduler = sched
	m.stopSweep = sched.Start()
	m.mu.Unlock()
	return nil
}

func (m *Manager) sweepJob() {
	m.Sweep()
}

// CloseAll stops the sweeper and closes every session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	if m.scheduler != nil {
		m.scheduler.Clear()
		close(m.stopSweep)
		m.scheduler = nil
	}
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
		m.opts.Observer.SessionClosed()
	}
}

package interview

import "time"

// Ticker drives a recording countdown. Tests substitute a channel they
// control.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type TickerFactory func(d time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// runCountdown forwards ticks for one recording generation until done is
// closed or the session reports the recording is over.
func (s *Session) runCountdown(gen uint64, ticker Ticker, done <-chan struct{}) {
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C():
			if !s.countdownTick(gen) {
				return
			}
		}
	}
}

func (s *Session) countdownTick(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen != s.generation || s.state != StateRecording {
		return false
	}
	s.touchLocked()
	return s.tickLocked()
}

// tickLocked moves the countdown one step. Reaching zero stops the recording
// through the same transition as a manual stop.
func (s *Session) tickLocked() bool {
	if s.timeLeft > 1 {
		s.timeLeft--
		return true
	}
	s.timeLeft = 0
	s.stopLocked(StopReasonTimeout)
	return false
}

func (s *Session) startCountdownLocked() {
	s.generation++
	done := make(chan struct{})
	s.countdownDone = done
	go s.runCountdown(s.generation, s.newTicker(s.tickEvery), done)
}

func (s *Session) haltCountdownLocked() {
	if s.countdownDone == nil {
		return
	}
	close(s.countdownDone)
	s.countdownDone = nil
}

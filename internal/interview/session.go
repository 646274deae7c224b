// Package interview runs the timed video-answer flow: interview definitions,
// per-tenant recording sessions and the manager that owns them.
package interview

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"tenantdesk/internal/capture"
	"tenantdesk/internal/domain"
)

var (
	ErrNoAnswer      = errors.New("current question has no recorded answer")
	ErrCompleted     = errors.New("interview already completed")
	ErrNotCompleted  = errors.New("interview not completed")
	ErrSessionClosed = errors.New("session closed")
)

type State string

const (
	StateNotStarted State = "not_started"
	StateIdle       State = "idle"
	StateRecording  State = "recording"
	StateAnswered   State = "answered"
	StateCompleted  State = "completed"
)

const (
	StopReasonManual  = "manual"
	StopReasonTimeout = "timeout"
)

const artifactMIMEType = "video/webm"

// Artifact is one recorded answer.
type Artifact struct {
	QuestionIndex int       `json:"questionIndex"`
	MIMEType      string    `json:"mimeType"`
	Size          int       `json:"size"`
	Data          []byte    `json:"-"`
	RecordedAt    time.Time `json:"recordedAt"`
}

type Submission struct {
	SessionID   string    `json:"sessionId"`
	Answers     int       `json:"answers"`
	Attempt     int       `json:"attempt"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type Snapshot struct {
	ID            string           `json:"id"`
	InterviewID   string           `json:"interviewId"`
	State         State            `json:"state"`
	QuestionIndex int              `json:"questionIndex"`
	QuestionCount int              `json:"questionCount"`
	Question      *domain.Question `json:"question,omitempty"`
	TimeLeft      int              `json:"timeLeft"`
	Answered      int              `json:"answered"`
	Progress      float64          `json:"progress"`
	CaptureActive bool             `json:"captureActive"`
	CameraEnabled bool             `json:"cameraEnabled"`
	MicEnabled    bool             `json:"micEnabled"`
	Submissions   int              `json:"submissions"`
}

// Observer receives lifecycle events. *metrics.Recorder satisfies it.
type Observer interface {
	SessionOpened()
	SessionClosed()
	RecordingStopped(reason string)
	AnswerDiscarded()
	Completed()
	Submitted()
	InterviewLoaded(outcome string)
}

type nopObserver struct{}

func (nopObserver) SessionOpened()          {}
func (nopObserver) SessionClosed()          {}
func (nopObserver) RecordingStopped(string) {}
func (nopObserver) AnswerDiscarded()        {}
func (nopObserver) Completed()              {}
func (nopObserver) Submitted()              {}
func (nopObserver) InterviewLoaded(string)  {}

type SessionOptions struct {
	// Tick is the countdown resolution. One tick is one second of answer time.
	Tick      time.Duration
	Now       func() time.Time
	Observer  Observer
	Logger    *slog.Logger
	NewTicker TickerFactory
}

func (o SessionOptions) withDefaults() SessionOptions {
	if o.Tick <= 0 {
		o.Tick = time.Second
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Observer == nil {
		o.Observer = nopObserver{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.NewTicker == nil {
		o.NewTicker = newTimeTicker
	}
	return o
}

// Session is one tenant answering one interview. Every method takes the
// session lock, so transitions never interleave with a countdown tick.
type Session struct {
	mu sync.Mutex

	id          string
	interviewID string
	questions   []domain.Question
	capture     *capture.Controller

	state    State
	index    int
	answers  []Artifact
	chunks   bytes.Buffer
	timeLeft int

	generation    uint64
	countdownDone chan struct{}
	lastStop      string

	submissions int
	closed      bool
	lastActive  time.Time

	tickEvery time.Duration
	now       func() time.Time
	newTicker TickerFactory
	observer  Observer
	logger    *slog.Logger
}

func NewSession(id, interviewID string, questions []domain.Question, opts SessionOptions) *Session {
	opts = opts.withDefaults()
	s := &Session{
		id:          id,
		interviewID: interviewID,
		questions:   append([]domain.Question(nil), questions...),
		capture:     capture.NewController(),
		state:       StateNotStarted,
		tickEvery:   opts.Tick,
		now:         opts.Now,
		newTicker:   opts.NewTicker,
		observer:    opts.Observer,
		logger:      opts.Logger.With("session_id", id, "interview_id", interviewID),
	}
	s.lastActive = s.now()
	return s
}

func (s *Session) ID() string {
	return s.id
}

// Start acquires the capture stream. The lock is held while devices answer,
// so no other transition can run during the permission prompt. A denial
// leaves the session not started.
func (s *Session) Start(ctx context.Context, devices capture.Devices) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	s.touchLocked()
	if s.state != StateNotStarted {
		return nil
	}

	if err := s.capture.Start(ctx, devices); err != nil {
		s.logger.Warn("capture start failed", "error", err)
		return err
	}
	s.state = StateIdle
	s.logger.Info("capture started", "camera", s.capture.CameraEnabled(), "mic", s.capture.MicEnabled())
	return nil
}

func (s *Session) ToggleCamera() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touchLocked()
	if s.closed {
		return s.capture.CameraEnabled()
	}
	return s.capture.ToggleCamera()
}

func (s *Session) ToggleMic() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touchLocked()
	if s.closed {
		return s.capture.MicEnabled()
	}
	return s.capture.ToggleMic()
}

// StartRecording begins an answer for the current question. It reports false
// without changing anything when capture is inactive, a recording is already
// running or the question is answered.
func (s *Session) StartRecording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touchLocked()
	if s.closed || !s.capture.Active() || s.state != StateIdle {
		return false
	}
	if s.index >= len(s.questions) || len(s.answers) > s.index {
		return false
	}

	s.chunks.Reset()
	s.timeLeft = s.questions[s.index].TimeLimit
	s.state = StateRecording
	s.lastStop = ""
	s.startCountdownLocked()
	s.logger.Info("recording started", "question", s.index, "time_limit", s.timeLeft)
	return true
}

// AppendChunk adds recorded media to the running answer. After a timeout
// stop the browser still flushes its final chunk, so chunks keep landing in
// the just-finalized answer until the tenant moves on. Empty chunks and
// chunks arriving at any other time are dropped.
func (s *Session) AppendChunk(data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touchLocked()
	if s.closed || len(data) == 0 {
		return false
	}

	switch {
	case s.state == StateRecording:
		s.chunks.Write(data)
		return true
	case s.acceptsLateChunkLocked():
		a := &s.answers[s.index]
		a.Data = append(a.Data, data...)
		a.Size = len(a.Data)
		return true
	}
	return false
}

func (s *Session) acceptsLateChunkLocked() bool {
	return s.state == StateAnswered && s.lastStop == StopReasonTimeout && len(s.answers) > s.index
}

// StopRecording finalizes the running answer. Calling it when nothing is
// recording is a no-op.
func (s *Session) StopRecording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touchLocked()
	if s.closed {
		return false
	}
	return s.stopLocked(StopReasonManual)
}

func (s *Session) stopLocked(reason string) bool {
	if s.state != StateRecording {
		return false
	}
	s.haltCountdownLocked()

	data := append([]byte(nil), s.chunks.Bytes()...)
	s.chunks.Reset()
	s.answers = append(s.answers, Artifact{
		QuestionIndex: s.index,
		MIMEType:      artifactMIMEType,
		Size:          len(data),
		Data:          data,
		RecordedAt:    s.now(),
	})
	s.state = StateAnswered
	s.lastStop = reason

	s.observer.RecordingStopped(reason)
	s.logger.Info("recording stopped", "question", s.index, "reason", reason, "bytes", len(data))
	return true
}

// Retake discards the answer for the current question, including one still
// being recorded, and resets the countdown display.
func (s *Session) Retake() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touchLocked()
	if s.closed || s.state == StateNotStarted || s.state == StateCompleted {
		return false
	}

	s.haltCountdownLocked()
	s.chunks.Reset()
	s.timeLeft = 0
	s.lastStop = ""

	discarded := false
	if len(s.answers) > s.index {
		s.answers = append(s.answers[:s.index], s.answers[s.index+1:]...)
		discarded = true
		s.observer.AnswerDiscarded()
	}
	s.state = StateIdle
	s.logger.Info("retake", "question", s.index, "discarded", discarded)
	return true
}

// Advance moves to the next question once the current one has an answer.
// Past the last question the session completes.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touchLocked()
	switch {
	case s.closed:
		return ErrSessionClosed
	case s.state == StateCompleted:
		return ErrCompleted
	case s.state == StateRecording || len(s.answers) <= s.index:
		return ErrNoAnswer
	}

	s.lastStop = ""
	if s.index < len(s.questions)-1 {
		s.index++
		s.timeLeft = 0
		s.state = StateIdle
		return nil
	}

	s.state = StateCompleted
	s.timeLeft = 0
	s.observer.Completed()
	s.logger.Info("interview completed", "answers", len(s.answers))
	return nil
}

// Submit hands the completed answers off. Each call counts as a new attempt.
func (s *Session) Submit() (Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touchLocked()
	if s.closed {
		return Submission{}, ErrSessionClosed
	}
	if s.state != StateCompleted {
		return Submission{}, ErrNotCompleted
	}

	s.submissions++
	sub := Submission{
		SessionID:   s.id,
		Answers:     len(s.answers),
		Attempt:     s.submissions,
		SubmittedAt: s.now(),
	}
	s.observer.Submitted()
	s.logger.Info("submitting interview", "videos", sub.Answers, "attempt", sub.Attempt)
	return sub, nil
}

// Answers returns copies of the recorded artifacts in question order.
func (s *Session) Answers() []Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Artifact, len(s.answers))
	for i, a := range s.answers {
		a.Data = append([]byte(nil), a.Data...)
		out[i] = a
	}
	return out
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:            s.id,
		InterviewID:   s.interviewID,
		State:         s.state,
		QuestionIndex: s.index,
		QuestionCount: len(s.questions),
		TimeLeft:      s.timeLeft,
		Answered:      len(s.answers),
		CaptureActive: s.capture.Active(),
		CameraEnabled: s.capture.CameraEnabled(),
		MicEnabled:    s.capture.MicEnabled(),
		Submissions:   s.submissions,
	}
	if len(s.questions) > 0 {
		q := s.questions[s.index]
		snap.Question = &q
		snap.Progress = float64(s.index+1) / float64(len(s.questions)) * 100
	}
	return snap
}

// Close halts the countdown and releases every capture track. It is safe to
// call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.haltCountdownLocked()
	s.capture.Close()
	s.chunks.Reset()
	if s.state == StateRecording {
		s.state = StateIdle
		s.timeLeft = 0
	}
	s.closed = true
	s.logger.Info("session closed", "state", s.state, "answers", len(s.answers))
}

// sweepable reports whether the last call into the session, or the last
// countdown tick, came before cutoff. A running recording is never idle.
func (s *Session) sweepable(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != StateRecording && s.lastActive.Before(cutoff)
}

func (s *Session) touchLocked() {
	s.lastActive = s.now()
}

package capture

import (
	"context"
	"fmt"
	"sync/atomic"
)

// LocalTrack is an in-process track handle.
type LocalTrack struct {
	kind    Kind
	enabled atomic.Bool
	stopped atomic.Bool
}

func NewLocalTrack(kind Kind) *LocalTrack {
	t := &LocalTrack{kind: kind}
	t.enabled.Store(true)
	return t
}

func (t *LocalTrack) Kind() Kind              { return t.kind }
func (t *LocalTrack) Enabled() bool           { return t.enabled.Load() }
func (t *LocalTrack) SetEnabled(enabled bool) { t.enabled.Store(enabled) }
func (t *LocalTrack) Stop()                   { t.stopped.Store(true) }
func (t *LocalTrack) Stopped() bool           { return t.stopped.Load() }

type LocalStream struct {
	tracks []Track
}

func NewLocalStream(tracks ...Track) *LocalStream {
	return &LocalStream{tracks: tracks}
}

func (s *LocalStream) Tracks() []Track {
	return s.tracks
}

// Report is the outcome of a browser-side permission prompt. The browser owns
// the hardware; the service only mirrors what it was granted.
type Report struct {
	Granted bool   `json:"granted"`
	Video   bool   `json:"video"`
	Audio   bool   `json:"audio"`
	Reason  string `json:"reason,omitempty"`
}

func (r Report) Acquire(ctx context.Context, c Constraints) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !r.Granted {
		reason := r.Reason
		if reason == "" {
			reason = "permission prompt dismissed"
		}
		return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, reason)
	}

	var tracks []Track
	if c.Video && r.Video {
		tracks = append(tracks, NewLocalTrack(KindVideo))
	}
	if c.Audio && r.Audio {
		tracks = append(tracks, NewLocalTrack(KindAudio))
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: no camera or microphone track granted", ErrPermissionDenied)
	}
	return NewLocalStream(tracks...), nil
}

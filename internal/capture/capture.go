// Package capture owns camera and microphone acquisition for an interview.
package capture

import (
	"context"
	"errors"
	"fmt"
)

var ErrPermissionDenied = errors.New("camera or microphone access denied")

type Kind string

const (
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
)

type Constraints struct {
	Video bool
	Audio bool
}

type Track interface {
	Kind() Kind
	Enabled() bool
	SetEnabled(enabled bool)
	Stop()
}

type Stream interface {
	Tracks() []Track
}

// Devices acquires a stream. Acquire may block until the user answers the
// permission prompt; only ctx bounds the wait.
type Devices interface {
	Acquire(ctx context.Context, c Constraints) (Stream, error)
}

// Controller holds at most one acquired stream. It is not safe for
// concurrent use; the owning session serializes access.
type Controller struct {
	stream        Stream
	cameraEnabled bool
	micEnabled    bool
}

func NewController() *Controller {
	return &Controller{cameraEnabled: true, micEnabled: true}
}

// Start acquires a stream using the current camera and microphone toggles.
// On failure the controller stays inactive and nothing is retried.
func (c *Controller) Start(ctx context.Context, devices Devices) error {
	if c.stream != nil {
		return nil
	}
	if devices == nil {
		return fmt.Errorf("no capture devices: %w", ErrPermissionDenied)
	}

	stream, err := devices.Acquire(ctx, Constraints{Video: c.cameraEnabled, Audio: c.micEnabled})
	if err != nil {
		return fmt.Errorf("acquire capture stream: %w", err)
	}
	c.stream = stream
	return nil
}

func (c *Controller) Active() bool {
	return c.stream != nil
}

func (c *Controller) CameraEnabled() bool {
	return c.cameraEnabled
}

func (c *Controller) MicEnabled() bool {
	return c.micEnabled
}

// ToggleCamera flips the camera. Before Start it only changes what will be
// requested; afterwards it flips the video track on the existing stream and
// is a no-op when the stream has no video track.
func (c *Controller) ToggleCamera() bool {
	c.cameraEnabled = c.toggle(KindVideo, c.cameraEnabled)
	return c.cameraEnabled
}

func (c *Controller) ToggleMic() bool {
	c.micEnabled = c.toggle(KindAudio, c.micEnabled)
	return c.micEnabled
}

func (c *Controller) toggle(kind Kind, current bool) bool {
	if c.stream == nil {
		return !current
	}

	track := firstTrack(c.stream, kind)
	if track == nil {
		return current
	}
	track.SetEnabled(!current)
	return !current
}

// Close stops every track of the acquired stream. It is safe to call more
// than once.
func (c *Controller) Close() {
	if c.stream == nil {
		return
	}
	for _, track := range c.stream.Tracks() {
		track.Stop()
	}
	c.stream = nil
}

func firstTrack(stream Stream, kind Kind) Track {
	for _, track := range stream.Tracks() {
		if track.Kind() == kind {
			return track
		}
	}
	return nil
}

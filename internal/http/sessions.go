package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"tenantdesk/internal/capture"
	"tenantdesk/internal/interview"
)

const (
	deniedTitle   = "Camera Access Denied"
	deniedMessage = "Please allow camera and microphone access to continue with the interview."
	submitMessage = "Thank you! Your video interview has been submitted successfully."
)

func (a *API) lookupSession(c *gin.Context) (*interview.Session, bool) {
	s, err := a.sessions.Get(c.Param("sid"))
	if err != nil {
		respondMessage(c, http.StatusNotFound, "session not found")
		return nil, false
	}
	return s, true
}

func (a *API) handleGetSession(c *gin.Context) {
	s, ok := a.lookupSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": s.Snapshot()})
}

func (a *API) handleCloseSession(c *gin.Context) {
	if err := a.sessions.Close(c.Param("sid")); err != nil {
		respondMessage(c, http.StatusNotFound, "session not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// handleStartCapture applies the browser's permission outcome. An empty body
// counts as a full grant.
func (a *API) handleStartCapture(c *gin.Context) {
	s, ok := a.lookupSession(c)
	if !ok {
		return
	}

	report := capture.Report{Granted: true, Video: true, Audio: true}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&report); err != nil && !errors.Is(err, io.EOF) {
			respondMessage(c, http.StatusBadRequest, "invalid payload")
			return
		}
	}

	if err := s.Start(c.Request.Context(), report); err != nil {
		if errors.Is(err, capture.ErrPermissionDenied) {
			c.JSON(http.StatusForbidden, gin.H{"error": deniedTitle, "message": deniedMessage, "session": s.Snapshot()})
			return
		}
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": s.Snapshot()})
}

func (a *API) handleToggleCamera(c *gin.Context) {
	s, ok := a.lookupSession(c)
	if !ok {
		return
	}
	enabled := s.ToggleCamera()
	c.JSON(http.StatusOK, gin.H{"enabled": enabled, "session": s.Snapshot()})
}

func (a *API) handleToggleMic(c *gin.Context) {
	s, ok := a.lookupSession(c)
	if !ok {
		return
	}
	enabled := s.ToggleMic()
	c.JSON(http.StatusOK, gin.H{"enabled": enabled, "session": s.Snapshot()})
}

func (a *API) handleStartRecording(c *gin.Context) {
	s, ok := a.lookupSession(c)
	if !ok {
		return
	}
	started := s.StartRecording()
	c.JSON(http.StatusOK, gin.H{"started": started, "session": s.Snapshot()})
}

func (a *API) handleStopRecording(c *gin.Context) {
	s, ok := a.lookupSession(c)
	if !ok {
		return
	}
	stopped := s.StopRecording()
	c.JSON(http.StatusOK, gin.H{"stopped": stopped, "session": s.Snapshot()})
}

func (a *API) handleAppendChunk(c *gin.Context) {
	s, ok := a.lookupSession(c)
	if !ok {
		return
	}

	data, contentType, err := a.files.ReadChunk(c.Request.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondMessage(c, http.StatusRequestEntityTooLarge, "chunk too large")
			return
		}
		respondDomainError(c, err)
		return
	}

	accepted := s.AppendChunk(data)
	c.JSON(http.StatusAccepted, gin.H{"accepted": accepted, "bytes": len(data), "contentType": contentType})
}

func (a *API) handleRetake(c *gin.Context) {
	s, ok := a.lookupSession(c)
	if !ok {
		return
	}
	applied := s.Retake()
	c.JSON(http.StatusOK, gin.H{"applied": applied, "session": s.Snapshot()})
}

func (a *API) handleAdvance(c *gin.Context) {
	s, ok := a.lookupSession(c)
	if !ok {
		return
	}
	if err := s.Advance(); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": s.Snapshot()})
}

func (a *API) handleSubmit(c *gin.Context) {
	s, ok := a.lookupSession(c)
	if !ok {
		return
	}

	sub, err := s.Submit()
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submission": sub, "message": submitMessage})
}

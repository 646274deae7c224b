package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tenantdesk/internal/domain"
	"tenantdesk/internal/interview"
)

func (a *API) handleCreateInterview(c *gin.Context) {
	var payload domain.Interview
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid payload")
		return
	}

	created, err := a.defs.Create(payload)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (a *API) handleGetInterview(c *gin.Context) {
	in, err := a.defs.Load(c.Param("id"))
	if err != nil {
		respondInterviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"interview": in})
}

func (a *API) handleOpenSession(c *gin.Context) {
	interviewID := c.Param("id")
	in, err := a.defs.Load(interviewID)
	if err != nil {
		respondInterviewError(c, err)
		return
	}

	s, err := a.sessions.Open(interviewID, in)
	if err != nil {
		respondInterviewError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session": s.Snapshot(), "interview": in})
}

func respondInterviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, interview.ErrExpired):
		c.JSON(http.StatusGone, gin.H{"error": "expired"})
	case errors.Is(err, interview.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		respondError(c, http.StatusInternalServerError, err)
	}
}

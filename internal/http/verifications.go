package http

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"tenantdesk/internal/domain"
)

const pdfFailedMessage = "Failed to generate PDF. Please try again."

func (a *API) handleCreateVerification(c *gin.Context) {
	var v domain.TenantVerification
	if err := c.ShouldBindJSON(&v); err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid payload")
		return
	}

	shared, err := a.reports.Create(v)
	if err != nil {
		if statusFor(err) == http.StatusUnprocessableEntity {
			respondDomainError(c, err)
			return
		}
		respondMessage(c, http.StatusInternalServerError, pdfFailedMessage)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"report":    shared.Report,
		"url":       shared.URL,
		"expiresAt": shared.ExpiresAt,
		"message":   fmt.Sprintf("Report saved as %s", shared.Report.FileName),
	})
}

func (a *API) handleDownloadVerification(c *gin.Context) {
	var v domain.TenantVerification
	if err := c.ShouldBindJSON(&v); err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid payload")
		return
	}

	var buf bytes.Buffer
	name, err := a.reports.Stream(&buf, v)
	if err != nil {
		if statusFor(err) == http.StatusUnprocessableEntity {
			respondDomainError(c, err)
			return
		}
		respondMessage(c, http.StatusInternalServerError, pdfFailedMessage)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tenantdesk/internal/capture"
	"tenantdesk/internal/domain"
	"tenantdesk/internal/interview"
	"tenantdesk/internal/matching"
	"tenantdesk/internal/metrics"
	"tenantdesk/internal/services"
	"tenantdesk/internal/storage"
)

type APIDeps struct {
	Files       *storage.FileManager
	Definitions *interview.Definitions
	Sessions    *interview.Manager
	Search      *matching.Searcher
	Reports     *services.ReportService
	Share       *services.ShareService
	Metrics     *metrics.Recorder
	Logger      *slog.Logger
}

type API struct {
	files    *storage.FileManager
	defs     *interview.Definitions
	sessions *interview.Manager
	search   *matching.Searcher
	reports  *services.ReportService
	share    *services.ShareService
	metrics  *metrics.Recorder
	logger   *slog.Logger
}

func NewAPI(d APIDeps) *API {
	return &API{
		files:    d.Files,
		defs:     d.Definitions,
		sessions: d.Sessions,
		search:   d.Search,
		reports:  d.Reports,
		share:    d.Share,
		metrics:  d.Metrics,
		logger:   d.Logger,
	}
}

func registerRoutes(r *gin.Engine, api *API) {
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", api.handleHealth)

		apiGroup.POST("/interviews", api.handleCreateInterview)
		apiGroup.GET("/interviews/:id", api.handleGetInterview)
		apiGroup.POST("/interviews/:id/sessions", api.handleOpenSession)

		apiGroup.GET("/sessions/:sid", api.handleGetSession)
		apiGroup.DELETE("/sessions/:sid", api.handleCloseSession)
		apiGroup.POST("/sessions/:sid/capture", api.handleStartCapture)
		apiGroup.POST("/sessions/:sid/camera", api.handleToggleCamera)
		apiGroup.POST("/sessions/:sid/microphone", api.handleToggleMic)
		apiGroup.POST("/sessions/:sid/recording/start", api.handleStartRecording)
		apiGroup.POST("/sessions/:sid/recording/stop", api.handleStopRecording)
		apiGroup.POST("/sessions/:sid/chunks", api.handleAppendChunk)
		apiGroup.POST("/sessions/:sid/retake", api.handleRetake)
		apiGroup.POST("/sessions/:sid/advance", api.handleAdvance)
		apiGroup.POST("/sessions/:sid/submit", api.handleSubmit)

		apiGroup.POST("/search/tenants", api.handleMatchTenants)
		apiGroup.POST("/search/tenants/closest", api.handleClosestTenants)
		apiGroup.POST("/search/properties", api.handleRecommendProperties)

		apiGroup.POST("/verifications", api.handleCreateVerification)
		apiGroup.POST("/verifications/download", api.handleDownloadVerification)
	}

	r.GET("/pdf/:id", api.handleServePDF)
	r.GET("/metrics", gin.WrapH(api.metrics.Handler()))
}

func (a *API) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *API) handleServePDF(c *gin.Context) {
	reportID := c.Param("id")
	expiresParam := c.Query("exp")
	signature := c.Query("sig")

	if expiresParam == "" || signature == "" {
		respondMessage(c, http.StatusBadRequest, "missing signature")
		return
	}

	expires, err := strconv.ParseInt(expiresParam, 10, 64)
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid expiration")
		return
	}

	if a.share.Expired(expires) {
		respondMessage(c, http.StatusGone, "link expired")
		return
	}

	if !a.share.Validate(c.Request.URL.Path, expires, signature) {
		respondMessage(c, http.StatusForbidden, "invalid signature")
		return
	}

	report, err := a.reports.Open(reportID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrReportNotFound) {
			status = http.StatusNotFound
		}
		respondMessage(c, status, "report not found")
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.FileAttachment(report.Path, report.FileName)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, capture.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, interview.ErrNotFound), errors.Is(err, interview.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, interview.ErrExpired), errors.Is(err, interview.ErrSessionClosed):
		return http.StatusGone
	case errors.Is(err, interview.ErrNoAnswer), errors.Is(err, interview.ErrCompleted), errors.Is(err, interview.ErrNotCompleted):
		return http.StatusConflict
	case errors.Is(err, storage.ErrChunkTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// respondDomainError writes err with its mapped status. Validation failures
// carry the per-field list.
func respondDomainError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": verr.Fields})
		return
	}
	respondError(c, statusFor(err), err)
}

func respondError(c *gin.Context, status int, err error) {
	respondMessage(c, status, err.Error())
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

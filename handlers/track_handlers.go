package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lensfolio/api/analytics"
	"lensfolio/api/models"
	"lensfolio/api/utils"
)

type EventRecorder interface {
	Record(ctx context.Context, event *models.AnalyticsEvent, clientIP string) error
}

type SummaryReporter interface {
	Summary(ctx context.Context, rangeKey string, kind models.EventKind) (*models.AnalyticsSummary, error)
}

type AnalyticsHandlers struct {
	Recorder EventRecorder
	Reporter SummaryReporter
	log      *zap.Logger
}

func NewAnalyticsHandlers(recorder EventRecorder, reporter SummaryReporter, log *zap.Logger) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		Recorder: recorder,
		Reporter: reporter,
		log:      log,
	}
}

func (h *AnalyticsHandlers) TrackEvent(c *gin.Context) {
	var event models.AnalyticsEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if event.UserAgent == "" {
		event.UserAgent = c.Request.UserAgent()
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	if err := h.Recorder.Record(ctx, &event, c.ClientIP()); err != nil {
		if errors.Is(err, analytics.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: event, page and timestamp"})
			return
		}
		h.log.Error("failed to record analytics event", zap.String("event", string(event.Event)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AnalyticsHandlers) GetSummary(c *gin.Context) {
	rangeKey := c.Query("range")
	kind := models.EventKind(c.Query("event"))
	if rangeKey != "" && !utils.IsValidRange(rangeKey) {
		h.log.Warn("unknown summary range, using default",
			zap.String("range", rangeKey), zap.String("default", utils.DefaultRange))
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	summary, err := h.Reporter.Summary(ctx, rangeKey, kind)
	if err != nil {
		h.log.Error("failed to build analytics summary", zap.String("range", rangeKey), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch analytics"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

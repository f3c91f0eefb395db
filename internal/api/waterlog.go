package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hydromate/backend/internal/service"
	"github.com/hydromate/backend/internal/types"
)

// WaterLogHandler handles water-log requests
type WaterLogHandler struct {
	logs *service.WaterLogService
}

// NewWaterLogHandler creates a new WaterLogHandler instance
func NewWaterLogHandler(logs *service.WaterLogService) *WaterLogHandler {
	return &WaterLogHandler{logs: logs}
}

// LogWater handles POST /water-logs. A failed insert is surfaced as an
// error response; logging a drink must never silently no-op.
func (h *WaterLogHandler) LogWater(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req types.LogWaterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.logs.LogWater(c.Request.Context(), userID, req.Amount)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log water intake"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// TodayLogs handles GET /water-logs/today.
func (h *WaterLogHandler) TodayLogs(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	logs, err := h.logs.TodayLogs(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load water logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// TodayTotal handles GET /water-logs/today/total.
func (h *WaterLogHandler) TodayTotal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	total, err := h.logs.TodayTotalIntake(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute total"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"total_ml": total})
}

// WeeklyStats handles GET /water-logs/weekly.
func (h *WaterLogHandler) WeeklyStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	stats, err := h.logs.WeeklyStats(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load weekly stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

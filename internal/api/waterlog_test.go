package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydromate/backend/internal/models"
	"github.com/hydromate/backend/internal/service"
	"github.com/hydromate/backend/internal/testhelpers"
)

func newWaterLogRouter(t *testing.T, userID uuid.UUID) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.NewTestDB(t)
	handler := NewWaterLogHandler(service.NewWaterLogService(db, time.UTC))

	router := gin.New()
	router.Use(fakeUser(userID))
	router.POST("/water-logs", handler.LogWater)
	router.GET("/water-logs/today", handler.TodayLogs)
	router.GET("/water-logs/today/total", handler.TodayTotal)
	router.GET("/water-logs/weekly", handler.WeeklyStats)
	return router
}

func postWater(t *testing.T, router *gin.Engine, amount int) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/water-logs", strings.NewReader(fmt.Sprintf(`{"amount": %d}`, amount)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestWaterLogHandlerLogWater(t *testing.T) {
	userID := uuid.New()

	t.Run("creates an entry", func(t *testing.T) {
		router := newWaterLogRouter(t, userID)

		w := postWater(t, router, 250)
		require.Equal(t, http.StatusCreated, w.Code)

		var entry models.WaterLog
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
		assert.Equal(t, 250, entry.Amount)
		assert.Equal(t, userID, entry.UserID)
	})

	t.Run("rejects out-of-range amounts", func(t *testing.T) {
		router := newWaterLogRouter(t, userID)

		assert.Equal(t, http.StatusBadRequest, postWater(t, router, 0).Code)
		assert.Equal(t, http.StatusBadRequest, postWater(t, router, -50).Code)
		assert.Equal(t, http.StatusBadRequest, postWater(t, router, 2001).Code)
	})

	t.Run("rejects a missing amount", func(t *testing.T) {
		router := newWaterLogRouter(t, userID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/water-logs", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestWaterLogHandlerTotals(t *testing.T) {
	userID := uuid.New()
	router := newWaterLogRouter(t, userID)

	for _, amount := range []int{250, 500, 250} {
		require.Equal(t, http.StatusCreated, postWater(t, router, amount).Code)
	}

	t.Run("today's total sums the entries", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/water-logs/today/total", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			TotalML int `json:"total_ml"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 1000, body.TotalML)
	})

	t.Run("today's log list has every entry", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/water-logs/today", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Logs []models.WaterLog `json:"logs"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Len(t, body.Logs, 3)
	})

	t.Run("weekly stats cover the entries", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/water-logs/weekly", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var stats service.WeeklyStats
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
		assert.Equal(t, 3, stats.Entries)
		assert.Equal(t, 1000, stats.TotalML)
		assert.Equal(t, 142, stats.AveragePerDay)
	})
}

package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydromate/backend/internal/api"
	"github.com/hydromate/backend/internal/logger"
	"github.com/hydromate/backend/internal/service"
	"github.com/hydromate/backend/internal/testhelpers"
	"github.com/hydromate/backend/internal/types"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.NewTestDB(t)
	log := logger.NewNop()

	authService := service.NewAuthService(db, "test-secret")
	profileService := service.NewProfileService(db)
	weatherService := service.NewWeatherService("", "", nil, log)
	planService := service.NewPlanService(db, nil, weatherService, nil, time.UTC, log)
	waterLogService := service.NewWaterLogService(db, time.UTC)

	handlers := Handlers{
		Auth:     api.NewAuthHandler(authService),
		Profile:  api.NewProfileHandler(profileService),
		Plan:     api.NewPlanHandler(planService, profileService),
		WaterLog: api.NewWaterLogHandler(waterLogService),
		Weather:  api.NewWeatherHandler(weatherService),
	}
	return SetupRouter(handlers, authService, nil)
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestRouter(t *testing.T) {
	t.Run("health endpoint is public", func(t *testing.T) {
		router := newTestRouter(t)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("protected routes require a token", func(t *testing.T) {
		router := newTestRouter(t)
		for _, path := range []string{
			"/api/v1/profile",
			"/api/v1/plans/today",
			"/api/v1/water-logs/today",
			"/api/v1/weather",
		} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		}
	})

	t.Run("register, set up a profile, resolve a plan, log water", func(t *testing.T) {
		router := newTestRouter(t)

		w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register",
			`{"name": "Joana", "email": "joana@example.com", "password": "hunter22"}`, "")
		require.Equal(t, http.StatusCreated, w.Code)

		var auth types.AuthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &auth))
		require.NotEmpty(t, auth.Token)

		// No profile yet: the resolver refuses to guess.
		w = doJSON(t, router, http.MethodPost, "/api/v1/plans/resolve", "", auth.Token)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = doJSON(t, router, http.MethodPut, "/api/v1/profile",
			`{"age": 30, "weight": 70, "gender": "female", "activity_level": "moderate"}`, auth.Token)
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, http.MethodPost, "/api/v1/plans/resolve", "", auth.Token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total_intake_ml":2520`)

		w = doJSON(t, router, http.MethodPost, "/api/v1/water-logs", `{"amount": 250}`, auth.Token)
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(t, router, http.MethodGet, "/api/v1/water-logs/today/total", "", auth.Token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total_ml":250`)
	})
}

package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hydromate/backend/internal/service"
)

// WeatherHandler serves the current weather for the home-screen card.
type WeatherHandler struct {
	weather service.WeatherProvider
}

// NewWeatherHandler creates a new WeatherHandler instance
func NewWeatherHandler(weather service.WeatherProvider) *WeatherHandler {
	return &WeatherHandler{weather: weather}
}

// CurrentWeather handles GET /weather?lat=..&lon=... Always succeeds, with
// the default snapshot when coordinates are absent or the lookup fails.
func (h *WeatherHandler) CurrentWeather(c *gin.Context) {
	var lat, lon *float64
	if v, err := strconv.ParseFloat(c.Query("lat"), 64); err == nil {
		lat = &v
	}
	if v, err := strconv.ParseFloat(c.Query("lon"), 64); err == nil {
		lon = &v
	}

	c.JSON(http.StatusOK, h.weather.Current(c.Request.Context(), lat, lon))
}

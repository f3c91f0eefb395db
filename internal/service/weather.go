package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hydromate/backend/internal/logger"
)

// WeatherSnapshot is a point-in-time weather input to plan generation. It is
// immutable once fetched and only persisted embedded in a plan's suggestions,
// never on its own.
type WeatherSnapshot struct {
	Temperature int    `json:"temperature"`
	Humidity    int    `json:"humidity"`
	Description string `json:"description"`
	City        string `json:"city"`
	FeelsLike   int    `json:"feels_like"`
}

// DefaultWeather is substituted whenever the location or weather lookup
// fails, so callers can treat the weather provider as infallible.
func DefaultWeather() WeatherSnapshot {
	return WeatherSnapshot{
		Temperature: 25,
		Humidity:    50,
		Description: "unknown conditions",
		City:        "Unknown Location",
		FeelsLike:   25,
	}
}

const weatherCacheTTL = 15 * time.Minute

// WeatherService fetches current conditions from the OpenWeather API and
// resolves a city name via its reverse-geocoding endpoint. Snapshots are
// cached in Redis keyed by rounded coordinates.
type WeatherService struct {
	client  *http.Client
	apiKey  string
	baseURL string
	redis   *redis.Client
	logger  *logger.Logger
}

// NewWeatherService creates a new WeatherService. The Redis client is
// optional; without it every call hits the API.
func NewWeatherService(apiKey, baseURL string, redisClient *redis.Client, log *logger.Logger) *WeatherService {
	if baseURL == "" {
		baseURL = "https://api.openweathermap.org"
	}
	return &WeatherService{
		client:  &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: baseURL,
		redis:   redisClient,
		logger:  log,
	}
}

var _ WeatherProvider = (*WeatherService)(nil)

// Current returns the weather snapshot for the given coordinates. Missing
// coordinates, a missing API key or any upstream failure all degrade to the
// default snapshot; this method never fails.
func (s *WeatherService) Current(ctx context.Context, lat, lon *float64) WeatherSnapshot {
	if lat == nil || lon == nil {
		return DefaultWeather()
	}
	if s.apiKey == "" {
		s.logger.Warn("weather lookup skipped, OPENWEATHER_API_KEY not set")
		return DefaultWeather()
	}

	cacheKey := s.cacheKey(*lat, *lon)
	if cached, ok := s.fromCache(ctx, cacheKey); ok {
		return cached
	}

	snapshot, err := s.fetch(ctx, *lat, *lon)
	if err != nil {
		s.logger.Warn("weather lookup failed, using default snapshot", "error", err)
		return DefaultWeather()
	}

	s.toCache(ctx, cacheKey, snapshot)
	return snapshot
}

func (s *WeatherService) fetch(ctx context.Context, lat, lon float64) (WeatherSnapshot, error) {
	endpoint := fmt.Sprintf("%s/data/2.5/weather?lat=%s&lon=%s&appid=%s&units=metric",
		s.baseURL,
		url.QueryEscape(fmt.Sprintf("%f", lat)),
		url.QueryEscape(fmt.Sprintf("%f", lon)),
		url.QueryEscape(s.apiKey),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return WeatherSnapshot{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return WeatherSnapshot{}, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return WeatherSnapshot{}, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var payload struct {
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return WeatherSnapshot{}, fmt.Errorf("failed to decode weather response: %w", err)
	}
	if len(payload.Weather) == 0 {
		return WeatherSnapshot{}, fmt.Errorf("weather response missing conditions")
	}

	return WeatherSnapshot{
		Temperature: int(math.Round(payload.Main.Temp)),
		Humidity:    payload.Main.Humidity,
		Description: payload.Weather[0].Description,
		City:        s.cityName(ctx, lat, lon),
		FeelsLike:   int(math.Round(payload.Main.FeelsLike)),
	}, nil
}

// cityName reverse-geocodes the coordinates. Failures yield the default
// city label rather than an error.
func (s *WeatherService) cityName(ctx context.Context, lat, lon float64) string {
	endpoint := fmt.Sprintf("%s/geo/1.0/reverse?lat=%f&lon=%f&limit=1&appid=%s",
		s.baseURL, lat, lon, url.QueryEscape(s.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "Unknown Location"
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("reverse geocoding failed", "error", err)
		return "Unknown Location"
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "Unknown Location"
	}

	var places []struct {
		Name  string `json:"name"`
		State string `json:"state"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil || len(places) == 0 {
		return "Unknown Location"
	}
	if places[0].Name != "" {
		return places[0].Name
	}
	if places[0].State != "" {
		return places[0].State
	}
	return "Unknown Location"
}

func (s *WeatherService) cacheKey(lat, lon float64) string {
	// Two decimal places keeps neighbouring lookups on the same key (~1km).
	return fmt.Sprintf("weather:%.2f:%.2f", lat, lon)
}

func (s *WeatherService) fromCache(ctx context.Context, key string) (WeatherSnapshot, bool) {
	if s.redis == nil {
		return WeatherSnapshot{}, false
	}
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		return WeatherSnapshot{}, false
	}
	var snapshot WeatherSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return WeatherSnapshot{}, false
	}
	return snapshot, true
}

func (s *WeatherService) toCache(ctx context.Context, key string, snapshot WeatherSnapshot) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, weatherCacheTTL).Err(); err != nil {
		s.logger.Warn("failed to cache weather snapshot", "error", err)
	}
}

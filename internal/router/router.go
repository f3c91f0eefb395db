package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/hydromate/backend/internal/api"
	"github.com/hydromate/backend/internal/middleware"
	"github.com/hydromate/backend/internal/service"
)

// Handlers bundles the API handlers wired into the router.
type Handlers struct {
	Auth     *api.AuthHandler
	Profile  *api.ProfileHandler
	Plan     *api.PlanHandler
	WaterLog *api.WaterLogHandler
	Device   *api.DeviceHandler
	Weather  *api.WeatherHandler
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, authService service.IAuthService, redisClient *redis.Client) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:8081", "http://localhost:19006"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
	}

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authService))
	{
		profile := protected.Group("/profile")
		{
			profile.GET("", h.Profile.GetProfile)
			profile.PUT("", h.Profile.UpsertProfile)
		}

		plans := protected.Group("/plans")
		if redisClient != nil {
			limiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
				Window:    time.Minute,
				Limit:     10,
				KeyPrefix: "ratelimit:plans",
			})
			plans.Use(limiter.RateLimitMiddleware())
		}
		{
			plans.POST("/resolve", h.Plan.ResolvePlan)
			plans.GET("/today", h.Plan.TodayPlan)
		}

		logs := protected.Group("/water-logs")
		{
			logs.POST("", h.WaterLog.LogWater)
			logs.GET("/today", h.WaterLog.TodayLogs)
			logs.GET("/today/total", h.WaterLog.TodayTotal)
			logs.GET("/weekly", h.WaterLog.WeeklyStats)
		}

		if h.Device != nil {
			protected.POST("/devices", h.Device.RegisterDevice)
		}

		protected.GET("/weather", h.Weather.CurrentWeather)
	}

	return router
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hydromate/backend/config"
	"github.com/hydromate/backend/internal/api"
	"github.com/hydromate/backend/internal/database"
	"github.com/hydromate/backend/internal/logger"
	"github.com/hydromate/backend/internal/router"
	"github.com/hydromate/backend/internal/server"
	"github.com/hydromate/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logMode := "development"
	if config.IsProduction() {
		logMode = "production"
	}
	appLogger, err := logger.New(logMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	db, err := database.New(cfg)
	if err != nil {
		appLogger.Fatal("failed to connect to database", "error", err)
	}
	if !config.IsProduction() {
		if err := database.AutoMigrate(db); err != nil {
			appLogger.Fatal("failed to migrate database", "error", err)
		}
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		// The API degrades without Redis: no weather cache, no rate limiter.
		appLogger.Warn("redis unavailable, continuing without cache", "error", err)
		redisClient = nil
	}

	loc := cfg.Location()

	authService := service.NewAuthService(db, cfg.JWTSecret)
	profileService := service.NewProfileService(db)
	waterLogService := service.NewWaterLogService(db, loc)
	weatherService := service.NewWeatherService(cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL, redisClient, appLogger)

	var generator service.PlanGenerator
	if cfg.LLMAPIKey != "" {
		llmService, err := service.NewLLMService(cfg.LLMAPIKey, cfg.LLMAPIURL, cfg.LLMModel)
		if err != nil {
			appLogger.Fatal("failed to initialize LLM service", "error", err)
		}
		generator = llmService
	} else {
		appLogger.Warn("LLM_API_KEY not set, plans will use the fallback calculator")
	}

	var deviceHandler *api.DeviceHandler
	var reminders service.ReminderScheduler
	pushService, err := service.NewPushService(db, cfg.AWSRegion, cfg.SNSPlatformARN, appLogger)
	if err != nil {
		appLogger.Warn("push delivery unavailable, reminders disabled", "error", err)
	} else {
		reminders = service.NewReminderService(pushService, loc, appLogger)
		deviceHandler = api.NewDeviceHandler(pushService)
	}

	planService := service.NewPlanService(db, generator, weatherService, reminders, loc, appLogger)

	handlers := router.Handlers{
		Auth:     api.NewAuthHandler(authService),
		Profile:  api.NewProfileHandler(profileService),
		Plan:     api.NewPlanHandler(planService, profileService),
		WaterLog: api.NewWaterLogHandler(waterLogService),
		Device:   deviceHandler,
		Weather:  api.NewWeatherHandler(weatherService),
	}

	r := router.SetupRouter(handlers, authService, redisClient)
	srv := server.New(r, cfg.ServerHost+":"+cfg.ServerPort)

	errChan := make(chan error, 1)
	go func() {
		appLogger.Info("starting server", "addr", cfg.ServerHost+":"+cfg.ServerPort)
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			appLogger.Fatal("server error", "error", err)
		}
	case sig := <-quit:
		appLogger.Info("received signal, shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal("server shutdown error", "error", err)
	}
	appLogger.Info("server stopped")
}

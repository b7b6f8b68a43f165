package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Digitalbradley/adbrain-legal-sub000/config"
	_ "github.com/Digitalbradley/adbrain-legal-sub000/docs"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/app"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/database"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/handlers"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/middleware"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/pipeline"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/session"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/telemetry"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
)

// @title Feed Check API
// @version 1.0
// @description Upload product feeds, validate them and fix issues interactively.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-Internal-API-Key
func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)
	log.Logger = *logger

	logger.Info().Msg("Starting feedcheck server")

	ctx := context.Background()

	telemetryCfg := telemetry.ConfigFromEnv()
	if cfg.Telemetry.Enabled {
		telemetryCfg = telemetry.Config{
			Enabled:     true,
			Endpoint:    cfg.Telemetry.Endpoint,
			ServiceName: cfg.Telemetry.ServiceName,
			Environment: cfg.Telemetry.Environment,
		}
	}
	shutdownTelemetry, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize telemetry")
	}

	runner, hist, err := app.Runner(ctx, cfg, app.Options{Source: types.SourceAPI})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build feed runner")
	}
	defer database.Close()

	sessionOpts := session.DefaultOptions()
	sessionOpts.Policy = runner.Policy()
	sessionOpts.Debounce = cfg.Validation.Debounce
	sessionOpts.Metrics = pipeline.NewMetricsRecorder()
	if cfg.Server.MaxSessions > 0 {
		sessionOpts.MaxFeeds = cfg.Server.MaxSessions
	}
	sessions := session.NewManager(sessionOpts)

	handlers.Init(handlers.Deps{
		Runner:                   runner,
		Sessions:                 sessions,
		History:                  hist,
		MaxConcurrentValidations: cfg.Merchant.MaxConcurrent,
		MaxUploadBytes:           cfg.Server.MaxUploadBytes,
	})

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(cfg, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	sessions.CloseAll()
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Failed to flush telemetry")
	}

	logger.Info().Msg("Server exited")
}

// newRouter mounts the public endpoints and the authenticated /api group
func newRouter(cfg *config.Config, logger *zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	api.Use(middleware.InternalAuthMiddleware(cfg.Server.APIKey))
	api.Use(middleware.ServiceRateLimitMiddleware(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	handlers.RegisterRoutes(api)

	return router
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "feedcheck").Logger()
	return &logger
}

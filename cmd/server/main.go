package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/winterhq/socialboard/internal/auth"
	"github.com/winterhq/socialboard/internal/cache"
	"github.com/winterhq/socialboard/internal/config"
	"github.com/winterhq/socialboard/internal/database"
	"github.com/winterhq/socialboard/internal/handlers"
	"github.com/winterhq/socialboard/internal/logger"
	"github.com/winterhq/socialboard/internal/metrics"
	"github.com/winterhq/socialboard/internal/middleware"
	"github.com/winterhq/socialboard/internal/refresh"
	"github.com/winterhq/socialboard/internal/scraper"
	"github.com/winterhq/socialboard/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger is not up yet
		panic(err)
	}

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		panic(err)
	}
	defer logger.Close()

	metrics.Initialize()

	db, err := database.Connect()
	if err != nil {
		logger.Log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis is optional; without it the refresh bus is local-only
	var announcer refresh.Announcer
	var redisClient *cache.RedisClient
	if cfg.RedisEnabled() {
		redisClient, err = cache.NewRedisClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword)
		if err != nil {
			logger.Log.Warn("redis unavailable, refresh bus runs local-only", zap.Error(err))
		} else {
			defer redisClient.Close()
			announcer = refresh.NewRedisAnnouncer(redisClient)
		}
	}

	bus := refresh.NewBus(announcer)
	bus.Start()
	defer bus.Close()

	authService := auth.NewService(db, []byte(cfg.JWTSecret))

	h := handlers.NewHandlers(db, authService, bus)
	h.SetScraper(scraper.New(), cfg.ScrapeHandles)

	wsHandler := websocket.NewHandler(bus)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "apikey"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		if err := database.Health(db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "socialboard",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h.RegisterRoutes(r, cfg.PublicAPIKey)
	r.GET("/api/v1/ws", wsHandler.HandleWebSocket)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Log.Info("server exited")
}

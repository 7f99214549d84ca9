package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/scoutsight/intel-engine/internal/api/handlers"
	"github.com/scoutsight/intel-engine/internal/config"
	"github.com/scoutsight/intel-engine/internal/intelligence"
	"github.com/scoutsight/intel-engine/internal/providers"
	"github.com/scoutsight/intel-engine/internal/scheduler"
	"github.com/scoutsight/intel-engine/internal/ws"
	"github.com/scoutsight/intel-engine/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	log.WithFields(logrus.Fields{
		"service": "intel-engine",
		"port":    cfg.Port,
		"env":     cfg.Env,
	}).Info("Starting intelligence engine")

	db, err := initDatabase(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}

	redisClient, err := initRedis(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize Redis")
	}
	defer redisClient.Close()

	// Collaborator boundary: store-backed providers, wrapped with the
	// circuit breaker (telemetry) and redis caches (market, match data)
	store := providers.NewStore(db, log)
	telemetry := providers.NewBreakerTelemetry(store, log)
	marketData := providers.NewCachedMarketData(store, redisClient, log)
	matchData := providers.NewCachedMatchData(store, redisClient, log)

	service := intelligence.NewService(telemetry, marketData, matchData, store, log)

	hub := ws.NewPredictionHub(log)
	go hub.Run()

	refresher := scheduler.NewScheduler(marketData, service, hub, log)
	if err := refresher.Start(cfg.MarketRefreshSchedule); err != nil {
		log.WithError(err).Fatal("Failed to start refresh scheduler")
	}
	defer refresher.Stop()

	apiHandlers := handlers.NewHandlers(db, redisClient, service, log)
	router := setupRouter(apiHandlers, hub, refresher)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()
	log.WithField("addr", server.Addr).Info("HTTP server listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}

func initDatabase(cfg *config.Config, log *logrus.Logger) (*gorm.DB, error) {
	gormLogLevel := gormlogger.Silent
	if cfg.IsDevelopment() {
		gormLogLevel = gormlogger.Warn
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.WithField("database", cfg.Database.Name).Info("Connected to postgres")
	return db, nil
}

func initRedis(cfg *config.Config, log *logrus.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.WithField("addr", cfg.Redis.Addr).Info("Connected to redis")
	return client, nil
}

func setupRouter(h *handlers.Handlers, hub *ws.PredictionHub, refresher *scheduler.Scheduler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", h.HealthCheck)
	router.GET("/ready", h.ReadinessCheck)

	v1 := router.Group("/api/v1")
	{
		players := v1.Group("/players")
		{
			players.GET("/:id/injury-risk", h.AnalyzeInjuryRisk)
			players.GET("/:id/valuation", h.CalculatePlayerValue)
			players.GET("/:id/intelligence", h.BuildPlayerIntelligence)
		}

		matches := v1.Group("/matches")
		{
			matches.GET("/:matchId/predictions", h.GetLiveMatchPredictions)
			matches.GET("/:matchId/players", h.GetLivePlayerData)
			matches.POST("/:matchId/track", func(c *gin.Context) {
				refresher.TrackMatch(c.Param("matchId"))
				c.JSON(http.StatusAccepted, gin.H{"tracking": c.Param("matchId")})
			})
			matches.DELETE("/:matchId/track", func(c *gin.Context) {
				refresher.UntrackMatch(c.Param("matchId"))
				c.JSON(http.StatusOK, gin.H{"tracking": false})
			})
		}

		clubs := v1.Group("/clubs")
		{
			clubs.GET("/:clubId/injury-alerts", h.ClubInjuryAlerts)
			clubs.GET("/:clubId/dashboard", h.ClubDashboard)
		}

		v1.GET("/market/opportunities", h.MarketOpportunityScan)
	}

	router.GET("/ws/predictions", hub.HandleConnection)

	return router
}

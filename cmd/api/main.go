// main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/projecthub/project-hub-backend/internal/api/handlers"
	"github.com/projecthub/project-hub-backend/internal/api/middleware"
	"github.com/projecthub/project-hub-backend/internal/config"
	"github.com/projecthub/project-hub-backend/internal/cron"
	"github.com/projecthub/project-hub-backend/internal/db"
	"github.com/projecthub/project-hub-backend/internal/logger"
	"github.com/projecthub/project-hub-backend/internal/repository"
	"github.com/projecthub/project-hub-backend/internal/seed"
	"github.com/projecthub/project-hub-backend/internal/service"
	"github.com/projecthub/project-hub-backend/internal/socket"
)

func main() {
	// ============================================
	// Load environment variables
	// ============================================
	envErr := godotenv.Load()

	// ============================================
	// Load configuration
	// ============================================
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	log := logger.Global()

	if envErr != nil {
		log.Info().Msg("No .env file found, using environment variables")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("❌ Invalid configuration")
	}

	// ============================================
	// Set Gin mode
	// ============================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// ============================================
	// Run Database Migrations FIRST
	// ============================================
	log.Info().Msg("🔄 Running database migrations...")
	if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("❌ Migration failed")
	}
	log.Info().Msg("✅ Database migrations completed")

	// ============================================
	// Initialize PostgreSQL (pgxpool + sqlx)
	// ============================================
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := db.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to connect to PostgreSQL")
	}
	defer pg.Close()

	repos := repository.NewRepositories(pg.Pool, pg.SQL)
	log.Info().Msg("📦 Repositories initialized")

	// ============================================
	// Initialize Redis (optional)
	// ============================================
	var redisDB *db.RedisDB
	var statsCache service.StatsCache
	if cfg.RedisURL != "" {
		redisDB, err = db.NewRedisDB(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("⚠️ Failed to connect to Redis (continuing without cache)")
			redisDB = nil
		} else {
			defer redisDB.Close()
			statsCache = redisDB
			log.Info().Msg("⚡ Redis cache enabled")
		}
	}

	// ============================================
	// Initialize WebSocket Hub
	// ============================================
	// The hub outlives the signal context so the shutdown notice still reaches clients.
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := socket.NewHub()
	go hub.Run(hubCtx)
	broadcaster := socket.NewBroadcaster(hub)
	log.Info().Msg("🔌 WebSocket hub initialized")

	// ============================================
	// Seed Data (for development)
	// ============================================
	if !cfg.IsProduction() {
		if err := seed.SeedData(ctx, repos, cfg.BcryptCost); err != nil {
			log.Error().Err(err).Msg("❌ Seeding failed")
		}
	}

	// ============================================
	// Initialize All Services
	// ============================================
	services := service.NewServices(&service.ServiceDeps{
		Config:      cfg,
		Repos:       repos,
		Cache:       statsCache,
		Broadcaster: broadcaster,
	})
	log.Info().Msg("✨ All services initialized")

	h := handlers.NewHandlers(services)
	wsHandler := socket.NewHandler(hub, services.Auth, cfg.FrontendURL)
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)

	// ============================================
	// Initialize Cron Scheduler
	// ============================================
	scheduler := cron.NewScheduler(services, repos.CompanyRepo, repos.UserRepo)
	scheduler.Start()
	defer scheduler.Stop()

	// ============================================
	// Create Gin Router
	// ============================================
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})
	r.GET("/health/detailed", func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status, health, database := http.StatusOK, "healthy", "connected"
		if err := pg.Pool.Ping(pingCtx); err != nil {
			status, health, database = http.StatusServiceUnavailable, "degraded", "unreachable"
		}

		c.JSON(status, gin.H{
			"status":     health,
			"timestamp":  time.Now(),
			"database":   database,
			"cache":      getCacheStatus(pingCtx, redisDB),
			"websocket":  "active",
			"ws_clients": hub.GetConnectedClientsCount(),
		})
	})

	// WebSocket route
	r.GET("/ws", wsHandler.HandleWebSocket)

	// API routes
	h.RegisterRoutes(r.Group("/api/v1"), services.Auth, limiter)

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Info().Str("port", cfg.Port).Msg("🚀 Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.Info().Msg("Shutting down server...")
	broadcaster.BroadcastSystem("Server is restarting")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	stopHub()

	log.Info().Msg("Server exited")
}

func getCacheStatus(ctx context.Context, redisDB *db.RedisDB) string {
	if redisDB == nil {
		return "disabled"
	}
	if err := redisDB.Ping(ctx); err != nil {
		return "unreachable"
	}
	return "connected"
}
